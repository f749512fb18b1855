package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/chain"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/explorer"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/feed"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/notify"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/tokencache"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/tradelog"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/config"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/service"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/logger"
	"github.com/scarramanga/StackMotive-Final-sub001/pkg/version"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting trading agent", zap.String("version", version.Runtime()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Token metadata cache: redis when configured, in-process otherwise.
	var tokens domain.TokenCache
	if cfg.RedisAddr != "" {
		redisCache, err := tokencache.NewRedis(ctx, cfg.RedisAddr, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		tokens = redisCache
	} else {
		tokens = tokencache.NewMemory()
	}

	client, err := chain.NewClient(ctx, chain.Params{
		RPCEndpoint:   cfg.Chain.RPCEndpoint,
		ChainID:       cfg.Chain.ChainID,
		PrivateKey:    cfg.PrivateKey,
		Router:        common.HexToAddress(cfg.Chain.Router),
		Factory:       common.HexToAddress(cfg.Chain.Factory),
		WrappedNative: common.HexToAddress(cfg.Chain.WrappedNative),
		Tokens:        tokens,
		Log:           zlog,
	})
	if err != nil {
		zlog.Fatal("failed to connect to chain", zap.Error(err))
	}
	defer client.Close()

	trades, err := tradelog.NewStore(cfg.TradeLog.Path)
	if err != nil {
		zlog.Fatal("failed to open trade log", zap.Error(err))
	}
	defer trades.Close()

	deployers := explorer.NewClient(cfg.Explorer.BaseURL, cfg.ExplorerAPIKey, zlog)
	telegram := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, zlog)

	buyAmount, err := cfg.BuyAmount()
	if err != nil {
		zlog.Fatal("invalid buy amount", zap.Error(err))
	}

	quotes := service.NewQuoteService(client)
	vetter := service.NewVettingService(client, deployers, zlog)
	executor := service.NewTradeExecutor(client, quotes, telegram, trades, buyAmount, zlog)
	monitor := service.NewPositionMonitor(client, quotes, executor, zlog)

	var feeds []domain.CandidateFeed
	if cfg.Feed.SubscribeEndpoint != "" {
		feeds = append(feeds, feed.NewPairWatcher(
			cfg.Feed.SubscribeEndpoint,
			common.HexToAddress(cfg.Chain.Factory),
			common.HexToAddress(cfg.Chain.WrappedNative),
			zlog,
		))
	}
	if cfg.Feed.CandidateWS != "" {
		feeds = append(feeds, feed.NewWSFeed(cfg.Feed.CandidateWS, zlog))
	}
	if len(feeds) == 0 {
		zlog.Fatal("no candidate feed configured, set feed.subscribe_endpoint or feed.candidate_ws")
	}

	agent := service.NewTradingAgent(feeds, vetter, executor, monitor, cfg.MonitorInterval(), zlog)

	balance, err := client.NativeBalance(ctx)
	if err != nil {
		zlog.Fatal("failed to read wallet balance", zap.Error(err))
	}
	zlog.Info("wallet ready",
		zap.String("address", client.WalletAddress().Hex()),
		zap.String("balance_wei", balance.String()),
		zap.String("buy_amount_wei", buyAmount.String()))
	if balance.Cmp(buyAmount) < 0 {
		zlog.Warn("wallet balance below configured buy amount, buys will fail until funded")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		zlog.Info("shutdown signal received")
		cancel()
	}()

	if err := agent.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("agent stopped with error", zap.Error(err))
	}
	zlog.Info("agent stopped")
}
