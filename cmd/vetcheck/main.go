package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/chain"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/explorer"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/tokencache"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/config"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/service"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/logger"
)

// vetcheck runs the security pipeline against a single token and prints
// the verdict, without trading anything. Useful for tuning the checks
// against known-good and known-bad tokens.
func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: vetcheck [-config path] <token-address>")
	}
	if !common.IsHexAddress(flag.Arg(0)) {
		log.Fatalf("%q is not a valid token address", flag.Arg(0))
	}
	token := common.HexToAddress(flag.Arg(0))

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

	ctx := context.Background()

	// Same wiring as the agent, minus the trading half.
	client, err := chain.NewClient(ctx, chain.Params{
		RPCEndpoint:   cfg.Chain.RPCEndpoint,
		ChainID:       cfg.Chain.ChainID,
		PrivateKey:    cfg.PrivateKey,
		Router:        common.HexToAddress(cfg.Chain.Router),
		Factory:       common.HexToAddress(cfg.Chain.Factory),
		WrappedNative: common.HexToAddress(cfg.Chain.WrappedNative),
		Tokens:        tokencache.NewMemory(),
		Log:           zlog,
	})
	if err != nil {
		log.Fatalf("Failed to connect to chain: %v", err)
	}
	defer client.Close()

	deployers := explorer.NewClient(cfg.Explorer.BaseURL, cfg.ExplorerAPIKey, zlog)
	vetter := service.NewVettingService(client, deployers, zlog)

	verdict := vetter.Vet(ctx, token)

	output, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal verdict: %v", err)
	}
	fmt.Println(string(output))
	fmt.Printf("approved: %v\n", verdict.Approved())
}
