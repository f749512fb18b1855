package service

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// candidateBuffer absorbs feed bursts while the agent is mid-trade.
const candidateBuffer = 64

// TradingAgent ties the pipeline together: candidate feeds push token
// addresses into one channel, and a single loop alternates between
// vetting-and-buying candidates and sweeping open positions. Keeping all
// signing activity on one goroutine keeps the account nonce sequence
// deterministic.
type TradingAgent struct {
	feeds           []domain.CandidateFeed
	vetter          domain.Vetter
	trader          domain.Trader
	monitor         *PositionMonitor
	log             *zap.Logger
	monitorInterval time.Duration
	candidates      chan common.Address
}

func NewTradingAgent(
	feeds []domain.CandidateFeed,
	vetter domain.Vetter,
	trader domain.Trader,
	monitor *PositionMonitor,
	monitorInterval time.Duration,
	log *zap.Logger,
) *TradingAgent {
	return &TradingAgent{
		feeds:           feeds,
		vetter:          vetter,
		trader:          trader,
		monitor:         monitor,
		log:             log,
		monitorInterval: monitorInterval,
		candidates:      make(chan common.Address, candidateBuffer),
	}
}

// Run blocks until ctx is cancelled. Feeds run on their own goroutines
// but only deliver candidates; every chain write happens inside this
// loop.
func (a *TradingAgent) Run(ctx context.Context) error {
	for _, feed := range a.feeds {
		go func(feed domain.CandidateFeed) {
			if err := feed.Run(ctx, a.candidates); err != nil {
				a.log.Error("candidate feed stopped",
					zap.String("feed", feed.Name()),
					zap.Error(err))
			}
		}(feed)
		a.log.Info("candidate feed started", zap.String("feed", feed.Name()))
	}

	ticker := time.NewTicker(a.monitorInterval)
	defer ticker.Stop()

	a.log.Info("agent running",
		zap.Int("feeds", len(a.feeds)),
		zap.Duration("monitor_interval", a.monitorInterval))

	for {
		select {
		case <-ctx.Done():
			a.log.Info("agent stopping", zap.Int("open_positions", a.monitor.Open()))
			return ctx.Err()
		case token := <-a.candidates:
			a.handleCandidate(ctx, token)
		case <-ticker.C:
			a.monitor.Sweep(ctx)
		}
	}
}

// handleCandidate vets one token and opens a position when it passes.
func (a *TradingAgent) handleCandidate(ctx context.Context, token common.Address) {
	a.log.Info("candidate received", zap.String("token", token.Hex()))

	verdict := a.vetter.Vet(ctx, token)
	if !verdict.Approved() {
		a.log.Info("candidate rejected",
			zap.String("token", token.Hex()),
			zap.Bool("liquid", verdict.Liquidity != nil),
			zap.Bool("whale", verdict.WhaleDetected),
			zap.Bool("honeypot", verdict.Honeypot))
		return
	}

	a.log.Info("candidate approved",
		zap.String("token", token.Hex()),
		zap.String("liquidity", verdict.Liquidity.String()))

	pos, err := a.trader.Buy(ctx, token)
	if err != nil {
		a.log.Error("buy failed", zap.String("token", token.Hex()), zap.Error(err))
		return
	}
	a.monitor.Track(pos)
}
