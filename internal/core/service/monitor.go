package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const (
	// maxHoldDuration forces an exit regardless of profit or loss.
	maxHoldDuration = 24 * time.Hour

	fullExitPercent = 100
	halfExitPercent = 50
)

// PositionMonitor owns the set of open positions and is the only code
// that mutates their status. Each sweep re-values every tracked position
// and applies the exit rules in fixed precedence: stop-loss, then the
// upper take-profit, then the lower, then the hold limit.
type PositionMonitor struct {
	chain     domain.ChainClient
	quotes    domain.Quoter
	trader    domain.Trader
	log       *zap.Logger
	now       func() time.Time
	positions []*domain.OpenPosition
}

func NewPositionMonitor(chain domain.ChainClient, quotes domain.Quoter, trader domain.Trader, log *zap.Logger) *PositionMonitor {
	return &PositionMonitor{
		chain:  chain,
		quotes: quotes,
		trader: trader,
		log:    log,
		now:    time.Now,
	}
}

// Track adds a freshly opened position to the monitored set.
func (m *PositionMonitor) Track(pos *domain.OpenPosition) {
	if pos == nil {
		return
	}
	m.positions = append(m.positions, pos)
	m.log.Info("tracking position",
		zap.String("position", pos.ID.String()),
		zap.String("token", pos.Token.Hex()),
		zap.Int("open", len(m.positions)))
}

// Open reports how many positions are still being tracked.
func (m *PositionMonitor) Open() int {
	return len(m.positions)
}

// Sweep evaluates every tracked position once, dropping those that reach
// the closed state. Cancellation is honored between positions, never in
// the middle of one.
func (m *PositionMonitor) Sweep(ctx context.Context) {
	for _, pos := range m.positions {
		if ctx.Err() != nil {
			break
		}
		m.evaluate(ctx, pos)
	}

	active := m.positions[:0]
	for _, pos := range m.positions {
		if !pos.Closed() {
			active = append(active, pos)
		}
	}
	m.positions = active
}

func (m *PositionMonitor) evaluate(ctx context.Context, pos *domain.OpenPosition) {
	balance, err := m.chain.TokenBalance(ctx, pos.Token, m.chain.WalletAddress())
	if err != nil {
		m.log.Warn("balance read failed, retrying next sweep",
			zap.String("position", pos.ID.String()), zap.Error(err))
		return
	}
	if balance.Sign() == 0 {
		// Drained externally. Nothing left to sell.
		m.log.Info("position balance already zero, closing",
			zap.String("position", pos.ID.String()),
			zap.String("token", pos.Token.Hex()))
		pos.Status = domain.StatusClosed
		return
	}

	value, err := m.quotes.TokenToNative(ctx, pos.Token, balance)
	if err != nil {
		m.log.Warn("quote failed, retrying next sweep",
			zap.String("position", pos.ID.String()), zap.Error(err))
		return
	}

	switch {
	case value.Cmp(pos.StopLoss) <= 0:
		m.exit(ctx, pos, fullExitPercent, "stop-loss")
	case value.Cmp(pos.TakeProfit2) >= 0:
		m.exit(ctx, pos, fullExitPercent, "take-profit-2")
	case value.Cmp(pos.TakeProfit1) >= 0:
		m.exit(ctx, pos, halfExitPercent, "take-profit-1")
	case pos.HeldFor(m.now()) >= maxHoldDuration:
		m.exit(ctx, pos, fullExitPercent, "max-hold")
	}
}

// exit liquidates percent of the position and advances its state. A sell
// error leaves the position in place for the next sweep; a no-op sell
// means the balance vanished underneath us, which closes it.
func (m *PositionMonitor) exit(ctx context.Context, pos *domain.OpenPosition, percent int, rule string) {
	m.log.Info("exit rule fired",
		zap.String("position", pos.ID.String()),
		zap.String("token", pos.Token.Hex()),
		zap.String("rule", rule),
		zap.Int("percent", percent))

	sold, err := m.trader.Sell(ctx, pos.Token, percent, pos)
	if err != nil {
		m.log.Error("sell failed, position retained",
			zap.String("position", pos.ID.String()),
			zap.String("rule", rule),
			zap.Error(err))
		return
	}

	if !sold || percent == fullExitPercent {
		pos.Status = domain.StatusClosed
	} else {
		pos.Status = domain.StatusPartiallyExited
	}
}
