package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// PositionStatus tracks the lifecycle of an open position.
type PositionStatus string

const (
	StatusOpen            PositionStatus = "open"
	StatusPartiallyExited PositionStatus = "partially-exited"
	StatusClosed          PositionStatus = "closed"
)

// OpenPosition is created once per confirmed buy and owned by the position
// monitor for the rest of its life. Exit thresholds are derived from the
// spent amount at creation and never recalculated; Status is the only field
// mutated afterwards. A second buy of the same token creates an independent
// position, so identity is a generated ID rather than the token address.
type OpenPosition struct {
	ID              uuid.UUID
	Token           common.Address
	TokenSymbol     string
	BuyAmountNative *big.Int
	BuyTime         time.Time
	StopLoss        *big.Int
	TakeProfit1     *big.Int
	TakeProfit2     *big.Int
	Status          PositionStatus
}

// NewOpenPosition builds a position from a confirmed buy. Thresholds:
// stop-loss at 85% of the spent amount, tier-1 take-profit at 150%,
// tier-2 take-profit at 200%. Integer math rounds down.
func NewOpenPosition(token common.Address, symbol string, buyAmount *big.Int, buyTime time.Time) *OpenPosition {
	spent := new(big.Int).Set(buyAmount)
	return &OpenPosition{
		ID:              uuid.New(),
		Token:           token,
		TokenSymbol:     symbol,
		BuyAmountNative: spent,
		BuyTime:         buyTime,
		StopLoss:        new(big.Int).Div(new(big.Int).Mul(spent, big.NewInt(85)), big.NewInt(100)),
		TakeProfit1:     new(big.Int).Div(new(big.Int).Mul(spent, big.NewInt(3)), big.NewInt(2)),
		TakeProfit2:     new(big.Int).Mul(spent, big.NewInt(2)),
		Status:          StatusOpen,
	}
}

// HeldFor returns how long the position has been open as of now.
func (p *OpenPosition) HeldFor(now time.Time) time.Duration {
	return now.Sub(p.BuyTime)
}

// Closed reports whether the position reached its terminal state.
func (p *OpenPosition) Closed() bool {
	return p.Status == StatusClosed
}
