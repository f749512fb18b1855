package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeKind distinguishes the two sides a trade event can report.
type TradeKind string

const (
	TradeBuy  TradeKind = "buy"
	TradeSell TradeKind = "sell"
)

// TradeEvent is emitted after every confirmed swap. It feeds the
// notification sink and the trade log; delivery is best-effort on both and
// never blocks trading.
type TradeEvent struct {
	Kind        TradeKind
	PositionID  uuid.UUID
	Token       common.Address
	TokenSymbol string

	// AmountNative is the native-asset side of the swap in wei: spent on a
	// buy, expected proceeds on a sell.
	AmountNative *big.Int

	// ProfitLossPercent is set on sells when the originating position is
	// known, nil otherwise.
	ProfitLossPercent *decimal.Decimal

	TxHash common.Hash
	Time   time.Time
}
