package service

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// profitLossPercent compares sell proceeds against the cost basis of the
// liquidated slice of a position: selling 50% is measured against 50% of
// the original spend. Returns nil when the basis rounds to zero. Values
// are percentages rounded to two decimal places, negative for a loss.
func profitLossPercent(pos *domain.OpenPosition, proceeds *big.Int, percent int) *decimal.Decimal {
	if pos == nil || proceeds == nil {
		return nil
	}
	basis := percentOf(pos.BuyAmountNative, percent)
	if basis.Sign() == 0 {
		return nil
	}

	basisDec := decimal.NewFromBigInt(basis, 0)
	pnl := decimal.NewFromBigInt(proceeds, 0).
		Sub(basisDec).
		Div(basisDec).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return &pnl
}

// percentOf returns percent% of amount, rounding down.
func percentOf(amount *big.Int, percent int) *big.Int {
	return new(big.Int).Div(
		new(big.Int).Mul(amount, big.NewInt(int64(percent))),
		big.NewInt(100),
	)
}
