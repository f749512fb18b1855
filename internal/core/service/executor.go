package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const (
	// slippagePercent floors the acceptable swap output below the quote.
	slippagePercent = 7

	// swapDeadline bounds how long a submitted swap stays valid on-chain.
	swapDeadline = 10 * time.Minute
)

// TradeExecutor turns buy/sell decisions into confirmed swaps. Every write
// follows the same protocol: ensure router approval, quote, apply the
// slippage floor, submit, block on the receipt. Trade events fan out to
// the log and the notifier best-effort; their failures never abort a trade
// that already landed.
type TradeExecutor struct {
	chain     domain.ChainClient
	quotes    domain.Quoter
	notifier  domain.Notifier
	trades    domain.TradeLog
	log       *zap.Logger
	buyAmount *big.Int
	now       func() time.Time
}

var _ domain.Trader = (*TradeExecutor)(nil)

func NewTradeExecutor(
	chain domain.ChainClient,
	quotes domain.Quoter,
	notifier domain.Notifier,
	trades domain.TradeLog,
	buyAmount *big.Int,
	log *zap.Logger,
) *TradeExecutor {
	return &TradeExecutor{
		chain:     chain,
		quotes:    quotes,
		notifier:  notifier,
		trades:    trades,
		log:       log,
		buyAmount: new(big.Int).Set(buyAmount),
		now:       time.Now,
	}
}

// Buy swaps the configured native amount into the token and opens a
// position around the spent amount. No position is created unless the
// swap confirms.
func (e *TradeExecutor) Buy(ctx context.Context, token common.Address) (*domain.OpenPosition, error) {
	info, err := e.chain.TokenInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load token metadata: %w", err)
	}

	if err := e.ensureApproval(ctx, token); err != nil {
		return nil, err
	}

	expected, err := e.quotes.NativeToToken(ctx, token, e.buyAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to quote buy: %w", err)
	}
	minOut := applySlippage(expected)
	deadline := e.now().Add(swapDeadline)

	txHash, err := e.chain.SwapNativeForToken(ctx, token, e.buyAmount, minOut, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to submit buy swap: %w", err)
	}

	e.log.Info("buy submitted",
		zap.String("token", token.Hex()),
		zap.String("tx", txHash.Hex()),
		zap.String("amount_in", e.buyAmount.String()),
		zap.String("min_out", minOut.String()))

	outcome, err := e.chain.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed while awaiting buy receipt: %w", err)
	}
	switch outcome {
	case domain.TxReverted:
		return nil, fmt.Errorf("buy of %s: %w", token.Hex(), domain.ErrTradeReverted)
	case domain.TxUnknown:
		// The transaction may still land. Not retrying keeps the nonce
		// sequence clean and avoids a double buy.
		e.log.Warn("buy unconfirmed within receipt window, not retrying",
			zap.String("token", token.Hex()),
			zap.String("tx", txHash.Hex()))
		return nil, fmt.Errorf("buy of %s: %w", token.Hex(), domain.ErrTxUnconfirmed)
	}

	pos := domain.NewOpenPosition(token, info.DisplaySymbol(), e.buyAmount, e.now())
	e.record(ctx, domain.TradeEvent{
		Kind:         domain.TradeBuy,
		PositionID:   pos.ID,
		Token:        token,
		TokenSymbol:  pos.TokenSymbol,
		AmountNative: new(big.Int).Set(e.buyAmount),
		TxHash:       txHash,
		Time:         e.now(),
	})

	e.log.Info("position opened",
		zap.String("position", pos.ID.String()),
		zap.String("token", token.Hex()),
		zap.String("symbol", pos.TokenSymbol))
	return pos, nil
}

// Sell liquidates percent of the current on-chain balance back to native.
// The balance is re-read here rather than taken from the position record
// since external transfers and prior partial exits make them diverge. A
// zero balance is a no-op, reported as (false, nil).
func (e *TradeExecutor) Sell(ctx context.Context, token common.Address, percent int, pos *domain.OpenPosition) (bool, error) {
	balance, err := e.chain.TokenBalance(ctx, token, e.chain.WalletAddress())
	if err != nil {
		return false, fmt.Errorf("failed to read token balance: %w", err)
	}
	if balance.Sign() == 0 {
		e.log.Info("nothing to sell", zap.String("token", token.Hex()))
		return false, nil
	}

	amountIn := percentOf(balance, percent)
	if amountIn.Sign() == 0 {
		return false, nil
	}

	if err := e.ensureApproval(ctx, token); err != nil {
		return false, err
	}

	expected, err := e.quotes.TokenToNative(ctx, token, amountIn)
	if err != nil {
		return false, fmt.Errorf("failed to quote sell: %w", err)
	}
	minOut := applySlippage(expected)
	deadline := e.now().Add(swapDeadline)

	txHash, err := e.chain.SwapTokenForNative(ctx, token, amountIn, minOut, deadline)
	if err != nil {
		return false, fmt.Errorf("failed to submit sell swap: %w", err)
	}

	e.log.Info("sell submitted",
		zap.String("token", token.Hex()),
		zap.String("tx", txHash.Hex()),
		zap.Int("percent", percent),
		zap.String("amount_in", amountIn.String()),
		zap.String("min_out", minOut.String()))

	outcome, err := e.chain.WaitForReceipt(ctx, txHash)
	if err != nil {
		return false, fmt.Errorf("failed while awaiting sell receipt: %w", err)
	}
	switch outcome {
	case domain.TxReverted:
		return false, fmt.Errorf("sell of %s: %w", token.Hex(), domain.ErrTradeReverted)
	case domain.TxUnknown:
		e.log.Warn("sell unconfirmed within receipt window, not retrying",
			zap.String("token", token.Hex()),
			zap.String("tx", txHash.Hex()))
		return false, fmt.Errorf("sell of %s: %w", token.Hex(), domain.ErrTxUnconfirmed)
	}

	event := domain.TradeEvent{
		Kind:         domain.TradeSell,
		Token:        token,
		AmountNative: expected,
		TxHash:       txHash,
		Time:         e.now(),
	}
	if pos != nil {
		event.PositionID = pos.ID
		event.TokenSymbol = pos.TokenSymbol
		event.ProfitLossPercent = profitLossPercent(pos, expected, percent)
	}
	e.record(ctx, event)

	e.log.Info("sell confirmed",
		zap.String("token", token.Hex()),
		zap.Int("percent", percent),
		zap.String("proceeds", expected.String()))
	return true, nil
}

// ensureApproval grants the router an unlimited allowance once per token.
// A nonzero existing allowance short-circuits so repeated trades issue no
// redundant approval transactions.
func (e *TradeExecutor) ensureApproval(ctx context.Context, token common.Address) error {
	allowance, err := e.chain.Allowance(ctx, token, e.chain.WalletAddress(), e.chain.RouterAddress())
	if err != nil {
		return fmt.Errorf("failed to read allowance: %w", err)
	}
	if allowance.Sign() > 0 {
		return nil
	}

	txHash, err := e.chain.Approve(ctx, token, e.chain.RouterAddress(), abi.MaxUint256)
	if err != nil {
		return fmt.Errorf("failed to submit approval: %w", err)
	}
	e.log.Info("approval submitted",
		zap.String("token", token.Hex()),
		zap.String("tx", txHash.Hex()))

	outcome, err := e.chain.WaitForReceipt(ctx, txHash)
	if err != nil {
		return fmt.Errorf("failed while awaiting approval receipt: %w", err)
	}
	switch outcome {
	case domain.TxReverted:
		return fmt.Errorf("approval of %s: %w", token.Hex(), domain.ErrTradeReverted)
	case domain.TxUnknown:
		return fmt.Errorf("approval of %s: %w", token.Hex(), domain.ErrTxUnconfirmed)
	}
	return nil
}

// record fans a confirmed trade out to the audit log and the notifier.
// Both sinks are best-effort.
func (e *TradeExecutor) record(ctx context.Context, event domain.TradeEvent) {
	if e.trades != nil {
		if err := e.trades.Append(ctx, event); err != nil {
			e.log.Warn("failed to append trade log", zap.Error(err))
		}
	}
	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, event); err != nil {
			e.log.Warn("failed to deliver notification", zap.Error(err))
		}
	}
}

// applySlippage floors the quoted output by slippagePercent, rounding
// down so the floor never exceeds what integer token units can satisfy.
func applySlippage(expected *big.Int) *big.Int {
	return percentOf(expected, 100-slippagePercent)
}
