package domain

import "errors"

// Sentinel errors, compared with errors.Is().
var (
	// ErrNoLiquidityPool is returned when the factory knows no pair for the
	// token against the wrapped native asset.
	ErrNoLiquidityPool = errors.New("no liquidity pool for token")

	// ErrQuoteFailed is returned when the router's path-pricing call
	// reverts. Callers treat it as "cannot price this cycle", never as a
	// zero price.
	ErrQuoteFailed = errors.New("router quote failed")

	// ErrCallReverted is returned by read-only contract calls that the node
	// reports as reverted, with the revert text wrapped alongside.
	ErrCallReverted = errors.New("contract call reverted")

	// ErrTradeReverted is returned when a swap or approval transaction was
	// mined with a failure status.
	ErrTradeReverted = errors.New("transaction reverted")

	// ErrTxUnconfirmed is returned when no receipt appeared within the
	// confirmation window. The transaction may still land; callers log and
	// move on rather than resubmitting.
	ErrTxUnconfirmed = errors.New("transaction not confirmed within timeout")
)
