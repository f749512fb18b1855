package domain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TxOutcome is the three-valued result of waiting for a transaction
// receipt. It is a first-class type rather than a bool because the caller's
// action differs for "reverted" (abort the operation) versus "unknown"
// (log and continue, the transaction may still land).
type TxOutcome int

const (
	// TxUnknown means no receipt appeared within the confirmation window.
	TxUnknown TxOutcome = iota
	// TxConfirmed means the receipt reported a success status.
	TxConfirmed
	// TxReverted means the receipt reported a failure status.
	TxReverted
)

func (o TxOutcome) String() string {
	switch o {
	case TxConfirmed:
		return "confirmed"
	case TxReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// ChainClient defines every on-chain operation the trading core needs.
// Implementations hold one RPC endpoint and one signing key; all errors are
// wrapped at this boundary and never surface as raw RPC failures.
type ChainClient interface {
	// WalletAddress returns the signing account's address.
	WalletAddress() common.Address

	// WrappedNative returns the wrapped native asset used on one side of
	// every trading path.
	WrappedNative() common.Address

	// RouterAddress returns the swap router the executor approves and
	// trades against.
	RouterAddress() common.Address

	// NativeBalance reads the wallet's native-asset balance in wei.
	NativeBalance(ctx context.Context) (*big.Int, error)

	// TokenInfo reads name, symbol and decimals, applying defaults for
	// fields the contract does not expose. Results are cached indefinitely.
	TokenInfo(ctx context.Context, token common.Address) (*TokenInfo, error)

	// TokenBalance reads owner's balance of the given token.
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)

	// Allowance reads the amount spender may transfer on owner's behalf.
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)

	// TotalSupply reads the token's total supply.
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)

	// Pool resolves the pair of token against the wrapped native asset and
	// reads its current reserves. Returns ErrNoLiquidityPool when the
	// factory knows no such pair.
	Pool(ctx context.Context, token common.Address) (*LiquidityPool, error)

	// AmountsOut asks the router how much of the last path element a given
	// input amount buys, at current reserves.
	AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error)

	// SimulateApprove runs approve(spender, 1) as a read-only call from the
	// wallet. On revert it returns the node's revert text together with an
	// error wrapping ErrCallReverted; any other error is a transport
	// failure.
	SimulateApprove(ctx context.Context, token, spender common.Address) (string, error)

	// Approve submits an approval transaction and returns its hash.
	Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error)

	// SwapNativeForToken submits a swap of amountIn wei of the native asset
	// for at least minOut of token, valid until deadline.
	SwapNativeForToken(ctx context.Context, token common.Address, amountIn, minOut *big.Int, deadline time.Time) (common.Hash, error)

	// SwapTokenForNative submits the reverse swap.
	SwapTokenForNative(ctx context.Context, token common.Address, amountIn, minOut *big.Int, deadline time.Time) (common.Hash, error)

	// WaitForReceipt polls for the transaction's receipt at a fixed
	// interval up to the confirmation window and maps the result to the
	// three-valued outcome. The error is non-nil only when the parent
	// context was cancelled.
	WaitForReceipt(ctx context.Context, txHash common.Hash) (TxOutcome, error)
}

// Quoter prices amounts along a trading path. No caching: every call
// reflects the current block state.
type Quoter interface {
	Quote(ctx context.Context, path []common.Address, amountIn *big.Int) (*big.Int, error)
	NativeToToken(ctx context.Context, token common.Address, amountIn *big.Int) (*big.Int, error)
	TokenToNative(ctx context.Context, token common.Address, amountIn *big.Int) (*big.Int, error)
}

// Vetter gates candidate tokens. Sub-check failures are folded into the
// verdict, never raised, so a scan loop survives flaky lookups.
type Vetter interface {
	Vet(ctx context.Context, token common.Address) *SecurityVerdict
}

// Trader opens and exits positions. Buy returns the new position on a
// confirmed swap and nil on anything else. Sell liquidates percent of the
// current on-chain balance; the bool reports whether a swap was actually
// executed, with a zero balance being a no-op success.
type Trader interface {
	Buy(ctx context.Context, token common.Address) (*OpenPosition, error)
	Sell(ctx context.Context, token common.Address, percent int, pos *OpenPosition) (bool, error)
}

// DeployerLookup is the typed result of a block-explorer deployer query.
// Found=false with a nil error means the explorer had no answer (missing
// credentials or empty history), which callers treat as "cannot confirm".
type DeployerLookup struct {
	Address common.Address
	Found   bool
}

// DeployerSource resolves the account that deployed a token contract.
type DeployerSource interface {
	Deployer(ctx context.Context, token common.Address) (DeployerLookup, error)
}

// Notifier delivers trade events to an outbound channel. Delivery is
// best-effort: callers log failures and keep trading.
type Notifier interface {
	Notify(ctx context.Context, event TradeEvent) error
}

// TradeLog is an append-only audit sink for executed trades.
type TradeLog interface {
	Append(ctx context.Context, event TradeEvent) error
	Close() error
}

// TokenCache stores immutable token metadata keyed by address.
type TokenCache interface {
	Get(ctx context.Context, address common.Address) (*TokenInfo, bool)
	Put(ctx context.Context, info *TokenInfo)
}

// CandidateFeed produces candidate token addresses for vetting. Feeds run
// on their own goroutines but perform no account-mutating calls; they only
// deliver addresses to the channel.
type CandidateFeed interface {
	Name() string
	Run(ctx context.Context, candidates chan<- common.Address) error
}
