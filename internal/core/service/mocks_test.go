package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

var (
	testWallet  = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testWNative = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testRouter  = common.HexToAddress("0x3000000000000000000000000000000000000003")
	testToken   = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

func txHashFor(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// mockChain cans every read and records every write. Receipt outcomes
// default to confirmed; tests override per transaction hash.
type mockChain struct {
	tokenInfo    *domain.TokenInfo
	tokenInfoErr error

	balances    map[common.Address]*big.Int
	balanceErrs map[common.Address]error

	allowance    *big.Int
	allowanceErr error

	totalSupply    *big.Int
	totalSupplyErr error

	pool    *domain.LiquidityPool
	poolErr error

	amountsOut    *big.Int
	amountsOutErr error

	revertReason string
	simulateErr  error

	approveErr      error
	swapErr         error
	approveCalls    int
	swapNativeCalls int
	swapTokenCalls  int

	lastSwapAmountIn *big.Int
	lastSwapMinOut   *big.Int
	lastSwapDeadline time.Time

	receipts   map[common.Hash]domain.TxOutcome
	receiptErr error
}

func newMockChain() *mockChain {
	return &mockChain{
		tokenInfo: &domain.TokenInfo{
			Address:  testToken,
			Name:     "Mock Token",
			Symbol:   "MOCK",
			Decimals: 18,
		},
		balances:    map[common.Address]*big.Int{},
		balanceErrs: map[common.Address]error{},
		allowance:   big.NewInt(0),
		totalSupply: big.NewInt(1_000_000),
		receipts:    map[common.Hash]domain.TxOutcome{},
	}
}

func (m *mockChain) WalletAddress() common.Address { return testWallet }
func (m *mockChain) WrappedNative() common.Address { return testWNative }
func (m *mockChain) RouterAddress() common.Address { return testRouter }

func (m *mockChain) NativeBalance(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (m *mockChain) TokenInfo(ctx context.Context, token common.Address) (*domain.TokenInfo, error) {
	if m.tokenInfoErr != nil {
		return nil, m.tokenInfoErr
	}
	return m.tokenInfo, nil
}

func (m *mockChain) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	if err := m.balanceErrs[owner]; err != nil {
		return nil, err
	}
	if b, ok := m.balances[owner]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (m *mockChain) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	if m.allowanceErr != nil {
		return nil, m.allowanceErr
	}
	return new(big.Int).Set(m.allowance), nil
}

func (m *mockChain) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	if m.totalSupplyErr != nil {
		return nil, m.totalSupplyErr
	}
	return new(big.Int).Set(m.totalSupply), nil
}

func (m *mockChain) Pool(ctx context.Context, token common.Address) (*domain.LiquidityPool, error) {
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	if m.pool == nil {
		return nil, domain.ErrNoLiquidityPool
	}
	return m.pool, nil
}

func (m *mockChain) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	if m.amountsOutErr != nil {
		return nil, m.amountsOutErr
	}
	return new(big.Int).Set(m.amountsOut), nil
}

func (m *mockChain) SimulateApprove(ctx context.Context, token, spender common.Address) (string, error) {
	return m.revertReason, m.simulateErr
}

func (m *mockChain) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	m.approveCalls++
	if m.approveErr != nil {
		return common.Hash{}, m.approveErr
	}
	return txHashFor("approve"), nil
}

func (m *mockChain) SwapNativeForToken(ctx context.Context, token common.Address, amountIn, minOut *big.Int, deadline time.Time) (common.Hash, error) {
	m.swapNativeCalls++
	if m.swapErr != nil {
		return common.Hash{}, m.swapErr
	}
	m.lastSwapAmountIn = new(big.Int).Set(amountIn)
	m.lastSwapMinOut = new(big.Int).Set(minOut)
	m.lastSwapDeadline = deadline
	return txHashFor("swap-native"), nil
}

func (m *mockChain) SwapTokenForNative(ctx context.Context, token common.Address, amountIn, minOut *big.Int, deadline time.Time) (common.Hash, error) {
	m.swapTokenCalls++
	if m.swapErr != nil {
		return common.Hash{}, m.swapErr
	}
	m.lastSwapAmountIn = new(big.Int).Set(amountIn)
	m.lastSwapMinOut = new(big.Int).Set(minOut)
	m.lastSwapDeadline = deadline
	return txHashFor("swap-token"), nil
}

func (m *mockChain) WaitForReceipt(ctx context.Context, txHash common.Hash) (domain.TxOutcome, error) {
	if m.receiptErr != nil {
		return domain.TxUnknown, m.receiptErr
	}
	if outcome, ok := m.receipts[txHash]; ok {
		return outcome, nil
	}
	return domain.TxConfirmed, nil
}

type mockDeployers struct {
	lookup domain.DeployerLookup
	err    error
	calls  int
}

func (m *mockDeployers) Deployer(ctx context.Context, token common.Address) (domain.DeployerLookup, error) {
	m.calls++
	return m.lookup, m.err
}

type mockQuoter struct {
	nativeToTokenOut *big.Int
	tokenToNativeOut *big.Int
	err              error
	lastAmountIn     *big.Int
}

func (m *mockQuoter) Quote(ctx context.Context, path []common.Address, amountIn *big.Int) (*big.Int, error) {
	return nil, m.err
}

func (m *mockQuoter) NativeToToken(ctx context.Context, token common.Address, amountIn *big.Int) (*big.Int, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastAmountIn = new(big.Int).Set(amountIn)
	return new(big.Int).Set(m.nativeToTokenOut), nil
}

func (m *mockQuoter) TokenToNative(ctx context.Context, token common.Address, amountIn *big.Int) (*big.Int, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastAmountIn = new(big.Int).Set(amountIn)
	return new(big.Int).Set(m.tokenToNativeOut), nil
}

type sellCall struct {
	token   common.Address
	percent int
}

type mockTrader struct {
	buyPos    *domain.OpenPosition
	buyErr    error
	buyCalls  int
	sold      bool
	sellErr   error
	sellCalls []sellCall
}

func (m *mockTrader) Buy(ctx context.Context, token common.Address) (*domain.OpenPosition, error) {
	m.buyCalls++
	return m.buyPos, m.buyErr
}

func (m *mockTrader) Sell(ctx context.Context, token common.Address, percent int, pos *domain.OpenPosition) (bool, error) {
	m.sellCalls = append(m.sellCalls, sellCall{token: token, percent: percent})
	if m.sellErr != nil {
		return false, m.sellErr
	}
	return m.sold, nil
}

type mockNotifier struct {
	events []domain.TradeEvent
	err    error
}

func (m *mockNotifier) Notify(ctx context.Context, event domain.TradeEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockTradeLog struct {
	events []domain.TradeEvent
	err    error
}

func (m *mockTradeLog) Append(ctx context.Context, event domain.TradeEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func (m *mockTradeLog) Close() error { return nil }

type mockVetter struct {
	verdict *domain.SecurityVerdict
	calls   int
	vetted  chan struct{}
}

func (m *mockVetter) Vet(ctx context.Context, token common.Address) *domain.SecurityVerdict {
	m.calls++
	if m.vetted != nil {
		m.vetted <- struct{}{}
	}
	return m.verdict
}

// staticFeed delivers a fixed set of candidates, then idles until the
// context ends.
type staticFeed struct {
	addrs []common.Address
}

func (f *staticFeed) Name() string { return "static" }

func (f *staticFeed) Run(ctx context.Context, candidates chan<- common.Address) error {
	for _, addr := range f.addrs {
		select {
		case candidates <- addr:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}
