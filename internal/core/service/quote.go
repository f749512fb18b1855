package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// QuoteService prices amounts along a trading path via the router. It is
// stateless and uncached: pre-trade sizing, pre-sell sizing and position
// re-valuation all want the current block, not a stale number.
type QuoteService struct {
	chain domain.ChainClient
}

var _ domain.Quoter = (*QuoteService)(nil)

func NewQuoteService(chain domain.ChainClient) *QuoteService {
	return &QuoteService{chain: chain}
}

// Quote returns the expected output of amountIn along path. A router
// revert (no liquidity, extreme reserves) comes back wrapped in
// ErrQuoteFailed; callers treat it as "cannot price this cycle", never as
// a zero price.
func (s *QuoteService) Quote(ctx context.Context, path []common.Address, amountIn *big.Int) (*big.Int, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: path needs at least two hops", domain.ErrQuoteFailed)
	}
	out, err := s.chain.AmountsOut(ctx, amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteFailed, err)
	}
	return out, nil
}

// NativeToToken prices a buy: wrapped native in, token out.
func (s *QuoteService) NativeToToken(ctx context.Context, token common.Address, amountIn *big.Int) (*big.Int, error) {
	return s.Quote(ctx, []common.Address{s.chain.WrappedNative(), token}, amountIn)
}

// TokenToNative prices a sell or a position re-valuation.
func (s *QuoteService) TokenToNative(ctx context.Context, token common.Address, amountIn *big.Int) (*big.Int, error) {
	return s.Quote(ctx, []common.Address{token, s.chain.WrappedNative()}, amountIn)
}
