package service

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const (
	// minLiquidityNative is the pool floor in whole native units. Pools at
	// exactly the floor pass.
	minLiquidityNative = 10

	// maxHolderPercent is the concentration limit for the deployer and for
	// the token contract itself. Holding exactly the limit passes; the
	// rejection is strict-greater.
	maxHolderPercent = 20
)

// nameDenyTerms reject a token on a name/symbol substring match alone.
var nameDenyTerms = []string{"scam", "rug", "honeypot"}

// revertBlockTerms mark an approve-simulation revert as a sell blocker.
var revertBlockTerms = []string{"blacklist", "blocked", "banned", "bot", "not allowed"}

// probeSpender is a throwaway address for the approve simulation. It only
// needs to be a plausible account nobody controls.
var probeSpender = common.BytesToAddress(crypto.Keccak256([]byte("stackmotive/vetting-probe"))[12:])

// VettingService runs the four-check security pipeline. All checks always
// run so the verdict is fully informative; any sub-check failure is folded
// into the verdict rather than raised, keeping the scan loop alive through
// flaky lookups. Honeypot is the single fail-closed check.
type VettingService struct {
	chain     domain.ChainClient
	deployers domain.DeployerSource
	log       *zap.Logger
}

var _ domain.Vetter = (*VettingService)(nil)

func NewVettingService(chain domain.ChainClient, deployers domain.DeployerSource, log *zap.Logger) *VettingService {
	return &VettingService{
		chain:     chain,
		deployers: deployers,
		log:       log,
	}
}

// Vet gates one candidate token.
func (s *VettingService) Vet(ctx context.Context, token common.Address) *domain.SecurityVerdict {
	info, err := s.chain.TokenInfo(ctx, token)
	if err != nil {
		s.log.Warn("token metadata unreadable", zap.String("token", token.Hex()), zap.Error(err))
	}

	verdict := &domain.SecurityVerdict{}
	verdict.Liquidity = s.checkLiquidity(ctx, token)
	verdict.WhaleDetected, verdict.Deployer = s.checkWhale(ctx, token)
	verdict.Honeypot = s.checkHoneypot(ctx, token, info)

	s.log.Info("vetting verdict",
		zap.String("token", token.Hex()),
		zap.Bool("approved", verdict.Approved()),
		zap.Bool("whale", verdict.WhaleDetected),
		zap.Bool("honeypot", verdict.Honeypot),
		zap.Bool("liquid", verdict.Liquidity != nil))

	return verdict
}

// checkLiquidity resolves the token's pool against the wrapped native
// asset and applies the reserve floor. Returns the reserve in whole native
// units on success, nil on any failure.
func (s *VettingService) checkLiquidity(ctx context.Context, token common.Address) *decimal.Decimal {
	pool, err := s.chain.Pool(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNoLiquidityPool) {
			s.log.Info("no liquidity pool", zap.String("token", token.Hex()))
		} else {
			s.log.Warn("liquidity check failed", zap.String("token", token.Hex()), zap.Error(err))
		}
		return nil
	}

	// Wrapped native assets carry 18 decimals.
	liquidity := decimal.NewFromBigInt(pool.ReserveNative, -18)
	if liquidity.LessThan(decimal.NewFromInt(minLiquidityNative)) {
		s.log.Info("liquidity below floor",
			zap.String("token", token.Hex()),
			zap.String("reserve", liquidity.String()))
		return nil
	}
	return &liquidity
}

// checkWhale flags concentration risk: the deployer or the token contract
// itself holding more than maxHolderPercent of supply. Unreadable or zero
// supply is ambiguous and treated as whale risk. Deployer resolution and
// balance reads degrade to "assume safe" on error, logged, so one flaky
// explorer call does not stall the scan loop.
func (s *VettingService) checkWhale(ctx context.Context, token common.Address) (bool, *common.Address) {
	supply, err := s.chain.TotalSupply(ctx, token)
	if err != nil || supply.Sign() == 0 {
		s.log.Warn("total supply unreadable, treating as whale risk",
			zap.String("token", token.Hex()), zap.Error(err))
		return true, nil
	}

	var deployer *common.Address
	lookup, err := s.deployers.Deployer(ctx, token)
	switch {
	case err != nil:
		s.log.Warn("deployer lookup failed, assuming safe",
			zap.String("token", token.Hex()), zap.Error(err))
	case lookup.Found:
		addr := lookup.Address
		deployer = &addr

		balance, err := s.chain.TokenBalance(ctx, token, addr)
		if err != nil {
			s.log.Warn("deployer balance unreadable, assuming safe",
				zap.String("token", token.Hex()), zap.Error(err))
		} else if holderLimitExceeded(balance, supply) {
			s.log.Info("deployer holds whale share",
				zap.String("token", token.Hex()),
				zap.String("deployer", addr.Hex()))
			return true, deployer
		}
	}

	held, err := s.chain.TokenBalance(ctx, token, token)
	if err != nil {
		s.log.Warn("contract self-balance unreadable, assuming safe",
			zap.String("token", token.Hex()), zap.Error(err))
	} else if holderLimitExceeded(held, supply) {
		s.log.Info("token contract holds whale share", zap.String("token", token.Hex()))
		return true, deployer
	}

	return false, deployer
}

// checkHoneypot probes sell-ability two ways: a name/symbol deny-list and
// a read-only approve simulation whose revert text is sniffed for
// blocking language. Unlike every other check this one fails closed: an
// unexpected error during the probe marks the token a honeypot, since a
// false negative here risks the whole buy.
func (s *VettingService) checkHoneypot(ctx context.Context, token common.Address, info *domain.TokenInfo) bool {
	if info == nil {
		return true
	}

	if term, ok := matchesDenyList(info); ok {
		s.log.Info("token name matches deny-list",
			zap.String("token", token.Hex()),
			zap.String("term", term))
		return true
	}

	reason, err := s.chain.SimulateApprove(ctx, token, probeSpender)
	if err == nil {
		return false
	}

	if errors.Is(err, domain.ErrCallReverted) {
		if term, ok := containsBlockTerm(reason); ok {
			s.log.Info("approve simulation reverted with blocking language",
				zap.String("token", token.Hex()),
				zap.String("term", term))
			return true
		}
		// A revert without blocking language is odd but inconclusive;
		// the heuristic stays best-effort.
		s.log.Warn("approve simulation reverted",
			zap.String("token", token.Hex()),
			zap.String("reason", reason))
		return false
	}

	s.log.Warn("approve simulation errored, treating as honeypot",
		zap.String("token", token.Hex()), zap.Error(err))
	return true
}

// holderLimitExceeded reports whether balance exceeds maxHolderPercent of
// supply, using cross-multiplication to stay exact: a holder at precisely
// the limit passes.
func holderLimitExceeded(balance, supply *big.Int) bool {
	scaled := new(big.Int).Mul(balance, big.NewInt(100))
	limit := new(big.Int).Mul(supply, big.NewInt(maxHolderPercent))
	return scaled.Cmp(limit) > 0
}

func matchesDenyList(info *domain.TokenInfo) (string, bool) {
	name := strings.ToLower(info.Name)
	symbol := strings.ToLower(info.Symbol)
	for _, term := range nameDenyTerms {
		if strings.Contains(name, term) || strings.Contains(symbol, term) {
			return term, true
		}
	}
	return "", false
}

func containsBlockTerm(reason string) (string, bool) {
	lower := strings.ToLower(reason)
	for _, term := range revertBlockTerms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}
