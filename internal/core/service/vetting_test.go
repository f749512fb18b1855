package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

func nativeUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func healthyChain() *mockChain {
	chain := newMockChain()
	chain.pool = &domain.LiquidityPool{
		Pair:          common.HexToAddress("0x5000000000000000000000000000000000000005"),
		ReserveNative: nativeUnits(50),
		ReserveToken:  big.NewInt(1_000_000),
	}
	chain.totalSupply = big.NewInt(1000)
	return chain
}

func newVetter(chain *mockChain, deployers *mockDeployers) *VettingService {
	return NewVettingService(chain, deployers, zap.NewNop())
}

func TestVet_CleanTokenApproved(t *testing.T) {
	svc := newVetter(healthyChain(), &mockDeployers{})

	verdict := svc.Vet(context.Background(), testToken)
	if !verdict.Approved() {
		t.Fatalf("verdict = %+v, want approved", verdict)
	}
	if verdict.Liquidity == nil || !verdict.Liquidity.Equal(decimal.NewFromInt(50)) {
		t.Errorf("liquidity = %v, want 50", verdict.Liquidity)
	}
}

func TestVet_LiquidityBoundary(t *testing.T) {
	cases := []struct {
		name    string
		reserve *big.Int
		pass    bool
	}{
		{"exactly at floor", nativeUnits(10), true},
		{"one wei under floor", new(big.Int).Sub(nativeUnits(10), big.NewInt(1)), false},
		{"well above floor", nativeUnits(11), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := healthyChain()
			chain.pool.ReserveNative = tc.reserve

			verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
			if got := verdict.Liquidity != nil; got != tc.pass {
				t.Errorf("liquidity pass = %v, want %v", got, tc.pass)
			}
		})
	}
}

func TestVet_NoPoolFailsLiquidity(t *testing.T) {
	chain := healthyChain()
	chain.pool = nil

	verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
	if verdict.Liquidity != nil {
		t.Errorf("liquidity = %v, want nil", verdict.Liquidity)
	}
	if verdict.Approved() {
		t.Error("verdict approved despite missing pool")
	}
}

func TestVet_DeployerConcentration(t *testing.T) {
	deployer := common.HexToAddress("0x6000000000000000000000000000000000000006")

	cases := []struct {
		name    string
		balance int64
		whale   bool
	}{
		{"exactly 20 percent passes", 200, false},
		{"just over 20 percent rejects", 201, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := healthyChain()
			chain.balances[deployer] = big.NewInt(tc.balance)
			deployers := &mockDeployers{lookup: domain.DeployerLookup{Address: deployer, Found: true}}

			verdict := newVetter(chain, deployers).Vet(context.Background(), testToken)
			if verdict.WhaleDetected != tc.whale {
				t.Errorf("whale = %v, want %v", verdict.WhaleDetected, tc.whale)
			}
			if verdict.Deployer == nil || *verdict.Deployer != deployer {
				t.Errorf("deployer = %v, want %s", verdict.Deployer, deployer.Hex())
			}
		})
	}
}

func TestVet_ContractSelfHoldingRejects(t *testing.T) {
	chain := healthyChain()
	chain.balances[testToken] = big.NewInt(500)

	verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
	if !verdict.WhaleDetected {
		t.Error("whale = false, want true for contract-held supply")
	}
}

func TestVet_UnreadableSupplyIsWhaleRisk(t *testing.T) {
	chain := healthyChain()
	chain.totalSupplyErr = errors.New("connection reset")

	verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
	if !verdict.WhaleDetected {
		t.Error("whale = false, want true when supply is unreadable")
	}

	chain = healthyChain()
	chain.totalSupply = big.NewInt(0)
	verdict = newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
	if !verdict.WhaleDetected {
		t.Error("whale = false, want true for zero supply")
	}
}

func TestVet_DeployerLookupFailureAssumesSafe(t *testing.T) {
	deployers := &mockDeployers{err: errors.New("explorer 502")}

	verdict := newVetter(healthyChain(), deployers).Vet(context.Background(), testToken)
	if verdict.WhaleDetected {
		t.Error("whale = true, want false when the lookup degrades")
	}
	if verdict.Deployer != nil {
		t.Errorf("deployer = %v, want nil", verdict.Deployer)
	}
	if !verdict.Approved() {
		t.Error("verdict rejected despite fail-open lookup")
	}
}

func TestVet_HoneypotSignals(t *testing.T) {
	reverted := func(reason string) *mockChain {
		chain := healthyChain()
		chain.revertReason = reason
		chain.simulateErr = fmt.Errorf("failed to simulate approve: %w", domain.ErrCallReverted)
		return chain
	}

	t.Run("clean simulation passes", func(t *testing.T) {
		verdict := newVetter(healthyChain(), &mockDeployers{}).Vet(context.Background(), testToken)
		if verdict.Honeypot {
			t.Error("honeypot = true, want false")
		}
	})

	t.Run("revert with blocking language rejects", func(t *testing.T) {
		chain := reverted("execution reverted: address blacklisted")
		verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
		if !verdict.Honeypot {
			t.Error("honeypot = false, want true")
		}
	})

	t.Run("revert without blocking language passes", func(t *testing.T) {
		chain := reverted("execution reverted: paused")
		verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
		if verdict.Honeypot {
			t.Error("honeypot = true, want false for a benign revert")
		}
	})

	t.Run("transport failure fails closed", func(t *testing.T) {
		chain := healthyChain()
		chain.simulateErr = errors.New("dial tcp: i/o timeout")
		verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
		if !verdict.Honeypot {
			t.Error("honeypot = false, want true on an unexpected probe error")
		}
	})

	t.Run("deny-listed name rejects", func(t *testing.T) {
		chain := healthyChain()
		chain.tokenInfo = &domain.TokenInfo{Address: testToken, Name: "SuperScamToken", Symbol: "SST", Decimals: 18}
		verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
		if !verdict.Honeypot {
			t.Error("honeypot = false, want true for deny-listed name")
		}
	})

	t.Run("unreadable metadata fails closed", func(t *testing.T) {
		chain := healthyChain()
		chain.tokenInfoErr = errors.New("connection refused")
		verdict := newVetter(chain, &mockDeployers{}).Vet(context.Background(), testToken)
		if !verdict.Honeypot {
			t.Error("honeypot = false, want true when metadata is unreadable")
		}
	})
}

func TestVet_AllChecksRunDespiteEarlyFailure(t *testing.T) {
	chain := healthyChain()
	chain.pool = nil
	chain.balances[testToken] = big.NewInt(500)
	deployers := &mockDeployers{}

	verdict := newVetter(chain, deployers).Vet(context.Background(), testToken)
	if verdict.Liquidity != nil {
		t.Error("liquidity should have failed")
	}
	if !verdict.WhaleDetected {
		t.Error("whale check should still have run and rejected")
	}
	if deployers.calls != 1 {
		t.Errorf("deployer lookups = %d, want 1", deployers.calls)
	}
}
