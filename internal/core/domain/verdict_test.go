package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

func TestSecurityVerdict_Approved(t *testing.T) {
	liq := decimal.NewFromInt(12)

	cases := []struct {
		name    string
		verdict domain.SecurityVerdict
		want    bool
	}{
		{"all checks pass", domain.SecurityVerdict{Liquidity: &liq}, true},
		{"no liquidity", domain.SecurityVerdict{}, false},
		{"whale detected", domain.SecurityVerdict{Liquidity: &liq, WhaleDetected: true}, false},
		{"honeypot", domain.SecurityVerdict{Liquidity: &liq, Honeypot: true}, false},
		{"everything failed", domain.SecurityVerdict{WhaleDetected: true, Honeypot: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.verdict.Approved(); got != tc.want {
				t.Errorf("Approved() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTxOutcome_String(t *testing.T) {
	if domain.TxConfirmed.String() != "confirmed" {
		t.Errorf("TxConfirmed.String() = %s", domain.TxConfirmed)
	}
	if domain.TxReverted.String() != "reverted" {
		t.Errorf("TxReverted.String() = %s", domain.TxReverted)
	}
	if domain.TxUnknown.String() != "unknown" {
		t.Errorf("TxUnknown.String() = %s", domain.TxUnknown)
	}
}
