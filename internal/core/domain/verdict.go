package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// SecurityVerdict is the aggregated result of the vetting pipeline for one
// token. It is consumed immediately by the caller and never persisted.
// All four sub-checks run to completion so the verdict is fully informative
// even when the first check already failed.
type SecurityVerdict struct {
	// Liquidity is the pool's native-asset reserve in whole units, or nil
	// when no pool exists or the reserve is below the floor.
	Liquidity *decimal.Decimal `json:"liquidity_native"`

	// WhaleDetected is set when the deployer or the token contract itself
	// holds a concentration above the holder limit, or when total supply
	// could not be read.
	WhaleDetected bool `json:"whale_detected"`

	// Honeypot is set when the sell-ability probe failed. This is the only
	// fail-closed check: unexpected errors during the probe set it too.
	Honeypot bool `json:"honeypot"`

	// Deployer is the resolved deployer address, nil when unknown.
	Deployer *common.Address `json:"deployer,omitempty"`
}

// Approved reports whether the token may be traded: sufficient liquidity,
// no whale concentration, not a honeypot.
func (v *SecurityVerdict) Approved() bool {
	return v.Liquidity != nil && !v.WhaleDetected && !v.Honeypot
}
