package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultDecimals is assumed when a token contract does not expose a
// readable decimals() value.
const DefaultDecimals uint8 = 18

// TokenInfo is the identity record for an ERC-20 token. It is immutable
// after creation and safe to cache indefinitely keyed by Address.
type TokenInfo struct {
	Address  common.Address `json:"address"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

// DisplaySymbol returns the symbol, falling back to a shortened address
// for tokens whose metadata could not be read.
func (t *TokenInfo) DisplaySymbol() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	hex := t.Address.Hex()
	return hex[:10]
}

// LiquidityPool is a point-in-time view of a pair contract's reserves.
// Reserves change every block, so this is always a fresh read, never stored.
type LiquidityPool struct {
	Pair          common.Address
	ReserveNative *big.Int
	ReserveToken  *big.Int
}
