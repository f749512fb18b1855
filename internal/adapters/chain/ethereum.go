package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// Client handles all on-chain reads and writes against one RPC endpoint
// with one signing key. It carries no business logic; callers decide what
// to do with typed results and wrapped errors.
type Client struct {
	eth        *ethclient.Client
	chainID    *big.Int
	privateKey *ecdsa.PrivateKey
	wallet     common.Address

	router  common.Address
	factory common.Address
	wnative common.Address

	erc20ABI   abi.ABI
	factoryABI abi.ABI
	pairABI    abi.ABI
	routerABI  abi.ABI

	tokens domain.TokenCache
	log    *zap.Logger
}

var _ domain.ChainClient = (*Client)(nil)

// Params collects everything a Client needs at construction.
type Params struct {
	RPCEndpoint   string
	ChainID       string
	PrivateKey    string
	Router        common.Address
	Factory       common.Address
	WrappedNative common.Address
	Tokens        domain.TokenCache
	Log           *zap.Logger
}

// NewClient connects to the RPC endpoint and verifies it answers with the
// configured chain ID, so a bad endpoint aborts startup instead of failing
// on the first trade.
func NewClient(ctx context.Context, p Params) (*Client, error) {
	// Parse private key
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(p.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	// Derive address
	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}
	wallet := crypto.PubkeyToAddress(*publicKeyECDSA)

	// Parse chain ID
	chainID, ok := new(big.Int).SetString(p.ChainID, 10)
	if !ok {
		return nil, fmt.Errorf("invalid chain ID: %s", p.ChainID)
	}

	// Connect to RPC
	eth, err := ethclient.Dial(p.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	nodeChainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("RPC endpoint unreachable: %w", err)
	}
	if nodeChainID.Cmp(chainID) != 0 {
		eth.Close()
		return nil, fmt.Errorf("RPC chain ID %s does not match configured %s", nodeChainID, chainID)
	}

	c := &Client{
		eth:        eth,
		chainID:    chainID,
		privateKey: privateKey,
		wallet:     wallet,
		router:     p.Router,
		factory:    p.Factory,
		wnative:    p.WrappedNative,
		tokens:     p.Tokens,
		log:        p.Log,
	}

	if c.erc20ABI, err = abi.JSON(strings.NewReader(erc20ABIJSON)); err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	if c.factoryABI, err = abi.JSON(strings.NewReader(factoryABIJSON)); err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}
	if c.pairABI, err = abi.JSON(strings.NewReader(pairABIJSON)); err != nil {
		return nil, fmt.Errorf("failed to parse pair ABI: %w", err)
	}
	if c.routerABI, err = abi.JSON(strings.NewReader(routerABIJSON)); err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	return c, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}

// WalletAddress returns the signing account's address.
func (c *Client) WalletAddress() common.Address { return c.wallet }

// WrappedNative returns the wrapped native asset address.
func (c *Client) WrappedNative() common.Address { return c.wnative }

// RouterAddress returns the swap router address.
func (c *Client) RouterAddress() common.Address { return c.router }

// NativeBalance reads the wallet's native balance in wei.
func (c *Client) NativeBalance(ctx context.Context) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, c.wallet, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read native balance: %w", err)
	}
	return balance, nil
}

// TokenInfo reads token metadata, defaulting fields the contract does not
// expose: empty name/symbol and 18 decimals. Results are cached
// indefinitely since the record is immutable.
func (c *Client) TokenInfo(ctx context.Context, token common.Address) (*domain.TokenInfo, error) {
	if info, ok := c.tokens.Get(ctx, token); ok {
		return info, nil
	}

	info := &domain.TokenInfo{Address: token, Decimals: domain.DefaultDecimals}

	if out, err := c.call(ctx, token, c.erc20ABI, "name"); err == nil && len(out) == 1 {
		if name, ok := out[0].(string); ok {
			info.Name = name
		}
	}
	if out, err := c.call(ctx, token, c.erc20ABI, "symbol"); err == nil && len(out) == 1 {
		if symbol, ok := out[0].(string); ok {
			info.Symbol = symbol
		}
	}
	if out, err := c.call(ctx, token, c.erc20ABI, "decimals"); err == nil && len(out) == 1 {
		if decimals, ok := out[0].(uint8); ok {
			info.Decimals = decimals
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.tokens.Put(ctx, info)
	return info, nil
}

// TokenBalance reads owner's balance of token.
func (c *Client) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, c.erc20ABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return unpackBig(out, "balanceOf")
}

// Allowance reads the amount spender may transfer on owner's behalf.
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, c.erc20ABI, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return unpackBig(out, "allowance")
}

// TotalSupply reads the token's total supply.
func (c *Client) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, c.erc20ABI, "totalSupply")
	if err != nil {
		return nil, err
	}
	return unpackBig(out, "totalSupply")
}

// Pool resolves the token's pair against the wrapped native asset and
// reads its reserves, oriented so ReserveNative is always the wrapped
// native side.
func (c *Client) Pool(ctx context.Context, token common.Address) (*domain.LiquidityPool, error) {
	out, err := c.call(ctx, c.factory, c.factoryABI, "getPair", token, c.wnative)
	if err != nil {
		return nil, err
	}
	pair, err := unpackAddress(out, "getPair")
	if err != nil {
		return nil, err
	}
	if pair == (common.Address{}) {
		return nil, fmt.Errorf("%s/%s: %w", token.Hex(), c.wnative.Hex(), domain.ErrNoLiquidityPool)
	}

	out, err = c.call(ctx, pair, c.pairABI, "getReserves")
	if err != nil {
		return nil, err
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("failed to unpack getReserves result")
	}
	reserve0, ok0 := out[0].(*big.Int)
	reserve1, ok1 := out[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, fmt.Errorf("failed to unpack getReserves result")
	}

	out, err = c.call(ctx, pair, c.pairABI, "token0")
	if err != nil {
		return nil, err
	}
	token0, err := unpackAddress(out, "token0")
	if err != nil {
		return nil, err
	}

	pool := &domain.LiquidityPool{Pair: pair}
	if token0 == c.wnative {
		pool.ReserveNative, pool.ReserveToken = reserve0, reserve1
	} else {
		pool.ReserveNative, pool.ReserveToken = reserve1, reserve0
	}
	return pool, nil
}

// AmountsOut asks the router for the output of amountIn along path and
// returns the final hop.
func (c *Client) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	out, err := c.call(ctx, c.router, c.routerABI, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("failed to unpack getAmountsOut result")
	}
	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		return nil, fmt.Errorf("failed to unpack getAmountsOut result")
	}
	return amounts[len(amounts)-1], nil
}

// call packs a method, executes it as a read-only contract call and
// unpacks the outputs.
func (c *Client) call(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	out, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return out, nil
}

func unpackBig(out []interface{}, method string) (*big.Int, error) {
	if len(out) != 1 {
		return nil, fmt.Errorf("failed to unpack %s result", method)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to unpack %s result", method)
	}
	return value, nil
}

func unpackAddress(out []interface{}, method string) (common.Address, error) {
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("failed to unpack %s result", method)
	}
	value, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("failed to unpack %s result", method)
	}
	return value, nil
}
