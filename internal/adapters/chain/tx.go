package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const (
	receiptPollInterval = 2 * time.Second
	receiptTimeout      = 120 * time.Second
)

// Approve submits an ERC20 approval for spender and returns the tx hash.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	data, err := c.erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack approve call: %w", err)
	}
	return c.submit(ctx, token, nil, data)
}

// SwapNativeForToken swaps amountIn wei of the native asset for at least
// minOut of token along the wrapped-native path.
func (c *Client) SwapNativeForToken(ctx context.Context, token common.Address, amountIn, minOut *big.Int, deadline time.Time) (common.Hash, error) {
	path := []common.Address{c.wnative, token}
	data, err := c.routerABI.Pack("swapExactETHForTokens", minOut, path, c.wallet, big.NewInt(deadline.Unix()))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack swapExactETHForTokens call: %w", err)
	}
	return c.submit(ctx, c.router, amountIn, data)
}

// SwapTokenForNative swaps amountIn of token back to the native asset.
func (c *Client) SwapTokenForNative(ctx context.Context, token common.Address, amountIn, minOut *big.Int, deadline time.Time) (common.Hash, error) {
	path := []common.Address{token, c.wnative}
	data, err := c.routerABI.Pack("swapExactTokensForETH", amountIn, minOut, path, c.wallet, big.NewInt(deadline.Unix()))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack swapExactTokensForETH call: %w", err)
	}
	return c.submit(ctx, c.router, nil, data)
}

// SimulateApprove runs approve(spender, 1) as a read-only call from the
// wallet. A reverting token surfaces its revert text wrapped around
// ErrCallReverted; anything else is a transport failure.
func (c *Client) SimulateApprove(ctx context.Context, token, spender common.Address) (string, error) {
	data, err := c.erc20ABI.Pack("approve", spender, big.NewInt(1))
	if err != nil {
		return "", fmt.Errorf("failed to pack approve call: %w", err)
	}

	_, err = c.eth.CallContract(ctx, ethereum.CallMsg{
		From: c.wallet,
		To:   &token,
		Data: data,
	}, nil)
	if err == nil {
		return "", nil
	}

	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "revert") {
		return msg, fmt.Errorf("approve simulation: %w", domain.ErrCallReverted)
	}
	return "", fmt.Errorf("approve simulation failed: %w", err)
}

// WaitForReceipt polls for the transaction receipt every 2 seconds for up
// to 120 seconds and maps the result to the three-valued outcome. No
// receipt inside the window is TxUnknown with a nil error; the error is
// reserved for parent-context cancellation.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (domain.TxOutcome, error) {
	waitCtx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return domain.TxUnknown, err
			}
			c.log.Warn("no receipt within confirmation window",
				zap.String("tx", txHash.Hex()),
				zap.Duration("window", receiptTimeout))
			return domain.TxUnknown, nil
		case <-ticker.C:
			receipt, err := c.eth.TransactionReceipt(waitCtx, txHash)
			if err != nil {
				// Continue polling if receipt not found yet
				continue
			}
			if receipt.Status == types.ReceiptStatusSuccessful {
				return domain.TxConfirmed, nil
			}
			return domain.TxReverted, nil
		}
	}
}

// submit builds, signs and sends a legacy transaction. Gas is estimated
// first, which also rejects calls that would revert, then padded by 20%.
func (c *Client) submit(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	// Get nonce
	nonce, err := c.eth.PendingNonceAt(ctx, c.wallet)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	// Get gas price
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	// Estimate gas (also validates the tx won't revert)
	estimatedGas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.wallet,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("transaction would revert: %w", err)
	}
	gasLimit := estimatedGas * 120 / 100 // 20% safety margin

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	signer := types.NewEIP155Signer(c.chainID)
	signedTx, err := types.SignTx(tx, signer, c.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.log.Debug("transaction submitted",
		zap.String("tx", signedTx.Hash().Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas_limit", gasLimit))

	return signedTx.Hash(), nil
}
