package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// Client resolves a token's deployer through an etherscan-style account
// API: the "from" address of the contract's first transaction. It is
// deliberately tolerant: a missing API key degrades to "unknown" so the
// scan loop keeps running without explorer access.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

var _ domain.DeployerSource = (*Client)(nil)

func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Deployer looks up the first outbound transaction recorded for the token
// address. Found=false with a nil error means the explorer had no answer;
// a non-nil error means the lookup itself failed and the caller decides
// the fail-open policy.
func (c *Client) Deployer(ctx context.Context, token common.Address) (domain.DeployerLookup, error) {
	if c.apiKey == "" || c.baseURL == "" {
		c.log.Debug("explorer lookup skipped, no credentials configured")
		return domain.DeployerLookup{}, nil
	}

	query := url.Values{}
	query.Set("module", "account")
	query.Set("action", "txlist")
	query.Set("address", token.Hex())
	query.Set("page", "1")
	query.Set("offset", "1")
	query.Set("sort", "asc")
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return domain.DeployerLookup{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.DeployerLookup{}, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.DeployerLookup{}, fmt.Errorf("explorer returned status: %d", resp.StatusCode)
	}

	var result struct {
		Status string `json:"status"`
		Result []struct {
			From string `json:"from"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.DeployerLookup{}, fmt.Errorf("failed to decode explorer response: %w", err)
	}

	// Status "0" with an empty result list is "no transactions found",
	// which is an answer, not a failure.
	if len(result.Result) == 0 {
		return domain.DeployerLookup{}, nil
	}

	from := result.Result[0].From
	if !common.IsHexAddress(from) {
		return domain.DeployerLookup{}, fmt.Errorf("explorer returned malformed from address: %q", from)
	}

	return domain.DeployerLookup{
		Address: common.HexToAddress(from),
		Found:   true,
	}, nil
}
