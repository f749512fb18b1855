package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram delivers trade events as bot messages. Delivery is best-effort:
// the agent logs failures and keeps trading, so Notify errors are
// informational only. An unconfigured notifier silently swallows events.
type Telegram struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
	log     *zap.Logger
}

var _ domain.Notifier = (*Telegram)(nil)

func NewTelegram(token, chatID string, log *zap.Logger) *Telegram {
	return &Telegram{
		apiBase: defaultAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// NewTelegramWithBase is used by tests to point the notifier at a fake API.
func NewTelegramWithBase(apiBase, token, chatID string, log *zap.Logger) *Telegram {
	t := NewTelegram(token, chatID, log)
	t.apiBase = apiBase
	return t
}

// Notify formats and posts one trade event.
func (t *Telegram) Notify(ctx context.Context, event domain.TradeEvent) error {
	if t.token == "" || t.chatID == "" {
		return nil
	}

	payload := map[string]string{
		"chat_id": t.chatID,
		"text":    formatEvent(event),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status: %d", resp.StatusCode)
	}
	return nil
}

func formatEvent(event domain.TradeEvent) string {
	native := decimal.NewFromBigInt(event.AmountNative, -18)
	switch event.Kind {
	case domain.TradeSell:
		msg := fmt.Sprintf("SELL %s (%s)\nproceeds: %s native", event.TokenSymbol, event.Token.Hex(), native.String())
		if event.ProfitLossPercent != nil {
			msg += fmt.Sprintf("\nPnL: %s%%", event.ProfitLossPercent.StringFixed(2))
		}
		return msg
	default:
		return fmt.Sprintf("BUY %s (%s)\nspent: %s native", event.TokenSymbol, event.Token.Hex(), native.String())
	}
}
