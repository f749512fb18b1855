package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/notify"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

func TestNotify_SellWithPnL(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	pnl := decimal.NewFromFloat(60.0)
	event := domain.TradeEvent{
		Kind:              domain.TradeSell,
		Token:             common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		TokenSymbol:       "TKN",
		AmountNative:      big.NewInt(1600000000000000000),
		ProfitLossPercent: &pnl,
		Time:              time.Now(),
	}

	n := notify.NewTelegramWithBase(server.URL, "bot-token", "chat-1", zap.NewNop())
	if err := n.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody["chat_id"] != "chat-1" {
		t.Errorf("chat_id = %s", gotBody["chat_id"])
	}
	text := gotBody["text"]
	for _, want := range []string{"SELL", "TKN", "1.6", "60.00%"} {
		if !strings.Contains(text, want) {
			t.Errorf("message %q missing %q", text, want)
		}
	}
}

func TestNotify_Unconfigured(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	n := notify.NewTelegramWithBase(server.URL, "", "", zap.NewNop())
	err := n.Notify(context.Background(), domain.TradeEvent{
		Kind:         domain.TradeBuy,
		AmountNative: big.NewInt(1),
	})
	if err != nil {
		t.Fatalf("unconfigured notifier must be a no-op, got: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected zero HTTP calls, got %d", calls)
	}
}

func TestNotify_DeliveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := notify.NewTelegramWithBase(server.URL, "bot-token", "chat-1", zap.NewNop())
	err := n.Notify(context.Background(), domain.TradeEvent{
		Kind:         domain.TradeBuy,
		AmountNative: big.NewInt(1),
	})
	if err == nil {
		t.Fatal("expected error so the caller can log the failed delivery")
	}
}
