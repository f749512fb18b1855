package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const (
	baseReconnectDelay = time.Second
	maxReconnectDelay  = 30 * time.Second
)

// candidateMessage is the wire shape of one external feed entry. Extra
// fields are ignored.
type candidateMessage struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol,omitempty"`
}

// WSFeed consumes an external websocket stream of candidate tokens. The
// connection is re-established with exponential backoff and the backoff
// resets after a successful read, so a flapping feed recovers quickly.
type WSFeed struct {
	url string
	log *zap.Logger
}

var _ domain.CandidateFeed = (*WSFeed)(nil)

func NewWSFeed(url string, log *zap.Logger) *WSFeed {
	return &WSFeed{url: url, log: log}
}

func (f *WSFeed) Name() string { return "ws-feed" }

// Run reads candidates until the context is cancelled.
func (f *WSFeed) Run(ctx context.Context, candidates chan<- common.Address) error {
	delay := baseReconnectDelay

	for {
		gotMessage, err := f.consume(ctx, candidates)
		if ctx.Err() != nil {
			return nil
		}
		if gotMessage {
			delay = baseReconnectDelay
		}
		if err != nil {
			f.log.Warn("candidate feed disconnected",
				zap.Error(err),
				zap.Duration("retry_in", delay))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// consume holds one connection open and forwards parsed candidates. It
// reports whether at least one message arrived so the caller can reset its
// backoff.
func (f *WSFeed) consume(ctx context.Context, candidates chan<- common.Address) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return false, err
	}

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	f.log.Info("candidate feed connected", zap.String("url", f.url))

	gotMessage := false
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return gotMessage, err
		}
		gotMessage = true

		token, ok := parseCandidate(raw)
		if !ok {
			f.log.Debug("skipping malformed feed message", zap.ByteString("raw", raw))
			continue
		}

		select {
		case candidates <- token:
		case <-ctx.Done():
			return gotMessage, nil
		}
	}
}

// parseCandidate extracts a token address from one feed message.
func parseCandidate(raw []byte) (common.Address, bool) {
	var msg candidateMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return common.Address{}, false
	}
	if !common.IsHexAddress(msg.Address) {
		return common.Address{}, false
	}
	return common.HexToAddress(msg.Address), true
}
