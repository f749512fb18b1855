package feed

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// pairCreatedTopic is the event signature of the factory's
// PairCreated(address indexed token0, address indexed token1, address pair, uint).
var pairCreatedTopic = crypto.Keccak256Hash([]byte("PairCreated(address,address,address,uint256)"))

const resubscribeDelay = 5 * time.Second

// PairWatcher subscribes to the factory's PairCreated events and emits the
// non-native side of every new pair as a candidate. It owns its own
// websocket connection: subscriptions need a streaming endpoint, which may
// differ from the transactional RPC endpoint.
type PairWatcher struct {
	endpoint string
	factory  common.Address
	wnative  common.Address
	log      *zap.Logger
}

var _ domain.CandidateFeed = (*PairWatcher)(nil)

func NewPairWatcher(endpoint string, factory, wnative common.Address, log *zap.Logger) *PairWatcher {
	return &PairWatcher{
		endpoint: endpoint,
		factory:  factory,
		wnative:  wnative,
		log:      log,
	}
}

func (w *PairWatcher) Name() string { return "pair-watcher" }

// Run dials, subscribes and forwards candidates until the context is
// cancelled. Connection or subscription loss triggers a redial after a
// short delay; the watcher never gives up on its own.
func (w *PairWatcher) Run(ctx context.Context, candidates chan<- common.Address) error {
	for {
		if err := w.watch(ctx, candidates); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Warn("pair subscription lost, redialing",
				zap.Error(err),
				zap.Duration("delay", resubscribeDelay))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(resubscribeDelay):
		}
	}
}

func (w *PairWatcher) watch(ctx context.Context, candidates chan<- common.Address) error {
	client, err := ethclient.DialContext(ctx, w.endpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	query := ethereum.FilterQuery{
		Addresses: []common.Address{w.factory},
		Topics:    [][]common.Hash{{pairCreatedTopic}},
	}

	logs := make(chan types.Log, 64)
	sub, err := client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	w.log.Info("watching factory for new pairs", zap.String("factory", w.factory.Hex()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case entry := <-logs:
			token, ok := w.candidateFromLog(entry)
			if !ok {
				continue
			}
			select {
			case candidates <- token:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// candidateFromLog picks the pair side that is not the wrapped native
// asset. Pairs without a native side cannot be priced and are skipped.
func (w *PairWatcher) candidateFromLog(entry types.Log) (common.Address, bool) {
	if len(entry.Topics) < 3 {
		return common.Address{}, false
	}
	token0 := common.BytesToAddress(entry.Topics[1].Bytes())
	token1 := common.BytesToAddress(entry.Topics[2].Bytes())

	switch {
	case token0 == w.wnative:
		return token1, true
	case token1 == w.wnative:
		return token0, true
	default:
		return common.Address{}, false
	}
}
