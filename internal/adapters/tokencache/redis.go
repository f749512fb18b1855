package tokencache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

const keyPrefix = "token:"

// Redis shares token metadata across processes. A cache miss is the only
// way it influences behavior, so every Redis failure degrades to a miss
// and the caller falls back to the RPC read.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

var _ domain.TokenCache = (*Redis)(nil)

// NewRedis pings the server once so a bad address surfaces at startup.
func NewRedis(ctx context.Context, addr string, log *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client, log: log}, nil
}

func (r *Redis) Get(ctx context.Context, address common.Address) (*domain.TokenInfo, bool) {
	raw, err := r.client.Get(ctx, keyPrefix+address.Hex()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("token cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var info domain.TokenInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		r.log.Warn("token cache entry corrupt", zap.String("address", address.Hex()), zap.Error(err))
		return nil, false
	}
	return &info, true
}

func (r *Redis) Put(ctx context.Context, info *domain.TokenInfo) {
	if info == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		r.log.Warn("token cache encode failed", zap.Error(err))
		return
	}
	// No TTL: token identity records never change.
	if err := r.client.Set(ctx, keyPrefix+info.Address.Hex(), raw, 0).Err(); err != nil {
		r.log.Warn("token cache write failed", zap.Error(err))
	}
}

// Close releases the client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
