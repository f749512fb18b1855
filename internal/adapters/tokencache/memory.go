package tokencache

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

// Memory is the default token metadata cache. Token records are immutable,
// so entries are never evicted or refreshed.
type Memory struct {
	mu     sync.RWMutex
	tokens map[common.Address]*domain.TokenInfo
}

var _ domain.TokenCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		tokens: make(map[common.Address]*domain.TokenInfo),
	}
}

func (m *Memory) Get(_ context.Context, address common.Address) (*domain.TokenInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.tokens[address]
	return info, ok
}

func (m *Memory) Put(_ context.Context, info *domain.TokenInfo) {
	if info == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[info.Address] = info
}
