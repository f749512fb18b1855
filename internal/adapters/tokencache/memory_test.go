package tokencache_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scarramanga/StackMotive-Final-sub001/internal/adapters/tokencache"
	"github.com/scarramanga/StackMotive-Final-sub001/internal/core/domain"
)

func TestMemory_GetPut(t *testing.T) {
	cache := tokencache.NewMemory()
	ctx := context.Background()
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	if _, ok := cache.Get(ctx, addr); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Put(ctx, &domain.TokenInfo{Address: addr, Symbol: "TKN", Decimals: 9})

	info, ok := cache.Get(ctx, addr)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if info.Symbol != "TKN" || info.Decimals != 9 {
		t.Errorf("cached info = %+v", info)
	}
}

func TestMemory_NilPutIgnored(t *testing.T) {
	cache := tokencache.NewMemory()
	cache.Put(context.Background(), nil)

	if _, ok := cache.Get(context.Background(), common.Address{}); ok {
		t.Fatal("nil Put must not create an entry")
	}
}
