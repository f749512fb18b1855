package feed

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

func TestParseCandidate(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"valid", `{"address":"0x00000000000000000000000000000000000000aa","symbol":"TKN"}`, "0x00000000000000000000000000000000000000AA", true},
		{"extra fields ignored", `{"address":"0x00000000000000000000000000000000000000aa","chain":"eth","x":1}`, "0x00000000000000000000000000000000000000AA", true},
		{"not an address", `{"address":"hello"}`, "", false},
		{"missing address", `{"symbol":"TKN"}`, "", false},
		{"not json", `pairs: []`, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := parseCandidate([]byte(tc.raw))
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && token != common.HexToAddress(tc.want) {
				t.Errorf("token = %s, want %s", token.Hex(), tc.want)
			}
		})
	}
}

func TestCandidateFromLog(t *testing.T) {
	wnative := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	tokenA := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenB := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	w := NewPairWatcher("", common.Address{}, wnative, zap.NewNop())

	asTopic := func(a common.Address) common.Hash {
		return common.BytesToHash(a.Bytes())
	}

	t.Run("native is token0", func(t *testing.T) {
		entry := types.Log{Topics: []common.Hash{pairCreatedTopic, asTopic(wnative), asTopic(tokenA)}}
		got, ok := w.candidateFromLog(entry)
		if !ok || got != tokenA {
			t.Errorf("got %s ok=%v, want %s", got.Hex(), ok, tokenA.Hex())
		}
	})

	t.Run("native is token1", func(t *testing.T) {
		entry := types.Log{Topics: []common.Hash{pairCreatedTopic, asTopic(tokenB), asTopic(wnative)}}
		got, ok := w.candidateFromLog(entry)
		if !ok || got != tokenB {
			t.Errorf("got %s ok=%v, want %s", got.Hex(), ok, tokenB.Hex())
		}
	})

	t.Run("no native side", func(t *testing.T) {
		entry := types.Log{Topics: []common.Hash{pairCreatedTopic, asTopic(tokenA), asTopic(tokenB)}}
		if _, ok := w.candidateFromLog(entry); ok {
			t.Error("pair without a native side must be skipped")
		}
	})

	t.Run("short topics", func(t *testing.T) {
		entry := types.Log{Topics: []common.Hash{pairCreatedTopic}}
		if _, ok := w.candidateFromLog(entry); ok {
			t.Error("malformed log must be skipped")
		}
	})
}
