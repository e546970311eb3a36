package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letbuildnow/solPaper/ledger"
)

func testSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Portfolios: map[int64]*ledger.Portfolio{
			12345: {
				Balance: 14.25,
				Positions: map[string]ledger.Position{
					"mintA": {Amount: 5000, AvgPrice: 0.001, Symbol: "AAA"},
				},
				History: []ledger.Trade{
					{
						ID:        "01HV0000000000000000000000",
						Kind:      ledger.TradeBuy,
						Token:     "mintA",
						Amount:    5000,
						ExecPrice: 0.001,
						ValueSOL:  5,
						Dex:       "raydium",
						Timestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
					},
					{
						ID:         "01HV0000000000000000000001",
						Kind:       ledger.TradeSell,
						Token:      "mintB",
						Amount:     10,
						ExecPrice:  0.2,
						ValueSOL:   2,
						RealizedPL: 0.5,
						Timestamp:  time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
					},
				},
			},
		},
		Watchlists: map[int64][]string{12345: {"mintA", "mintB"}},
		Settings:   map[int64]ledger.Settings{12345: {SlippagePct: 3.0}},
		Activity: map[int64]*ledger.Activity{
			12345: {
				Username:   "trader",
				JoinedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				LastActive: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
				Commands:   map[string]int{"buy": 3, "sell": 1},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	s := NewJSON(path)

	want := testSnapshot()
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUserIDsSerializedAsStringKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	s := NewJSON(path)
	require.NoError(t, s.Save(testSnapshot()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))

	var portfolios map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["portfolios"], &portfolios))
	assert.Contains(t, portfolios, "12345")
}

func TestLoadMissingFileIsEmptyState(t *testing.T) {
	t.Parallel()

	s := NewJSON(filepath.Join(t.TempDir(), "does-not-exist.json"))
	snap, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, snap.Portfolios)
	assert.Empty(t, snap.Portfolios)
	assert.NotNil(t, snap.Watchlists)
	assert.NotNil(t, snap.Settings)
	assert.NotNil(t, snap.Activity)
}

func TestLoadToleratesPartialDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "old.json")
	// An older snapshot that only knows about portfolios.
	require.NoError(t, os.WriteFile(path, []byte(`{"portfolios":{"7":{"balance":20}}}`), 0o644))

	snap, err := NewJSON(path).Load()
	require.NoError(t, err)
	require.Contains(t, snap.Portfolios, int64(7))
	assert.InDelta(t, 20.0, snap.Portfolios[7].Balance, 1e-12)
	assert.NotNil(t, snap.Portfolios[7].Positions)
	assert.NotNil(t, snap.Watchlists)
	assert.NotNil(t, snap.Settings)
	assert.NotNil(t, snap.Activity)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	s := NewJSON(path)

	first := testSnapshot()
	require.NoError(t, s.Save(first))

	second := testSnapshot()
	second.Portfolios[12345].Balance = 99.0
	require.NoError(t, s.Save(second))

	// No temp file left behind and the durable copy is the new one.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := s.Load()
	require.NoError(t, err)
	assert.InDelta(t, 99.0, got.Portfolios[12345].Balance, 1e-12)
}

func TestLoadCorruptFileIsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSON(path).Load()
	assert.Error(t, err)
}
