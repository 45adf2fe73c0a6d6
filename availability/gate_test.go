package availability

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
	badgerstore "github.com/poiesic/profilematch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGate(t *testing.T) (*Gate, storage.AvailabilityStore, *badgerstore.Backend) {
	t.Helper()
	_, store, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})

	gate, err := NewGate(store)
	require.NoError(t, err)
	return gate, store, backend
}

func seedAvailability(t *testing.T, store storage.AvailabilityStore) {
	t.Helper()
	records := []*core.AvailabilityRecord{
		{Key: 1, Status: core.StatusFree},
		{Key: 2, Status: core.StatusPartial, AllocationPct: 50},
		{Key: 3, Status: core.StatusBusy, AllocationPct: 100},
		{Key: 4, Status: core.StatusUnavailable, AllocationPct: 100},
	}
	require.NoError(t, store.PutAvailabilityMany(context.Background(), records, time.Hour))
}

func TestGateFilter_Modes(t *testing.T) {
	gate, store, _ := setupGate(t)
	seedAvailability(t, store)
	keys := []core.ReconciliationKey{1, 2, 3, 4}

	tests := []struct {
		mode     Mode
		eligible []core.ReconciliationKey
	}{
		{ModeOnlyFree, []core.ReconciliationKey{1}},
		{ModeFreeOrPartial, []core.ReconciliationKey{1, 2}},
		{ModeAny, []core.ReconciliationKey{1, 2, 3, 4}},
		{ModeUnavailable, []core.ReconciliationKey{4}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			result, err := gate.Filter(context.Background(), keys, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, result.Eligible)
			assert.False(t, result.Degraded)
		})
	}
}

func TestGateFilter_MissingRecordsExcluded(t *testing.T) {
	gate, store, _ := setupGate(t)
	seedAvailability(t, store)

	// Key 99 has no record. Absence of data is not availability.
	result, err := gate.Filter(context.Background(), []core.ReconciliationKey{1, 99}, ModeOnlyFree)
	require.NoError(t, err)
	assert.Equal(t, []core.ReconciliationKey{1}, result.Eligible)
	assert.Equal(t, []core.ReconciliationKey{99}, result.Missing)
}

func TestGateFilter_DegradesWhenStoreUnreachable(t *testing.T) {
	gate, _, backend := setupGate(t)
	require.NoError(t, backend.Close())

	keys := []core.ReconciliationKey{1, 2, 3}
	result, err := gate.Filter(context.Background(), keys, ModeOnlyFree)
	require.NoError(t, err, "an unreachable store must not fail the search")
	assert.True(t, result.Degraded)
	assert.Equal(t, keys, result.Eligible)
}

func TestGateFilter_ModeAnySkipsStore(t *testing.T) {
	gate, _, backend := setupGate(t)
	require.NoError(t, backend.Close())

	result, err := gate.Filter(context.Background(), []core.ReconciliationKey{7}, ModeAny)
	require.NoError(t, err)
	assert.False(t, result.Degraded, "mode any never consults the store")
	assert.Equal(t, []core.ReconciliationKey{7}, result.Eligible)
}

func TestGateFilter_InvalidMode(t *testing.T) {
	gate, _, _ := setupGate(t)

	_, err := gate.Filter(context.Background(), nil, Mode(42))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"only_free", "free_or_partial", "any", "unavailable"} {
		mode, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, mode.String())
	}

	_, err := ParseMode("sometimes")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
