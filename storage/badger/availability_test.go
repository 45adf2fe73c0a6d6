package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAvailabilityStore(t *testing.T) (storage.AvailabilityStore, *Backend) {
	t.Helper()
	_, store, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})
	return store, backend
}

func freeRecord(key core.ReconciliationKey) *core.AvailabilityRecord {
	return &core.AvailabilityRecord{
		Key:           key,
		Status:        core.StatusFree,
		AllocationPct: 0,
		Manager:       "jp",
	}
}

func TestPutAndGetAvailability(t *testing.T) {
	store, _ := setupAvailabilityStore(t)
	ctx := context.Background()

	record := freeRecord(100000)
	record.CurrentProject = "bench"
	require.NoError(t, store.PutAvailability(ctx, record, time.Hour))

	got, err := store.GetAvailability(ctx, 100000)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFree, got.Status)
	assert.Equal(t, "bench", got.CurrentProject)
	assert.False(t, got.UpdatedAt.IsZero(), "put stamps the record")
}

func TestGetAvailability_NotFound(t *testing.T) {
	store, _ := setupAvailabilityStore(t)

	_, err := store.GetAvailability(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetAvailabilityMany_SkipsMissing(t *testing.T) {
	store, _ := setupAvailabilityStore(t)
	ctx := context.Background()

	busy := freeRecord(2)
	busy.Status = core.StatusBusy
	busy.AllocationPct = 100
	require.NoError(t, store.PutAvailabilityMany(ctx,
		[]*core.AvailabilityRecord{freeRecord(1), busy}, time.Hour))

	records, err := store.GetAvailabilityMany(ctx, []core.ReconciliationKey{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, core.StatusFree, records[1].Status)
	assert.Equal(t, core.StatusBusy, records[2].Status)
	assert.NotContains(t, records, core.ReconciliationKey(3))
}

func TestPutAvailability_ZeroTTLPersists(t *testing.T) {
	store, _ := setupAvailabilityStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutAvailability(ctx, freeRecord(5), 0))

	got, err := store.GetAvailability(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, core.ReconciliationKey(5), got.Key)
}

func TestPutAvailability_Invalid(t *testing.T) {
	store, _ := setupAvailabilityStore(t)
	ctx := context.Background()

	record := freeRecord(1)
	record.AllocationPct = 150
	err := store.PutAvailability(ctx, record, time.Hour)
	assert.ErrorIs(t, err, core.ErrAllocationOutOfRange)

	record = freeRecord(0)
	err = store.PutAvailability(ctx, record, time.Hour)
	assert.ErrorIs(t, err, core.ErrMissingReconciliationKey)
}

func TestAvailability_StoreUnavailable(t *testing.T) {
	store, backend := setupAvailabilityStore(t)
	require.NoError(t, backend.Close())

	err := store.Ping(context.Background())
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)

	_, err = store.GetAvailability(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)

	_, err = store.GetAvailabilityMany(context.Background(), []core.ReconciliationKey{1})
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
}
