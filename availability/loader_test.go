package availability

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/profilematch/core"
	badgerstore "github.com/poiesic/profilematch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `key,status,allocation_pct,current_project,available_from,available_to,manager
100000,free,0,,,,"jp"
100001,partial,50,atlas,2026-09-15,,mk
100002,busy,100,orion,,2026-12-01,mk
`

func TestLoaderLoad(t *testing.T) {
	_, store, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	loader, err := NewLoader(store)
	require.NoError(t, err)

	result, err := loader.Load(context.Background(), strings.NewReader(testCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Loaded)
	assert.Zero(t, result.Skipped)

	record, err := store.GetAvailability(context.Background(), 100001)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPartial, record.Status)
	assert.Equal(t, 50, record.AllocationPct)
	assert.Equal(t, "atlas", record.CurrentProject)
	assert.Equal(t, 2026, record.AvailableFrom.Year())
	assert.True(t, record.AvailableTo.IsZero())
}

func TestLoaderLoad_SkipsInvalidRows(t *testing.T) {
	_, store, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	loader, err := NewLoader(store)
	require.NoError(t, err)

	csv := "key,status,allocation_pct,current_project,available_from,available_to,manager\n" +
		"100000,free,0,,,,\n" +
		"abc,free,0,,,,\n" + // bad key
		"100001,sleeping,0,,,,\n" + // bad status
		"100002,free,150,,,,\n" // allocation out of range

	result, err := loader.Load(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 3, result.Skipped)
}

func TestLoaderLoad_MissingHeader(t *testing.T) {
	_, store, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	loader, err := NewLoader(store)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), strings.NewReader("100000,free,0,,,,\n"))
	assert.ErrorIs(t, err, ErrInvalidCSV)
}
