package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
)

// AvailabilityStore implements storage.AvailabilityStore for BadgerDB.
// Records are stored with a TTL so stale staffing data expires on its own.
type AvailabilityStore struct {
	backend *Backend
}

var _ storage.AvailabilityStore = (*AvailabilityStore)(nil)

// NewAvailabilityStore creates a new AvailabilityStore.
func NewAvailabilityStore(backend *Backend) (storage.AvailabilityStore, error) {
	return &AvailabilityStore{
		backend: backend,
	}, nil
}

// Close releases resources. AvailabilityStore has no resources to release.
func (s *AvailabilityStore) Close() error {
	return nil
}

// GetAvailability retrieves the availability record for one key.
func (s *AvailabilityStore) GetAvailability(ctx context.Context, key core.ReconciliationKey) (*core.AvailabilityRecord, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStoreUnavailable
	}

	var result *core.AvailabilityRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAvailabilityKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalAvailabilityRecord(val)
			return err
		})
	}, false)
	return result, err
}

// GetAvailabilityMany retrieves records for multiple keys.
// Missing or expired keys are absent from the result map.
func (s *AvailabilityStore) GetAvailabilityMany(ctx context.Context, keys []core.ReconciliationKey) (map[core.ReconciliationKey]*core.AvailabilityRecord, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStoreUnavailable
	}

	records := make(map[core.ReconciliationKey]*core.AvailabilityRecord, len(keys))
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			item, err := tx.Get(makeAvailabilityKey(key))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			var record *core.AvailabilityRecord
			err = item.Value(func(val []byte) error {
				record, err = storage.UnmarshalAvailabilityRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records[key] = record
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// PutAvailability stores one record with the given time-to-live.
func (s *AvailabilityStore) PutAvailability(ctx context.Context, record *core.AvailabilityRecord, ttl time.Duration) error {
	return s.PutAvailabilityMany(ctx, []*core.AvailabilityRecord{record}, ttl)
}

// PutAvailabilityMany stores multiple records with the given time-to-live.
// A zero ttl stores records without expiry.
func (s *AvailabilityStore) PutAvailabilityMany(ctx context.Context, records []*core.AvailabilityRecord, ttl time.Duration) error {
	if s.backend.IsClosed() {
		return storage.ErrStoreUnavailable
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateAvailabilityRecord(record); err != nil {
				return err
			}
			if record.UpdatedAt.IsZero() {
				record.UpdatedAt = time.Now().UTC()
			}

			key := makeAvailabilityKey(record.Key)
			value := storage.MarshalAvailabilityRecord(record)

			if ttl > 0 {
				entry := badger.NewEntry(key, value).WithTTL(ttl)
				if err := tx.SetEntry(entry); err != nil {
					return err
				}
			} else {
				if err := tx.Set(key, value); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// Ping verifies the store is reachable.
func (s *AvailabilityStore) Ping(ctx context.Context) error {
	if s.backend.IsClosed() {
		return storage.ErrStoreUnavailable
	}
	return nil
}
