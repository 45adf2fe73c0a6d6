// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
)

// PointRepository implements storage.PointRepository for BadgerDB.
// Search is a brute-force scan over the point collection, which is fine for
// the corpus sizes this system targets (thousands of profiles, not millions).
type PointRepository struct {
	backend *Backend
}

var _ storage.PointRepository = (*PointRepository)(nil)

// NewPointRepository creates a new PointRepository.
func NewPointRepository(backend *Backend) (storage.PointRepository, error) {
	return &PointRepository{
		backend: backend,
	}, nil
}

// Close releases resources. PointRepository has no resources to release.
func (r *PointRepository) Close() error {
	return nil
}

// UpsertPoints inserts or replaces points by their deterministic IDs.
func (r *PointRepository) UpsertPoints(ctx context.Context, points ...*core.EmbeddingPoint) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, point := range points {
			if err := core.ValidateEmbeddingPoint(point); err != nil {
				return err
			}
			if point.Timestamp.IsZero() {
				point.Timestamp = time.Now().UTC()
			}

			key := makePointKey(point.ID)
			value := storage.MarshalEmbeddingPoint(point)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteDocumentPoints removes all points of a document in the given section.
// A zero section deletes every point of the document.
func (r *PointRepository) DeleteDocumentPoints(ctx context.Context, documentID string, section core.SectionType) (int, error) {
	if documentID == "" {
		return 0, storage.ErrInvalidQuery
	}

	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeDocumentPrefix(documentID)

		// Collect keys first; deleting while iterating invalidates the iterator.
		var doomed [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			if section != 0 {
				var point *core.EmbeddingPoint
				err := item.Value(func(val []byte) error {
					var err error
					point, err = storage.UnmarshalEmbeddingPoint(val)
					return err
				})
				if err != nil {
					iter.Close()
					return err
				}
				if point.Section != section {
					continue
				}
			}
			doomed = append(doomed, item.KeyCopy(nil))
		}
		iter.Close()

		for _, key := range doomed {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		deleted = len(doomed)
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// GetPoint retrieves a single point by its ID.
func (r *PointRepository) GetPoint(ctx context.Context, pointID string) (*core.EmbeddingPoint, error) {
	var result *core.EmbeddingPoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePointKey(pointID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalEmbeddingPoint(val)
			return err
		})
	}, false)
	return result, err
}

// GetDocumentPoints retrieves all points stored for a document,
// skills point first, experience points in index order.
func (r *PointRepository) GetDocumentPoints(ctx context.Context, documentID string) ([]*core.EmbeddingPoint, error) {
	if documentID == "" {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.EmbeddingPoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var point *core.EmbeddingPoint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = storage.UnmarshalEmbeddingPoint(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, point)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.EmbeddingPoint) int {
		if a.Section != b.Section {
			return int(a.Section) - int(b.Section)
		}
		return experienceIndex(a.ID) - experienceIndex(b.ID)
	})
	return results, nil
}

// Search finds the points most similar to the given vector.
// Similarity is the dot product, which equals cosine similarity for the
// normalized vectors the ingestion pipeline stores.
func (r *PointRepository) Search(ctx context.Context, vector []float32, filter *storage.Filter, limit int) ([]*core.ScoredPoint, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.ScoredPoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pointPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var point *core.EmbeddingPoint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = storage.UnmarshalEmbeddingPoint(val)
				return err
			})
			if err != nil {
				return err
			}

			if len(point.Vector) == 0 || !filter.Matches(point) {
				continue
			}

			results = append(results, &core.ScoredPoint{
				Point: point,
				Score: dotProduct(vector, point.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredPoint) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ListDocuments returns the IDs of all documents with stored points, sorted.
func (r *PointRepository) ListDocuments(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pointPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				point, err := storage.UnmarshalEmbeddingPoint(val)
				if err != nil {
					return err
				}
				seen[point.DocumentID] = true
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	documents := make([]string, 0, len(seen))
	for documentID := range seen {
		documents = append(documents, documentID)
	}
	slices.Sort(documents)
	return documents, nil
}

// ListKeys returns the distinct reconciliation keys owning stored points.
func (r *PointRepository) ListKeys(ctx context.Context) ([]core.ReconciliationKey, error) {
	seen := make(map[core.ReconciliationKey]bool)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pointPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				point, err := storage.UnmarshalEmbeddingPoint(val)
				if err != nil {
					return err
				}
				seen[point.Key] = true
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	keys := make([]core.ReconciliationKey, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// CountPoints returns the total number of stored points.
func (r *PointRepository) CountPoints(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pointPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// experienceIndex extracts the trailing index from an experience point ID.
// Skills points have no index and sort as zero.
func experienceIndex(pointID string) int {
	pos := strings.LastIndex(pointID, "_")
	if pos < 0 {
		return 0
	}
	index, err := strconv.Atoi(pointID[pos+1:])
	if err != nil {
		return 0
	}
	return index
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
