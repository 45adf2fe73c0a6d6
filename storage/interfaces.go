package storage

import (
	"context"
	"time"

	"github.com/poiesic/profilematch/core"
)

// PointRepository provides operations over the embedding point collection.
// Implementations must be thread-safe and support concurrent access.
type PointRepository interface {
	// UpsertPoints inserts or replaces embedding points by their deterministic
	// IDs. Re-upserting the same ID overwrites the stored point, so repeated
	// ingestion of a document converges to one point per section.
	UpsertPoints(ctx context.Context, points ...*core.EmbeddingPoint) error

	// DeleteDocumentPoints removes all points of a document that belong to the
	// given section. A zero section deletes every point of the document.
	// Returns the number of points removed.
	DeleteDocumentPoints(ctx context.Context, documentID string, section core.SectionType) (int, error)

	// GetPoint retrieves a single point by its ID.
	// Returns ErrNotFound if the point doesn't exist.
	GetPoint(ctx context.Context, pointID string) (*core.EmbeddingPoint, error)

	// GetDocumentPoints retrieves all points stored for a document,
	// skills point first, experience points in index order.
	GetDocumentPoints(ctx context.Context, documentID string) ([]*core.EmbeddingPoint, error)

	// Search finds the points most similar to the given vector, restricted by
	// the filter. Results are ordered by similarity score (highest first),
	// up to limit results.
	Search(ctx context.Context, vector []float32, filter *Filter, limit int) ([]*core.ScoredPoint, error)

	// ListDocuments returns the IDs of all documents with at least one stored
	// point, sorted ascending.
	ListDocuments(ctx context.Context) ([]string, error)

	// ListKeys returns the distinct reconciliation keys that own at least one
	// stored point, sorted ascending.
	ListKeys(ctx context.Context) ([]core.ReconciliationKey, error)

	// CountPoints returns the total number of stored points.
	CountPoints(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// AvailabilityStore provides TTL-bounded access to candidate availability.
// Records expire so stale staffing data never silently drives decisions.
type AvailabilityStore interface {
	// GetAvailability retrieves the availability record for one key.
	// Returns ErrNotFound if no record exists or it has expired, and
	// ErrStoreUnavailable if the store cannot be reached.
	GetAvailability(ctx context.Context, key core.ReconciliationKey) (*core.AvailabilityRecord, error)

	// GetAvailabilityMany retrieves records for multiple keys. Missing or
	// expired keys are absent from the result map, not an error.
	GetAvailabilityMany(ctx context.Context, keys []core.ReconciliationKey) (map[core.ReconciliationKey]*core.AvailabilityRecord, error)

	// PutAvailability stores one record with the given time-to-live.
	// A zero ttl stores the record without expiry.
	PutAvailability(ctx context.Context, record *core.AvailabilityRecord, ttl time.Duration) error

	// PutAvailabilityMany stores multiple records with the given time-to-live.
	PutAvailabilityMany(ctx context.Context, records []*core.AvailabilityRecord, ttl time.Duration) error

	// Ping verifies the store is reachable.
	// Returns ErrStoreUnavailable when it is not.
	Ping(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}

// Filter restricts a vector search to points matching metadata predicates.
// Zero-valued fields are ignored.
type Filter struct {
	// Keys restricts results to points owned by these reconciliation keys.
	Keys []core.ReconciliationKey

	// Section restricts results to one section type.
	Section core.SectionType

	// Domain restricts results to one primary skill domain.
	Domain string

	// DictVersion restricts results to points normalized with one
	// dictionary version.
	DictVersion string

	// SeniorityBucket restricts results to one seniority bucket.
	SeniorityBucket string

	// MinYears restricts results to points with at least this many years of
	// experience.
	MinYears int
}

// Matches reports whether a point satisfies every set predicate.
func (f *Filter) Matches(point *core.EmbeddingPoint) bool {
	if f == nil {
		return true
	}
	if len(f.Keys) > 0 {
		found := false
		for _, key := range f.Keys {
			if point.Key == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Section != 0 && point.Section != f.Section {
		return false
	}
	if f.Domain != "" && point.Domain != f.Domain {
		return false
	}
	if f.DictVersion != "" && point.DictVersion != f.DictVersion {
		return false
	}
	if f.SeniorityBucket != "" && point.SeniorityBucket != f.SeniorityBucket {
		return false
	}
	if f.MinYears > 0 && point.ExperienceYears < f.MinYears {
		return false
	}
	return true
}
