// Package ingestion converts parsed profile documents into normalized,
// embedded points in the vector store. Ingestion is idempotent per document:
// deterministic point IDs overwrite in place and experience points are
// replaced as a set, so re-running a document never accumulates stale points.
package ingestion
