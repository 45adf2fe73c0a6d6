package ingestion

import (
	"errors"

	"github.com/poiesic/profilematch/storage"
)

var (
	// ErrPointRepositoryRequired is returned when a point repository is not provided.
	ErrPointRepositoryRequired = errors.New("point repository required")

	// ErrExtractorRequired is returned when a skill extractor is not provided.
	ErrExtractorRequired = errors.New("skill extractor required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmbeddingBackend marks a transient embedding backend failure.
	// Work failing with this error is safe to retry.
	ErrEmbeddingBackend = errors.New("embedding backend failure")

	// ErrDocumentFile is returned when a document file cannot be read or parsed.
	ErrDocumentFile = errors.New("invalid document file")

	// ErrDocumentNotFound is returned when an archive holds no file for a
	// requested document.
	ErrDocumentNotFound = errors.New("document not found in archive")
)

// IsRetryable reports whether an ingestion error is transient.
// Backend and store outages are retryable; validation failures are not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrEmbeddingBackend) || errors.Is(err, storage.ErrStoreUnavailable)
}
