package decision

import "errors"

var (
	// ErrAIProviderRequired is returned when no AI provider is supplied.
	ErrAIProviderRequired = errors.New("ai provider is required")

	// ErrNoCandidates is returned when Explain is called with an empty context.
	ErrNoCandidates = errors.New("decision context has no candidates")

	// ErrReasonerBackend wraps failures of the reasoning backend.
	ErrReasonerBackend = errors.New("reasoner backend error")
)
