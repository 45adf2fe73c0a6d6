package jobs

import "errors"

var (
	// ErrJobNotFound indicates an unknown job ID.
	ErrJobNotFound = errors.New("job not found")

	// ErrOrchestratorClosed indicates the orchestrator has been released.
	ErrOrchestratorClosed = errors.New("orchestrator is closed")

	// ErrReembedInProgress indicates a corpus re-embed is already running.
	// Only one full-corpus pass may run at a time.
	ErrReembedInProgress = errors.New("reembed already in progress")

	// ErrInvalidMaxAttempts indicates a non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrWorkRequired indicates a nil work function was submitted.
	ErrWorkRequired = errors.New("work function required")
)
