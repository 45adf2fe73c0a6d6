package jobs

import (
	"time"

	"github.com/poiesic/profilematch/core"
)

// State is the lifecycle state of a job.
type State int

const (
	// StateQueued means the job is accepted but not yet running.
	StateQueued State = iota + 1
	// StateRunning means the job is executing.
	StateRunning
	// StateRetrying means the job hit a transient failure and is waiting
	// for its backoff delay.
	StateRetrying
	// StateSucceeded is terminal success.
	StateSucceeded
	// StateFailed is terminal failure: either a non-retryable error or the
	// attempt budget was exhausted.
	StateFailed
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateRetrying:
		return "retrying"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Job is the tracked record of one submitted unit of work.
type Job struct {
	ID         string
	Kind       string
	Key        core.ReconciliationKey
	State      State
	Attempts   int
	LastError  string
	EnqueuedAt time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	// done is closed once the job reaches a terminal state.
	done chan struct{}
}

// clone returns a copy safe to hand out without holding the orchestrator lock.
func (j *Job) clone() *Job {
	copied := *j
	copied.done = nil
	return &copied
}
