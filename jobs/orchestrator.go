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


package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/ingestion"
)

const (
	// DefaultMaxAttempts is the per-job attempt budget for transient failures.
	DefaultMaxAttempts = 4

	// DefaultBaseDelay is the base retry delay.
	DefaultBaseDelay = 2 * time.Second
)

// Orchestrator runs ingestion work asynchronously on a bounded worker pool.
//
// Jobs move queued -> running -> {succeeded | retrying | failed}. Transient
// failures (as classified by ingestion.IsRetryable) are retried with linear
// backoff; anything else fails the job on the first attempt. Jobs that share
// a reconciliation key are serialized so two uploads for the same candidate
// can never interleave their writes.
type Orchestrator struct {
	pool        *ants.Pool
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	jobs     map[string]*Job
	keyLocks map[core.ReconciliationKey]*keyLock
	closed   bool

	seq atomic.Uint64
	wg  sync.WaitGroup
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) OrchestratorOption {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithMaxAttempts sets the per-job attempt budget.
func WithMaxAttempts(attempts int) OrchestratorOption {
	return func(o *Orchestrator) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		o.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the base retry delay.
func WithBaseDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.baseDelay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an orchestrator with a bounded worker pool.
func NewOrchestrator(opts ...OrchestratorOption) (*Orchestrator, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		pool:        pool,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      slog.Default().With("component", "orchestrator"),
		jobs:        make(map[string]*Job),
		keyLocks:    make(map[core.ReconciliationKey]*keyLock),
	}
	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.pool.Release()
			return nil, optErr
		}
	}
	return o, nil
}

// Submit enqueues a unit of work and returns its job ID immediately.
// key serializes jobs for the same candidate; pass 0 for keyless work.
func (o *Orchestrator) Submit(ctx context.Context, kind string, key core.ReconciliationKey, work func(ctx context.Context) error) (string, error) {
	if work == nil {
		return "", ErrWorkRequired
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return "", ErrOrchestratorClosed
	}
	job := &Job{
		ID:         fmt.Sprintf("%s-%d", kind, o.seq.Add(1)),
		Kind:       kind,
		Key:        key,
		State:      StateQueued,
		EnqueuedAt: time.Now().UTC(),
		done:       make(chan struct{}),
	}
	o.jobs[job.ID] = job
	o.mu.Unlock()

	o.wg.Add(1)
	err := o.pool.Submit(func() {
		defer o.wg.Done()
		defer close(job.done)
		o.run(ctx, job, work)
	})
	if err != nil {
		o.wg.Done()
		o.mu.Lock()
		delete(o.jobs, job.ID)
		o.mu.Unlock()
		return "", err
	}

	return job.ID, nil
}

// GetJob returns a snapshot of a job's current state.
func (o *Orchestrator) GetJob(id string) (*Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	job, ok := o.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.clone(), nil
}

// Wait blocks until every submitted job has reached a terminal state.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// WaitFor blocks until each of the given jobs has reached a terminal state.
// Unlike Wait, jobs submitted by other callers do not extend the wait.
func (o *Orchestrator) WaitFor(ids ...string) error {
	for _, id := range ids {
		o.mu.Lock()
		job, ok := o.jobs[id]
		o.mu.Unlock()
		if !ok {
			return ErrJobNotFound
		}
		<-job.done
	}
	return nil
}

// Release waits for in-flight jobs and shuts the pool down.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.wg.Wait()
	o.pool.Release()
}

// run executes one job through its full retry lifecycle.
func (o *Orchestrator) run(ctx context.Context, job *Job, work func(ctx context.Context) error) {
	// Serialize jobs that touch the same candidate.
	if job.Key != 0 {
		lock := o.acquireKeyLock(job.Key)
		lock.Lock()
		defer func() {
			lock.Unlock()
			o.releaseKeyLock(job.Key, lock)
		}()
	}

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		o.setState(job, StateRunning, attempt, "")

		err := work(ctx)
		if err == nil {
			o.setState(job, StateSucceeded, attempt, "")
			o.logger.Debug("job succeeded", "job", job.ID, "attempts", attempt)
			return
		}

		if !ingestion.IsRetryable(err) || attempt == o.maxAttempts {
			o.setState(job, StateFailed, attempt, err.Error())
			o.logger.Error("job failed", "job", job.ID, "attempts", attempt, "err", err)
			return
		}

		delay := Backoff(o.baseDelay, attempt)
		o.setState(job, StateRetrying, attempt, err.Error())
		o.logger.Warn("job retrying",
			"job", job.ID, "attempt", attempt, "delay", delay, "err", err)

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			o.setState(job, StateFailed, attempt, sleepErr.Error())
			return
		}
	}
}

// keyLock is a mutex with a reference count, so the orchestrator can prune
// entries for keys that no longer have running or waiting jobs.
type keyLock struct {
	sync.Mutex
	refs int
}

func (o *Orchestrator) acquireKeyLock(key core.ReconciliationKey) *keyLock {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.keyLocks[key]
	if !ok {
		lock = &keyLock{}
		o.keyLocks[key] = lock
	}
	lock.refs++
	return lock
}

func (o *Orchestrator) releaseKeyLock(key core.ReconciliationKey, lock *keyLock) {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(o.keyLocks, key)
	}
}

func (o *Orchestrator) setState(job *Job, state State, attempts int, lastError string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	job.State = state
	job.Attempts = attempts
	job.LastError = lastError
	now := time.Now().UTC()
	if state == StateRunning && job.StartedAt.IsZero() {
		job.StartedAt = now
	}
	if state.Terminal() {
		job.FinishedAt = now
	}
}
