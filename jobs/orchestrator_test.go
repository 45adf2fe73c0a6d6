package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T, opts ...OrchestratorOption) *Orchestrator {
	t.Helper()
	base := []OrchestratorOption{
		WithPoolSize(4),
		WithBaseDelay(time.Millisecond),
	}
	o, err := NewOrchestrator(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o
}

func retryableErr(msg string) error {
	return fmt.Errorf("%w: %s", ingestion.ErrEmbeddingBackend, msg)
}

func TestSubmit_Succeeds(t *testing.T) {
	o := newTestOrchestrator(t)

	id, err := o.Submit(context.Background(), "ingest", 100000, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	o.Wait()

	job, err := o.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State)
	assert.Equal(t, 1, job.Attempts)
	assert.Empty(t, job.LastError)
	assert.False(t, job.FinishedAt.IsZero())
}

func TestSubmit_RetriesTransientFailures(t *testing.T) {
	o := newTestOrchestrator(t, WithMaxAttempts(4))

	var calls atomic.Int32
	id, err := o.Submit(context.Background(), "ingest", 1, func(ctx context.Context) error {
		if calls.Add(1) <= 3 {
			return retryableErr("connection reset")
		}
		return nil
	})
	require.NoError(t, err)
	o.Wait()

	job, err := o.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State)
	assert.Equal(t, 4, job.Attempts, "three transient failures then success")
}

func TestSubmit_ExhaustsAttemptBudget(t *testing.T) {
	o := newTestOrchestrator(t, WithMaxAttempts(3))

	var calls atomic.Int32
	id, err := o.Submit(context.Background(), "ingest", 1, func(ctx context.Context) error {
		calls.Add(1)
		return retryableErr("still down")
	})
	require.NoError(t, err)
	o.Wait()

	job, err := o.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, job.State)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, job.LastError, "still down")
}

func TestSubmit_TerminalErrorNotRetried(t *testing.T) {
	o := newTestOrchestrator(t, WithMaxAttempts(4))

	var calls atomic.Int32
	id, err := o.Submit(context.Background(), "ingest", 1, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("missing reconciliation key")
	})
	require.NoError(t, err)
	o.Wait()

	job, err := o.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, job.State)
	assert.Equal(t, int32(1), calls.Load(), "terminal failures fail fast")
}

func TestSubmit_SameKeySerialized(t *testing.T) {
	o := newTestOrchestrator(t)

	var active, violations atomic.Int32
	work := func(ctx context.Context) error {
		if active.Add(1) > 1 {
			violations.Add(1)
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return nil
	}

	for i := 0; i < 4; i++ {
		_, err := o.Submit(context.Background(), "ingest", 100000, work)
		require.NoError(t, err)
	}
	o.Wait()

	assert.Zero(t, violations.Load(), "jobs for the same key must never overlap")
}

func TestWaitFor_OnlyGivenJobs(t *testing.T) {
	o := newTestOrchestrator(t)

	release := make(chan struct{})
	defer close(release)
	_, err := o.Submit(context.Background(), "reembed", 0, func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	id, err := o.Submit(context.Background(), "ingest", 100000, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	waited := make(chan error, 1)
	go func() { waited <- o.WaitFor(id) }()

	select {
	case err := <-waited:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("WaitFor blocked on a job it was not given")
	}
}

func TestWaitFor_UnknownJob(t *testing.T) {
	o := newTestOrchestrator(t)

	assert.ErrorIs(t, o.WaitFor("nope-1"), ErrJobNotFound)
}

func TestSubmit_KeyLocksPruned(t *testing.T) {
	o := newTestOrchestrator(t)

	for i := 0; i < 4; i++ {
		_, err := o.Submit(context.Background(), "ingest", core.ReconciliationKey(100000+i%2), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
	}
	o.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	assert.Empty(t, o.keyLocks, "finished jobs leave no key locks behind")
}

func TestSubmit_NilWork(t *testing.T) {
	o := newTestOrchestrator(t)

	_, err := o.Submit(context.Background(), "ingest", 1, nil)
	assert.ErrorIs(t, err, ErrWorkRequired)
}

func TestSubmit_AfterRelease(t *testing.T) {
	o, err := NewOrchestrator(WithPoolSize(1))
	require.NoError(t, err)
	o.Release()

	_, err = o.Submit(context.Background(), "ingest", 1, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrOrchestratorClosed)
}

func TestGetJob_NotFound(t *testing.T) {
	o := newTestOrchestrator(t)

	_, err := o.GetJob("nope-1")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobStateString(t *testing.T) {
	assert.Equal(t, "queued", StateQueued.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "retrying", StateRetrying.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateRetrying.Terminal())
}
