package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                 { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(2, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	done := make(chan string, 2)
	for _, name := range []string{"a", "b"} {
		name := name
		require.NoError(t, pool.Submit(funcJob{name: name, fn: func(context.Context) error {
			done <- name
			return nil
		}}))
	}

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case name := <-done:
			got[name] = true
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, got)
}

func TestPool_QueueFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}

	require.NoError(t, pool.Submit(noop))
	assert.Equal(t, 1, pool.QueueSize())
	assert.ErrorIs(t, pool.Submit(noop), worker.ErrQueueFull)
}

func TestPool_StopDrainsQueueAndRejectsNewJobs(t *testing.T) {
	pool := worker.NewPool(1, 8)
	var ran atomic.Int32
	count := funcJob{name: "count", fn: func(context.Context) error {
		ran.Add(1)
		return nil
	}}

	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Submit(count))
	}
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	assert.Equal(t, int32(3), ran.Load())
	assert.ErrorIs(t, pool.Submit(count), worker.ErrPoolStopped)
}

func TestPool_SurvivesFailingJobs(t *testing.T) {
	pool := worker.NewPool(1, 4)
	done := make(chan struct{})

	require.NoError(t, pool.Submit(funcJob{name: "panics", fn: func(context.Context) error {
		panic("bad row")
	}}))
	require.NoError(t, pool.Submit(funcJob{name: "fails", fn: func(context.Context) error {
		return errors.New("disk full")
	}}))
	require.NoError(t, pool.Submit(funcJob{name: "ok", fn: func(context.Context) error {
		close(done)
		return nil
	}}))

	pool.Start(context.Background())
	defer pool.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from failing jobs")
	}
}
