package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := NewPool(2, 8)
	pool.Start(context.Background())

	var mu sync.Mutex
	done := make(map[int]bool)
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		err := pool.Submit(JobFunc{
			JobName: "test-job",
			Fn: func(context.Context) error {
				defer wg.Done()
				mu.Lock()
				done[i] = true
				mu.Unlock()
				return nil
			},
		})
		require.NoError(t, err)
	}

	wg.Wait()
	pool.Stop()
	assert.Len(t, done, 5)
}

func TestPool_SubmitFailsWhenQueueFull(t *testing.T) {
	pool := NewPool(1, 1)
	// Not started: nothing drains the queue.

	blocker := JobFunc{JobName: "blocker", Fn: func(context.Context) error {
		time.Sleep(time.Second)
		return nil
	}}
	require.NoError(t, pool.Submit(blocker))
	assert.Error(t, pool.Submit(blocker))
	assert.Equal(t, 1, pool.QueueSize())
}

func TestPool_JobErrorDoesNotKillWorker(t *testing.T) {
	pool := NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	var wg sync.WaitGroup
	wg.Add(2)

	require.NoError(t, pool.Submit(JobFunc{JobName: "failing", Fn: func(context.Context) error {
		defer wg.Done()
		return errors.New("boom")
	}}))
	ran := false
	require.NoError(t, pool.Submit(JobFunc{JobName: "after", Fn: func(context.Context) error {
		defer wg.Done()
		ran = true
		return nil
	}}))

	wg.Wait()
	assert.True(t, ran)
}
