package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_CompletesAllTasks(t *testing.T) {
	t.Parallel()

	results := make([]int, 20)
	tasks := make([]Task, len(results))
	for i := range tasks {
		i := i
		tasks[i] = func(context.Context) error {
			results[i] = i * i
			return nil
		}
	}

	require.NoError(t, Run(context.Background(), 4, tasks))
	for i, v := range results {
		require.Equal(t, i*i, v)
	}
}

func TestRun_SequentialStopsAtFirstError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	var ran atomic.Int32
	tasks := []Task{
		func(context.Context) error { ran.Add(1); return nil },
		func(context.Context) error { ran.Add(1); return errBoom },
		func(context.Context) error { ran.Add(1); return nil },
	}

	err := Run(context.Background(), 1, tasks)
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, int32(2), ran.Load())
}

func TestRun_ParallelFailureCancelsBatch(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	var started atomic.Int32
	tasks := make([]Task, 50)
	tasks[0] = func(context.Context) error { return errBoom }
	for i := 1; i < len(tasks); i++ {
		tasks[i] = func(ctx context.Context) error {
			started.Add(1)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(20 * time.Millisecond):
				return nil
			}
		}
	}

	err := Run(context.Background(), 2, tasks)
	require.ErrorIs(t, err, errBoom)
	require.Less(t, started.Load(), int32(len(tasks)-1))
}

func TestRun_PanicBecomesError(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		func(context.Context) error { return nil },
		func(context.Context) error { panic("reducer exploded") },
	}

	for _, size := range []int{1, 2} {
		err := Run(context.Background(), size, tasks)
		require.Error(t, err)
		require.Contains(t, err.Error(), "reducer exploded")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	tasks := []Task{
		func(context.Context) error { ran.Add(1); return nil },
		func(context.Context) error { ran.Add(1); return nil },
	}

	require.ErrorIs(t, Run(ctx, 2, tasks), context.Canceled)
	require.ErrorIs(t, Run(ctx, 1, tasks), context.Canceled)
	require.Equal(t, int32(0), ran.Load())
}
