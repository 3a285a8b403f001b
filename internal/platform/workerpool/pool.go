package workerpool

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
)

// Task is one independent unit of work. Tasks run concurrently and must only
// write to state they own.
type Task func(ctx context.Context) error

// Run executes tasks on at most size workers and waits for them. The first failing
// task cancels the batch: tasks that have not started are skipped and Run returns
// the failure, combined with any other failure seen before the batch drained.
// A panicking task counts as a failure. size <= 1 runs the tasks in order on the
// calling goroutine.
func Run(ctx context.Context, size int, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if size <= 1 || len(tasks) == 1 {
		return runSequential(ctx, tasks)
	}
	size = min(size, len(tasks))

	pool, err := ants.NewPool(size)
	if err != nil {
		return errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu      sync.Mutex
		failure error
		workers sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		failure = errors.CombineErrors(failure, err)
		mu.Unlock()
		cancel()
	}

	for i, task := range tasks {
		i, task := i, task
		if ctx.Err() != nil {
			break
		}
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				return
			}
			if err := runTask(ctx, task); err != nil {
				fail(errors.Wrapf(err, "task %d", i))
			}
		}); err != nil {
			workers.Done()
			fail(errors.Wrap(err, "submit task to worker pool"))
			break
		}
	}
	workers.Wait()

	if failure != nil {
		return failure
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "worker batch interrupted")
	}
	return nil
}

func runSequential(ctx context.Context, tasks []Task) error {
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "worker batch interrupted")
		}
		if err := runTask(ctx, task); err != nil {
			return errors.Wrapf(err, "task %d", i)
		}
	}
	return nil
}

func runTask(ctx context.Context, task Task) (err error) {
	if task == nil {
		return errors.New("nil task")
	}
	var catcher panics.Catcher
	catcher.Try(func() {
		err = task(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return errors.Newf("task panicked: %v", recovered.Value)
	}
	return err
}
