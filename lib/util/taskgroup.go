package util

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one independent unit of work launched by RunTasks
type Task[T any] func(ctx context.Context) (T, error)

// TaskResult holds the outcome of the task at Index
type TaskResult[T any] struct {
	Index int
	Value T
	Err   error
}

// TaskResults is ordered like the tasks passed to RunTasks
type TaskResults[T any] []TaskResult[T]

// RunTasks launches every task and waits for all of them. A failing task does not
// cancel the others. limit > 0 bounds how many run at once.
func RunTasks[T any](ctx context.Context, limit int, tasks []Task[T]) TaskResults[T] {
	results := make(TaskResults[T], len(tasks))

	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}

	for i, task := range tasks {
		group.Go(func() error {
			value, err := task(ctx)
			results[i] = TaskResult[T]{Index: i, Value: value, Err: err}
			return nil
		})
	}

	_ = group.Wait()
	return results
}

// FirstError returns the error of the lowest-indexed failed task
func (results TaskResults[T]) FirstError() error {
	for _, result := range results {
		if result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// Errors returns every task error in task order
func (results TaskResults[T]) Errors() []error {
	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errs
}

// Failed returns the results whose task returned an error
func (results TaskResults[T]) Failed() TaskResults[T] {
	var failed TaskResults[T]
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// Values returns every task value in task order, including zero values of failed tasks
func (results TaskResults[T]) Values() []T {
	values := make([]T, len(results))
	for i, result := range results {
		values[i] = result.Value
	}
	return values
}
