package async

import (
	"context"
	"errors"
	"fmt"
)

// Task is a named foreground operation.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts every task concurrently and waits for all of them.
// Errors are prefixed with the task name and joined.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "sparklyr_init.log", Func: upload(first)},
//	    {Name: "r_packages_init.log", Func: upload(second)},
//	}
//	if err := RunParallel(ctx, tasks); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	resultChan := make(chan result, len(tasks))
	for _, task := range tasks {
		go func() {
			resultChan <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var errs []error
	for range len(tasks) {
		res := <-resultChan
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.name, res.err))
		}
	}

	return errors.Join(errs...)
}
