package job

import (
	"fmt"

	"framesched/internal/sched"
)

// Spin returns a task action that burns a fixed number of iterations,
// standing in for CPU-bound background work in the demo driver.
func Spin(iterations int, label string) sched.TaskAction {
	return func() (any, error) {
		acc := 0
		for i := 0; i < iterations; i++ {
			acc += i % 7
		}
		return fmt.Sprintf("%s: %d", label, acc), nil
	}
}

// Failing returns a task action that always fails. The error reaches only
// the task's completion future.
func Failing(label string) sched.TaskAction {
	return func() (any, error) {
		return nil, fmt.Errorf("%s: job failed", label)
	}
}

// Deferred returns a task action that finishes asynchronously: it resolves
// its completion only once the host runs the queued microtask.
func Deferred(host sched.Host, label string) sched.TaskAction {
	return func() (any, error) {
		inner := sched.NewFuture()
		host.Microtask(func() {
			inner.Resolve(label + ": done")
		})
		return inner, nil
	}
}
