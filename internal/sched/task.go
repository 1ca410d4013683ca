package sched

import (
	"sync"
)

// TaskID uniquely identifies a task in the scheduler.
type TaskID uint64

// TaskAction is the work function of a task. Returning a *Future as the
// result means the action is still in flight: the task's completion then
// resolves only once that future (and any future it resolves with, and so
// on) has resolved.
type TaskAction func() (any, error)

// Task represents one schedulable unit of work. The queue owns the Task
// until it is dispatched; the caller keeps the Completion handle.
type Task struct {
	ID         TaskID
	Priority   Priority
	Run        TaskAction
	Completion *Future

	// seq preserves insertion order among tasks of equal priority.
	// Set by the queue when the task is pushed.
	seq uint64
}

// Future is a single-resolution completion handle. Resolve and Reject may
// each be called at most once in total; later calls are ignored.
type Future struct {
	mu       sync.Mutex
	resolved bool
	value    any
	err      error
	done     chan struct{}
	subs     []func(any, error)
}

// NewFuture creates an unresolved future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve completes the future with a value. If the value is itself a
// *Future the completion chains: this future resolves when the inner one
// does, with the inner one's outcome.
func (f *Future) Resolve(v any) {
	if inner, ok := v.(*Future); ok {
		inner.subscribe(f.complete)
		return
	}
	f.complete(v, nil)
}

// Reject completes the future with an error.
func (f *Future) Reject(err error) {
	f.complete(nil, err)
}

// Done is closed once the future has resolved or been rejected.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome. The bool is false while the future is still
// pending, in which case value and error are meaningless.
func (f *Future) Result() (any, error, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.resolved
}

// subscribe registers fn to run on completion. If the future is already
// complete, fn runs immediately on the caller's stack.
func (f *Future) subscribe(fn func(any, error)) {
	f.mu.Lock()
	if f.resolved {
		v, err := f.value, f.err
		f.mu.Unlock()
		fn(v, err)
		return
	}
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
}

func (f *Future) complete(v any, err error) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.resolved = true
	f.value, f.err = v, err
	subs := f.subs
	f.subs = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(v, err)
	}
}
