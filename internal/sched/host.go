// internal/sched/host.go

package sched

import "sync"

// Host is the deferred-execution facility the scheduler runs against. The
// platform event loop implements it; LoopHost is an in-process version for
// drivers and tests.
//
// Microtask-queued work drains strictly before timer-queued work at every
// drain point. Wakeup asks the loop to eventually call HandleOneLoopTurn;
// RequestFrame asks it to eventually deliver a begin/draw frame pair.
type Host interface {
	// Defer queues fn on the timer-like queue.
	Defer(fn func())
	// Microtask queues fn on the microtask queue.
	Microtask(fn func())
	// Wakeup signals that a task is pending.
	Wakeup()
	// RequestFrame signals that a frame should be produced.
	RequestFrame()
}

// LoopHost is a deterministic Host: callers pump it explicitly. Safe for
// concurrent producers; draining is meant to happen on one goroutine.
type LoopHost struct {
	mu             sync.Mutex
	micro          []func()
	deferred       []func()
	wakeCh         chan struct{}
	frameRequested bool
}

// NewLoopHost creates an idle host.
func NewLoopHost() *LoopHost {
	return &LoopHost{
		wakeCh: make(chan struct{}, 1),
	}
}

func (h *LoopHost) Defer(fn func()) {
	h.mu.Lock()
	h.deferred = append(h.deferred, fn)
	h.mu.Unlock()
}

func (h *LoopHost) Microtask(fn func()) {
	h.mu.Lock()
	h.micro = append(h.micro, fn)
	h.mu.Unlock()
}

// Wakeup is a non-blocking notification; coalesces repeated signals.
func (h *LoopHost) Wakeup() {
	select {
	case h.wakeCh <- struct{}{}:
	default:
	}
}

// WakeCh exposes the wake signal for loop drivers to select on.
func (h *LoopHost) WakeCh() <-chan struct{} {
	return h.wakeCh
}

func (h *LoopHost) RequestFrame() {
	h.mu.Lock()
	h.frameRequested = true
	h.mu.Unlock()
}

// TakeFrameRequest consumes a pending frame request, reporting whether
// there was one.
func (h *LoopHost) TakeFrameRequest() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	requested := h.frameRequested
	h.frameRequested = false
	return requested
}

// DrainMicrotasks runs queued microtasks until the microtask queue is
// empty, including ones queued while draining.
func (h *LoopHost) DrainMicrotasks() {
	for {
		h.mu.Lock()
		if len(h.micro) == 0 {
			h.mu.Unlock()
			return
		}
		fn := h.micro[0]
		h.micro = h.micro[1:]
		h.mu.Unlock()
		fn()
	}
}

// Step drains microtasks, then runs at most one timer-like action.
// It reports whether a timer-like action ran.
func (h *LoopHost) Step() bool {
	h.DrainMicrotasks()

	h.mu.Lock()
	if len(h.deferred) == 0 {
		h.mu.Unlock()
		return false
	}
	fn := h.deferred[0]
	h.deferred = h.deferred[1:]
	h.mu.Unlock()
	fn()

	h.DrainMicrotasks()
	return true
}

// Drain steps until both queues are empty.
func (h *LoopHost) Drain() {
	for h.Step() {
	}
	h.DrainMicrotasks()
}

// PendingDeferred returns the number of queued timer-like actions.
func (h *LoopHost) PendingDeferred() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.deferred)
}
