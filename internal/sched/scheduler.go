// internal/sched/scheduler.go

package sched

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"framesched/internal/logging"
)

// FrameCallback is invoked with the frame-relative timestamp of the frame
// it runs in.
type FrameCallback func(frameTimeStamp time.Duration)

// ErrorSink receives failures from user callbacks (timing listeners, frame
// callbacks). It must not panic.
type ErrorSink func(err error)

// Scheduler is the cooperative priority task scheduler and frame-phase
// state machine. It is single-goroutine confined: the event loop driving
// it, the engine frame hooks, and all user callbacks run on one logical
// thread. Only the task queue is safe to feed from other goroutines.
type Scheduler struct {
	// scheduling
	host     Host
	queue    *TaskQueue
	strategy SchedulingStrategy

	// frame production
	epoch                 *FrameEpoch
	phase                 FramePhase
	frameTimeStamp        time.Duration
	frameNumber           int64
	hasScheduledFrame     bool
	lockCount             int
	warmUpFrame           bool
	rescheduleAfterWarmUp bool

	// frame callbacks
	nextCallbackID int
	transient      map[int]FrameCallback
	removed        map[int]struct{}
	persistent     []FrameCallback
	postFrame      []FrameCallback
	endOfFrame     *Future

	// timings and telemetry
	timingsCallbacks []TimingsCallback
	events           chan Event

	// logging-related
	log       *slog.Logger
	onError   ErrorSink
	csvFile   *os.File
	csvWriter *csv.Writer
}

// New creates a Scheduler bound to the given host with the given
// configuration.
func New(cfg Config, host Host) *Scheduler {
	log := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	s := &Scheduler{
		host:      host,
		queue:     NewTaskQueue(),
		strategy:  DefaultSchedulingStrategy,
		epoch:     NewFrameEpoch(cfg.TimeDilation),
		transient: make(map[int]FrameCallback),
		removed:   make(map[int]struct{}),
		events:    make(chan Event, cfg.EventBuffer),
		log:       log,
	}
	s.onError = func(err error) {
		s.log.Error("callback failed", "err", err)
	}
	return s
}

// EnableCSVLogging opens the given file path for CSV logging of telemetry
// events. Must be called before any frames are reported.
func (s *Scheduler) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"timestamp", "event", "frame", "start_us", "elapsed_us", "build_us", "raster_us", "vsync_overhead_us"})
	w.Flush()
	s.csvFile = f
	s.csvWriter = w
	return nil
}

// Close flushes and releases the CSV log, if any.
func (s *Scheduler) Close() error {
	if s.csvFile == nil {
		return nil
	}
	s.csvWriter.Flush()
	err := s.csvFile.Close()
	s.csvFile = nil
	s.csvWriter = nil
	return err
}

// Events exposes the read-only telemetry stream (optional consumers).
func (s *Scheduler) Events() <-chan Event { return s.events }

// SetSchedulingStrategy swaps the dispatch policy. Takes effect on the
// next loop turn; tasks already dispatched are unaffected.
func (s *Scheduler) SetSchedulingStrategy(strategy SchedulingStrategy) {
	if strategy == nil {
		strategy = DefaultSchedulingStrategy
	}
	s.strategy = strategy
}

// SetErrorSink replaces the global error-reporting hook.
func (s *Scheduler) SetErrorSink(sink ErrorSink) {
	if sink == nil {
		return
	}
	s.onError = sink
}

func (s *Scheduler) reportError(err error) {
	s.onError(err)
}

// ScheduleTask enqueues an action at the given priority and returns its
// completion handle. Enqueueing never fails; the returned future carries
// the action's eventual result or error. The host is woken so the loop
// eventually calls HandleOneLoopTurn.
func (s *Scheduler) ScheduleTask(action TaskAction, priority Priority) *Future {
	completion := NewFuture()
	s.queue.Push(&Task{
		Priority:   priority,
		Run:        action,
		Completion: completion,
	})
	s.host.Wakeup()
	return completion
}

// PendingTasks returns the number of tasks waiting in the queue.
func (s *Scheduler) PendingTasks() int { return s.queue.Len() }

// HandleOneLoopTurn is the single entry point the event loop calls on each
// turn. It dispatches at most one task and reports whether one ran. While
// a warm-up frame holds the dispatch lock, nothing runs regardless of
// strategy.
func (s *Scheduler) HandleOneLoopTurn() bool {
	if s.lockCount > 0 {
		return false
	}
	priority, ok := s.queue.PeekPriority()
	if !ok {
		return false
	}
	if !s.strategy(priority, s) {
		return false
	}
	task := s.queue.PopIfPriority(priority)
	if task == nil {
		return false
	}
	s.log.Debug("dispatch task", "task", task.ID, "priority", task.Priority)
	s.runTask(task)
	return true
}

// runTask starts the action and wires its outcome into the completion.
// A result that is itself a *Future keeps the completion pending until the
// whole asynchronous chain resolves. Failures reach only the completion.
func (s *Scheduler) runTask(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			t.Completion.Reject(fmt.Errorf("task %d panicked: %v", t.ID, r))
		}
	}()

	result, err := t.Run()
	if err != nil {
		t.Completion.Reject(err)
		return
	}
	t.Completion.Resolve(result)
}

// Phase returns the active frame phase.
func (s *Scheduler) Phase() FramePhase { return s.phase }

// HasScheduledFrame reports whether a frame has been requested from the
// host and not yet begun.
func (s *Scheduler) HasScheduledFrame() bool { return s.hasScheduledFrame }

// TransientCallbackCount returns the number of frame callbacks waiting for
// the next frame.
func (s *Scheduler) TransientCallbackCount() int { return len(s.transient) }

// CurrentFrameTimeStamp is the frame-relative timestamp of the current or
// most recent frame.
func (s *Scheduler) CurrentFrameTimeStamp() time.Duration { return s.frameTimeStamp }

// CurrentSystemFrameTimeStamp is the raw, undilated timestamp of the most
// recent frame-begin event.
func (s *Scheduler) CurrentSystemFrameTimeStamp() time.Duration { return s.epoch.LastRaw() }

// ResetEpoch rebases frame time so the next frame-begin event reports a
// frame-relative timestamp of zero.
func (s *Scheduler) ResetEpoch() { s.epoch.Reset() }

// SetTimeDilation changes the dilation factor. Frame time stays continuous
// across the change; only future raw-time increments are dilated.
func (s *Scheduler) SetTimeDilation(d float64) { s.epoch.SetDilation(d) }

// TimeDilation returns the current dilation factor.
func (s *Scheduler) TimeDilation() float64 { return s.epoch.Dilation() }

// ScheduleFrameCallback registers a one-shot callback for the beginning of
// the next frame and schedules that frame. Returns an ID usable with
// CancelFrameCallback.
func (s *Scheduler) ScheduleFrameCallback(cb FrameCallback) int {
	s.ScheduleFrame()
	s.nextCallbackID++
	s.transient[s.nextCallbackID] = cb
	return s.nextCallbackID
}

// CancelFrameCallback unregisters a transient callback by ID. Safe to call
// from inside another frame callback of the same frame.
func (s *Scheduler) CancelFrameCallback(id int) {
	delete(s.transient, id)
	s.removed[id] = struct{}{}
}

// AddPersistentFrameCallback registers a callback invoked on every frame
// after transient callbacks. Persistent callbacks cannot be removed.
func (s *Scheduler) AddPersistentFrameCallback(cb FrameCallback) {
	s.persistent = append(s.persistent, cb)
}

// AddPostFrameCallback registers a one-shot callback invoked after the
// next frame has been drawn. It does not itself schedule a frame.
func (s *Scheduler) AddPostFrameCallback(cb FrameCallback) {
	s.postFrame = append(s.postFrame, cb)
}

// EndOfFrame returns a future resolved just after the current or next
// frame finishes drawing. Schedules a frame if none is in flight.
func (s *Scheduler) EndOfFrame() *Future {
	if s.endOfFrame == nil {
		s.endOfFrame = NewFuture()
		if s.phase == PhaseIdle {
			s.ScheduleFrame()
		}
	}
	return s.endOfFrame
}

// ScheduleFrame asks the host for a frame unless one is already pending.
func (s *Scheduler) ScheduleFrame() {
	if s.hasScheduledFrame {
		return
	}
	s.hasScheduledFrame = true
	s.host.RequestFrame()
}

// OnBeginFrame is the platform hook for the start of a frame. An engine
// frame arriving while a warm-up frame is pending is swallowed; the
// warm-up's draw action arranges a fresh frame instead.
func (s *Scheduler) OnBeginFrame(rawTimeStamp time.Duration) {
	if s.warmUpFrame {
		s.rescheduleAfterWarmUp = true
		return
	}
	s.handleBeginFrame(rawTimeStamp)
}

// OnDrawFrame is the platform hook for the draw half of a frame.
func (s *Scheduler) OnDrawFrame() {
	if s.rescheduleAfterWarmUp {
		s.rescheduleAfterWarmUp = false
		// Reschedule once the warm-up frame is done so the swallowed
		// engine frame is not lost.
		s.AddPostFrameCallback(func(time.Duration) {
			s.hasScheduledFrame = false
			s.ScheduleFrame()
		})
		return
	}
	if s.phase == PhaseIdle {
		// draw without a matching begin
		return
	}
	s.handleDrawFrame()
}

// ScheduleWarmUpFrame pumps one synthetic frame, decoupled from vsync, to
// prime state before the first real frame. A no-op if a warm-up is already
// pending or a frame is in flight. Task dispatch is locked from now until
// the deferred draw action completes.
func (s *Scheduler) ScheduleWarmUpFrame() {
	if s.warmUpFrame || s.phase != PhaseIdle {
		return
	}
	s.warmUpFrame = true
	s.lockCount++
	hadScheduledFrame := s.hasScheduledFrame
	s.log.Debug("schedule warm-up frame")

	s.host.Defer(func() {
		// The warm-up begins against the last raw timestamp seen, not a
		// fresh vsync.
		s.handleBeginFrame(s.epoch.LastRaw())
	})
	s.host.Defer(func() {
		s.handleDrawFrame()
		// The warm-up frame's timings must not skew the epoch.
		s.epoch.Reset()
		s.warmUpFrame = false
		s.lockCount--
		if hadScheduledFrame {
			s.ScheduleFrame()
		}
	})
}

func (s *Scheduler) handleBeginFrame(rawTimeStamp time.Duration) {
	s.frameTimeStamp = s.epoch.Observe(rawTimeStamp)
	s.frameNumber++
	s.hasScheduledFrame = false
	s.log.Debug("begin frame", "frame", s.frameNumber, "timeStamp", s.frameTimeStamp)

	s.phase = PhaseTransientCallbacks
	callbacks := s.transient
	s.transient = make(map[int]FrameCallback)
	ids := make([]int, 0, len(callbacks))
	for id := range callbacks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if _, cancelled := s.removed[id]; !cancelled {
			s.invokeFrameCallback(callbacks[id], s.frameTimeStamp)
		}
	}
	clear(s.removed)

	// Microtasks queued by the build callbacks drain before the draw
	// event arrives.
	s.phase = PhaseMidFrameMicrotasks
}

func (s *Scheduler) handleDrawFrame() {
	s.phase = PhasePersistentCallbacks
	for _, cb := range s.persistent {
		s.invokeFrameCallback(cb, s.frameTimeStamp)
	}

	s.phase = PhasePostFrameCallbacks
	post := s.postFrame
	s.postFrame = nil
	for _, cb := range post {
		s.invokeFrameCallback(cb, s.frameTimeStamp)
	}
	if s.endOfFrame != nil {
		eof := s.endOfFrame
		s.endOfFrame = nil
		eof.Resolve(nil)
	}

	s.phase = PhaseIdle
	s.log.Debug("end frame", "frame", s.frameNumber)
}

func (s *Scheduler) invokeFrameCallback(cb FrameCallback, timeStamp time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.reportError(fmt.Errorf("frame callback panicked in %s: %v", s.phase, r))
		}
	}()
	cb(timeStamp)
}
