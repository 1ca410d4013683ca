package sched_test

import (
	"testing"
	"time"

	"framesched/internal/sched"
)

func TestWarmUpFrame_Idempotent(t *testing.T) {
	s, host := newTestScheduler(t)

	s.ScheduleWarmUpFrame()
	s.ScheduleWarmUpFrame()

	// One warm-up sequence: a begin action and a draw action, no more.
	if got := host.PendingDeferred(); got != 2 {
		t.Fatalf("deferred actions: got %d, want 2", got)
	}
}

func TestWarmUpFrame_LocksDispatch(t *testing.T) {
	s, host := newTestScheduler(t)

	ran := false
	s.ScheduleTask(func() (any, error) { ran = true; return nil, nil }, sched.ImmediatePriority)
	s.ScheduleWarmUpFrame()

	// Locked between schedule and the deferred draw action, regardless of
	// priority or strategy.
	if s.HandleOneLoopTurn() {
		t.Fatal("task dispatched while warm-up lock held")
	}
	host.Step() // begin-frame action
	if s.HandleOneLoopTurn() {
		t.Fatal("task dispatched between warm-up begin and draw")
	}
	host.Step() // draw-frame action
	if !s.HandleOneLoopTurn() {
		t.Fatal("task should dispatch after the warm-up completes")
	}
	if !ran {
		t.Fatal("task action did not run")
	}
}

func TestWarmUpFrame_RunsFullFrameCycle(t *testing.T) {
	s, host := newTestScheduler(t)

	var phases []sched.FramePhase
	s.ScheduleFrameCallback(func(time.Duration) { phases = append(phases, s.Phase()) })
	s.AddPostFrameCallback(func(time.Duration) { phases = append(phases, s.Phase()) })

	// ScheduleFrameCallback requested a real frame; drop the request so
	// only the warm-up drives this test.
	host.TakeFrameRequest()

	s.ScheduleWarmUpFrame()
	host.Step()
	if got := s.Phase(); got != sched.PhaseMidFrameMicrotasks {
		t.Fatalf("phase after warm-up begin: got %v, want midFrameMicrotasks", got)
	}
	host.Step()
	if got := s.Phase(); got != sched.PhaseIdle {
		t.Fatalf("phase after warm-up draw: got %v, want idle", got)
	}

	want := []sched.FramePhase{sched.PhaseTransientCallbacks, sched.PhasePostFrameCallbacks}
	if len(phases) != len(want) || phases[0] != want[0] || phases[1] != want[1] {
		t.Errorf("callback phases:\n  got:  %v\n  want: %v", phases, want)
	}
}

func TestWarmUpFrame_EngineFrameRace(t *testing.T) {
	s, host := newTestScheduler(t)

	s.ScheduleWarmUpFrame()

	// An engine-driven frame pair fires while the warm-up is pending. It
	// must not re-enter the frame phases; instead a fresh frame gets
	// scheduled once the warm-up's deferred draw action has run.
	s.OnBeginFrame(time.Second)
	if got := s.Phase(); got != sched.PhaseIdle {
		t.Fatalf("engine begin-frame entered phases during warm-up: phase %v", got)
	}
	s.OnDrawFrame()

	if s.HasScheduledFrame() {
		t.Fatal("frame rescheduled before the warm-up draw action ran")
	}

	host.Step() // warm-up begin
	if s.HasScheduledFrame() {
		t.Fatal("frame rescheduled after warm-up begin but before draw")
	}
	host.Step() // warm-up draw
	if !s.HasScheduledFrame() {
		t.Fatal("a frame should be scheduled after the warm-up draw action")
	}
}

func TestWarmUpFrame_ResetsEpoch(t *testing.T) {
	s, host := newTestScheduler(t)

	pumpFrame(s, host, 2*time.Second)
	pumpFrame(s, host, 5*time.Second)

	s.ScheduleWarmUpFrame()
	host.Drain()

	// The warm-up ends with an epoch reset: the next real frame starts
	// frame time over at zero.
	pumpFrame(s, host, 9*time.Second)
	if got := s.CurrentFrameTimeStamp(); got != 0 {
		t.Errorf("frame time after warm-up: got %v, want 0", got)
	}
}
