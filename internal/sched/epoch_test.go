package sched_test

import (
	"testing"
	"time"

	"framesched/internal/sched"
)

func TestFrameEpoch_DilationContinuity(t *testing.T) {
	// Raw ticks at 2s,4s,6s,8s with the dilation factor doubling before
	// the 6s tick. The 6s->8s step of 2s raw elapsed is divided by 2,
	// adding 1s; nothing already elapsed is rescaled.
	e := sched.NewFrameEpoch(1)

	steps := []struct {
		raw      time.Duration
		dilation float64
		want     time.Duration
	}{
		{2 * time.Second, 1, 0},
		{4 * time.Second, 1, 2 * time.Second},
		{6 * time.Second, 2, 2 * time.Second},
		{8 * time.Second, 2, 3 * time.Second},
	}
	for _, step := range steps {
		e.SetDilation(step.dilation)
		if got := e.Observe(step.raw); got != step.want {
			t.Errorf("Observe(%v) with dilation %v: got %v, want %v", step.raw, step.dilation, got, step.want)
		}
	}
}

func TestFrameEpoch_Reset(t *testing.T) {
	e := sched.NewFrameEpoch(1)
	e.Observe(2 * time.Second)
	e.Observe(5 * time.Second)

	e.Reset()
	if got := e.Observe(9 * time.Second); got != 0 {
		t.Errorf("first timestamp after reset: got %v, want 0", got)
	}
	if got := e.Observe(10 * time.Second); got != time.Second {
		t.Errorf("second timestamp after reset: got %v, want 1s", got)
	}
}

func TestFrameEpoch_LastRawUndilated(t *testing.T) {
	e := sched.NewFrameEpoch(4)
	e.Observe(2 * time.Second)
	e.Observe(6 * time.Second)
	if got := e.LastRaw(); got != 6*time.Second {
		t.Errorf("LastRaw: got %v, want 6s", got)
	}
}

func TestFrameEpoch_IgnoresBadDilation(t *testing.T) {
	e := sched.NewFrameEpoch(2)
	e.SetDilation(0)
	e.SetDilation(-1)
	if got := e.Dilation(); got != 2 {
		t.Errorf("dilation: got %v, want 2", got)
	}
}
