// internal/sched/epoch.go

package sched

import "time"

// FrameEpoch maps raw platform timestamps onto frame-relative time. The
// mapping stays continuous and monotonic across dilation changes: a
// dilation change rebases the epoch at the last observed raw timestamp, so
// only future raw-time increments are divided by the new factor.
type FrameEpoch struct {
	epochStart      time.Duration // frame-relative time at the epoch origin
	firstRawInEpoch time.Duration
	hasFirstRaw     bool
	lastRaw         time.Duration
	dilation        float64
}

// NewFrameEpoch creates an epoch with the given dilation factor.
// Non-positive factors fall back to 1.
func NewFrameEpoch(dilation float64) *FrameEpoch {
	if dilation <= 0 {
		dilation = 1
	}
	return &FrameEpoch{dilation: dilation}
}

// Observe records a raw frame-begin timestamp and returns the
// frame-relative timestamp for it. The first observation after a reset or
// rebase maps to the epoch origin.
func (e *FrameEpoch) Observe(raw time.Duration) time.Duration {
	if !e.hasFirstRaw {
		e.hasFirstRaw = true
		e.firstRawInEpoch = raw
	}
	e.lastRaw = raw
	return e.adjust(raw)
}

// Reset zeroes the epoch: the next observed raw timestamp maps to 0.
func (e *FrameEpoch) Reset() {
	e.epochStart = 0
	e.hasFirstRaw = false
}

// SetDilation changes the dilation factor, rebasing the epoch at the last
// observed raw timestamp so frame time stays continuous. Non-positive
// factors are ignored.
func (e *FrameEpoch) SetDilation(d float64) {
	if d <= 0 || d == e.dilation {
		return
	}
	e.rebase()
	e.dilation = d
}

// Dilation returns the current dilation factor.
func (e *FrameEpoch) Dilation() float64 {
	return e.dilation
}

// LastRaw returns the most recent raw timestamp observed, undilated.
func (e *FrameEpoch) LastRaw() time.Duration {
	return e.lastRaw
}

// rebase moves the epoch origin to the last observed raw timestamp while
// preserving the frame-relative time reported there.
func (e *FrameEpoch) rebase() {
	e.epochStart = e.adjust(e.lastRaw)
	e.hasFirstRaw = false
}

func (e *FrameEpoch) adjust(raw time.Duration) time.Duration {
	var sinceEpoch time.Duration
	if e.hasFirstRaw {
		sinceEpoch = raw - e.firstRawInEpoch
	}
	return time.Duration(float64(sinceEpoch)/e.dilation) + e.epochStart
}
