// internal/sched/timing.go

package sched

import (
	"fmt"
	"time"
)

// FrameTiming is one raw per-frame timing sample, as reported by the
// platform after a frame has been rasterized.
type FrameTiming struct {
	VsyncStart           time.Duration
	BuildStart           time.Duration
	BuildFinish          time.Duration
	RasterStart          time.Duration
	RasterFinish         time.Duration
	RasterFinishWallTime time.Duration
	FrameNumber          int64
}

// BuildDuration is the time spent building the frame.
func (t FrameTiming) BuildDuration() time.Duration {
	return t.BuildFinish - t.BuildStart
}

// RasterDuration is the time spent rasterizing the frame.
func (t FrameTiming) RasterDuration() time.Duration {
	return t.RasterFinish - t.RasterStart
}

// VsyncOverhead is the latency between the vsync signal and build start.
func (t FrameTiming) VsyncOverhead() time.Duration {
	return t.BuildStart - t.VsyncStart
}

// TotalSpan is the full vsync-to-raster-finish span.
func (t FrameTiming) TotalSpan() time.Duration {
	return t.RasterFinish - t.VsyncStart
}

// TimingsCallback receives the full batch of samples from one report.
type TimingsCallback func(timings []FrameTiming)

// AddTimingsCallback registers a listener for frame-timing reports.
func (s *Scheduler) AddTimingsCallback(cb TimingsCallback) {
	s.timingsCallbacks = append(s.timingsCallbacks, cb)
}

// OnReportTimings is the platform hook for completed-frame timing batches.
// Every registered listener sees the full batch; a panicking listener is
// reported to the error sink and does not stop the remaining listeners or
// the telemetry emission. One "Frame" event is emitted per sample.
func (s *Scheduler) OnReportTimings(timings []FrameTiming) {
	for _, cb := range s.timingsCallbacks {
		s.invokeTimingsCallback(cb, timings)
	}

	now := time.Now()
	for _, t := range timings {
		s.emitEvent(Event{
			Name:          FrameEventName,
			Time:          now,
			Number:        t.FrameNumber,
			StartTime:     t.BuildStart,
			Elapsed:       t.TotalSpan(),
			Build:         t.BuildDuration(),
			Raster:        t.RasterDuration(),
			VsyncOverhead: t.VsyncOverhead(),
		})
	}
}

func (s *Scheduler) invokeTimingsCallback(cb TimingsCallback, timings []FrameTiming) {
	defer func() {
		if r := recover(); r != nil {
			s.reportError(fmt.Errorf("timings callback panicked: %v", r))
		}
	}()
	cb(timings)
}
