// internal/sched/event.go

package sched

import (
	"strconv"
	"time"
)

// FrameEventName keys the per-frame telemetry event stream.
const FrameEventName = "Frame"

// Event is one telemetry record, emitted per reported frame-timing sample.
type Event struct {
	Name          string
	Time          time.Time
	Number        int64
	StartTime     time.Duration
	Elapsed       time.Duration
	Build         time.Duration
	Raster        time.Duration
	VsyncOverhead time.Duration
}

// emitEvent streams the event to any consumer and to the CSV log if one is
// enabled. The channel send never blocks; a slow consumer drops events.
func (s *Scheduler) emitEvent(ev Event) {
	select {
	case s.events <- ev:
	default:
	}

	if s.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			ev.Name,
			strconv.FormatInt(ev.Number, 10),
			strconv.FormatInt(ev.StartTime.Microseconds(), 10),
			strconv.FormatInt(ev.Elapsed.Microseconds(), 10),
			strconv.FormatInt(ev.Build.Microseconds(), 10),
			strconv.FormatInt(ev.Raster.Microseconds(), 10),
			strconv.FormatInt(ev.VsyncOverhead.Microseconds(), 10),
		}
		s.csvWriter.Write(rec)
		s.csvWriter.Flush()
	}
}
