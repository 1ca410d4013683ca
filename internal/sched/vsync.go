// internal/sched/vsync.go

package sched

import (
	"sync/atomic"
	"time"
)

// VsyncClock simulates the platform vsync signal: it emits raw frame
// timestamps at a fixed interval and counts frames atomically.
type VsyncClock struct {
	Ch    chan time.Duration
	count atomic.Int64
	start time.Time
	stop  chan struct{}
}

// NewVsyncClock creates a clock but does not start it.
func NewVsyncClock(buffer int) *VsyncClock {
	return &VsyncClock{
		Ch:   make(chan time.Duration, buffer),
		stop: make(chan struct{}),
	}
}

// Start begins emitting raw timestamps at the given interval. Timestamps
// are measured from the moment Start is called.
func (c *VsyncClock) Start(interval time.Duration) {
	c.start = time.Now()
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				c.count.Add(1)
				c.Ch <- now.Sub(c.start)
			case <-c.stop:
				close(c.Ch)
				return
			}
		}
	}()
}

// Stop signals the clock to stop emitting timestamps.
func (c *VsyncClock) Stop() {
	close(c.stop)
}

// Count returns the number of vsync ticks emitted so far.
func (c *VsyncClock) Count() int64 {
	return c.count.Load()
}
