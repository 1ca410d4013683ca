package sched

// SchedulingStrategy decides whether a pending task of the given priority
// may run on this loop turn. It must be a pure predicate: no side effects,
// total over the priority domain. It is trusted configuration; a panicking
// strategy is a programming error and is not recovered.
type SchedulingStrategy func(priority Priority, s *Scheduler) bool

// DefaultSchedulingStrategy runs everything while no frame work is pending,
// but once transient frame callbacks are queued or a frame is mid-flight it
// only admits tasks at or above AnimationPriority. Idle work never starves
// animation; high-priority work never waits on frames.
func DefaultSchedulingStrategy(priority Priority, s *Scheduler) bool {
	if s.TransientCallbackCount() > 0 || s.Phase().producingFrame() {
		return priority >= AnimationPriority
	}
	return true
}
