package sched

// FramePhase is the stage the scheduler is in while producing a frame.
// Exactly one phase is active at a time; PhaseIdle is both the initial
// state and the terminal state of every frame cycle.
type FramePhase int

const (
	PhaseIdle FramePhase = iota
	PhaseTransientCallbacks
	PhaseMidFrameMicrotasks
	PhasePersistentCallbacks
	PhasePostFrameCallbacks
)

func (p FramePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTransientCallbacks:
		return "transientCallbacks"
	case PhaseMidFrameMicrotasks:
		return "midFrameMicrotasks"
	case PhasePersistentCallbacks:
		return "persistentCallbacks"
	case PhasePostFrameCallbacks:
		return "postFrameCallbacks"
	default:
		return "unknown"
	}
}

// producingFrame reports whether the phase is one of the build/raster
// stages of an in-flight frame.
func (p FramePhase) producingFrame() bool {
	return p != PhaseIdle
}
