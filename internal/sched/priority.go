package sched

// Priority orders tasks in the run queue. Any int works; the named bands
// below are the reference points callers are expected to offset from.
type Priority int

// Named priority bands, lowest to highest.
const (
	IdlePriority      Priority = 0
	AnimationPriority Priority = 100000
	TouchPriority     Priority = 200000
	ImmediatePriority Priority = 1 << 20
)

var priorityNames = map[Priority]string{
	IdlePriority:      "idle",
	AnimationPriority: "animation",
	TouchPriority:     "touch",
	ImmediatePriority: "immediate",
}

// String names the band if the value is exactly a named band, otherwise
// reports the nearest band below it.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	switch {
	case p >= ImmediatePriority:
		return "immediate+"
	case p >= TouchPriority:
		return "touch+"
	case p >= AnimationPriority:
		return "animation+"
	default:
		return "idle+"
	}
}
