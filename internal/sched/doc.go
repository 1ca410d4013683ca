// Package sched implements a cooperative priority task scheduler combined
// with a frame-phase state machine.
//
// An external event loop calls HandleOneLoopTurn on every turn; the
// scheduler dispatches at most one pending task per call, gated by a
// pluggable SchedulingStrategy so idle work never starves animation
// frames. Frame production is sequenced through the FramePhase states,
// driven by the platform's begin/draw hooks, with a warm-up frame path to
// prime state before the first vsync. FrameEpoch converts raw platform
// timestamps into dilated, frame-relative time, and per-frame timing
// reports are fanned out to listeners and a telemetry event stream.
package sched
