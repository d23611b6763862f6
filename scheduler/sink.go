package scheduler

import (
	"time"

	"strudel-go/pattern"
)

// Sink is the scheduler's output collaborator (spec.md §6a): it receives
// absolute trigger times and is responsible for dispatch — audio synth,
// MIDI, OSC, a terminal visualizer, whatever the host wires in. The
// scheduler does not interpret reserved value keys (s, n, gain, ...); that
// convention is documented for the sink's benefit only.
type Sink interface {
	Emit(t time.Time, value pattern.Value, duration time.Duration, ctx pattern.Context)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(t time.Time, value pattern.Value, duration time.Duration, ctx pattern.Context)

func (f SinkFunc) Emit(t time.Time, value pattern.Value, duration time.Duration, ctx pattern.Context) {
	f(t, value, duration, ctx)
}
