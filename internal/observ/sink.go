package observ

import "time"

// Sink receives engine progress events. It replaces ad-hoc debug timing
// branches: hosts that want instrumentation plug one in, everyone else gets
// the nop singleton.
type Sink interface {
	// PassDone is called after one unit's analysis pass.
	PassDone(unitKind string, dur time.Duration, queueLen int)
}

type nopSink struct{}

func (nopSink) PassDone(string, time.Duration, int) {}

// Nop is the package-level no-op sink.
var Nop Sink = nopSink{}

// Counter is a Sink that tallies passes, for tests and summaries.
type Counter struct {
	Passes  int
	Elapsed time.Duration
}

func (c *Counter) PassDone(_ string, dur time.Duration, _ int) {
	c.Passes++
	c.Elapsed += dur
}
