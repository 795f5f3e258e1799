package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("parse")
	timer.End(idx, "3 files")
	idx = timer.Begin("analyze")
	timer.End(idx, "")

	out := timer.Summary()
	for _, want := range []string{"parse", "analyze", "total", "3 files"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(-1, "")
	timer.End(5, "")
	if got := timer.Summary(); !strings.Contains(got, "total") {
		t.Fatalf("summary broke after bad indices:\n%s", got)
	}
}

func TestCounterSink(t *testing.T) {
	var c Counter
	c.PassDone("module", 2*time.Millisecond, 1)
	c.PassDone("function", 3*time.Millisecond, 0)
	if c.Passes != 2 {
		t.Fatalf("Passes = %d, want 2", c.Passes)
	}
	if c.Elapsed != 5*time.Millisecond {
		t.Fatalf("Elapsed = %v, want 5ms", c.Elapsed)
	}
}
