package telemetry

import (
	"testing"
	"time"

	"container_monitor/internal/models"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestLivenessMonitor_NoFaultBeforeTimeout(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewLivenessMonitor(3000*time.Millisecond, start)
	m.Observe(start, models.StatusWorking)

	faults := 0
	var faultAt time.Duration
	for tick := time.Duration(0); tick <= 6*time.Second; tick += 500 * time.Millisecond {
		if tr := m.Evaluate(start.Add(tick)); tr == TransitionFault {
			faults++
			if faultAt == 0 {
				faultAt = tick
			}
		}
	}
	if faults != 1 {
		t.Fatalf("expected exactly one fault event for one silence episode, got %d", faults)
	}
	// 3000ms is not > timeout; first poll past it is 3500ms
	if faultAt != 3500*time.Millisecond {
		t.Fatalf("fault detected at %v, want 3.5s", faultAt)
	}
}

func TestLivenessMonitor_RestoreIsEdgeTriggered(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewLivenessMonitor(0, start) // default timeout

	if tr := m.Evaluate(start.Add(3500 * time.Millisecond)); tr != TransitionFault {
		t.Fatalf("expected fault, got %s", tr)
	}
	if !m.State().FaultActive {
		t.Fatalf("state must report fault")
	}

	// a reading arrives while faulted: still FAULT until the next poll
	m.Observe(start.Add(4*time.Second), models.StatusFault)
	if !m.Faulted() {
		t.Fatalf("observe must not clear the fault by itself")
	}
	if tr := m.Evaluate(start.Add(4500 * time.Millisecond)); tr != TransitionRestored {
		t.Fatalf("expected restored, got %s", tr)
	}
	if tr := m.Evaluate(start.Add(5000 * time.Millisecond)); tr != TransitionNone {
		t.Fatalf("steady live state must not re-emit, got %s", tr)
	}

	st := m.State()
	if st.FaultActive {
		t.Fatalf("fault should be cleared")
	}
	// recency-live but self-reported faulty: the two signals stay separate
	if st.LastKnownStatus != models.StatusFault {
		t.Fatalf("status=%s, want FAULT", st.LastKnownStatus)
	}
	if st.LastReceivedAt != start.Add(4*time.Second).UnixMilli() {
		t.Fatalf("LastReceivedAt=%d", st.LastReceivedAt)
	}
}

func TestLivenessMonitor_StateBeforeAnyReading(t *testing.T) {
	m := NewLivenessMonitor(time.Second, time.Now())
	st := m.State()
	if st.LastReceivedAt != 0 || st.FaultActive || st.LastKnownStatus != models.StatusUnknown {
		t.Fatalf("unexpected initial state: %+v", st)
	}
}
