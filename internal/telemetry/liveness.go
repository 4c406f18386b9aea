package telemetry

import (
	"time"

	"container_monitor/internal/models"
)

// Clock abstracts wall-clock time so throttles and timeouts can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Transition is an edge reported by the liveness monitor.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionFault
	TransitionRestored
)

func (t Transition) String() string {
	switch t {
	case TransitionFault:
		return "FAULT"
	case TransitionRestored:
		return "RESTORED"
	default:
		return "NONE"
	}
}

// DefaultLivenessTimeout is how long the stream may stay silent before it is faulted.
const DefaultLivenessTimeout = 3000 * time.Millisecond

// LivenessMonitor tracks how recently a reading arrived. It is not safe for
// concurrent use; the Reducer serialises access.
type LivenessMonitor struct {
	timeout      time.Duration
	lastReceived time.Time
	seen         bool
	fault        bool
	status       models.SensorStatus
}

// NewLivenessMonitor starts LIVE with lastReceived = start, so a stream that
// never delivers anything is faulted one timeout after start.
func NewLivenessMonitor(timeout time.Duration, start time.Time) *LivenessMonitor {
	if timeout <= 0 {
		timeout = DefaultLivenessTimeout
	}
	return &LivenessMonitor{
		timeout:      timeout,
		lastReceived: start,
		status:       models.StatusUnknown,
	}
}

// Observe records a reading arrival. It never changes the fault flag itself.
func (m *LivenessMonitor) Observe(at time.Time, status models.SensorStatus) {
	m.lastReceived = at
	m.seen = true
	if status != "" {
		m.status = status
	}
}

// Evaluate checks recency at now and reports an edge, if any.
func (m *LivenessMonitor) Evaluate(now time.Time) Transition {
	silent := now.Sub(m.lastReceived) > m.timeout
	switch {
	case silent && !m.fault:
		m.fault = true
		return TransitionFault
	case !silent && m.fault:
		m.fault = false
		return TransitionRestored
	}
	return TransitionNone
}

// Faulted reports whether the monitor is in FAULT.
func (m *LivenessMonitor) Faulted() bool { return m.fault }

// State returns the exposed liveness state.
func (m *LivenessMonitor) State() models.LivenessState {
	var last int64
	if m.seen {
		last = m.lastReceived.UnixMilli()
	}
	return models.LivenessState{
		LastReceivedAt:  last,
		FaultActive:     m.fault,
		LastKnownStatus: m.status,
	}
}
