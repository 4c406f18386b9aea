package telemetry

import (
	"math"
	"time"
)

// Motion thresholds, in g.
const (
	ShockMagnitudeG   = 2.5
	flaggedShockForce = 3.0
	tiltZMinG         = 0.5
	tiltXYMaxG        = 0.8
	TiltHold          = 3 * time.Second
)

// MotionSample is one accelerometer reading.
type MotionSample struct {
	X, Y, Z float64
	// ShockFlag is set when the device itself reported an impact.
	ShockFlag bool
}

// MotionState is the latched shock/tilt view of the container.
type MotionState struct {
	Magnitude  float64   `json:"magnitude"`
	Vibration  float64   `json:"vibration"`
	Shocked    bool      `json:"shocked"`
	MaxShockG  float64   `json:"max_shock_g"`
	Tilted     bool      `json:"tilted"`
	LastTiltAt time.Time `json:"last_tilt_at,omitempty"`
}

// MotionAnalyzer latches impacts until acknowledged and holds tilt for
// TiltHold after the last tilted sample. Not safe for concurrent use.
type MotionAnalyzer struct {
	state MotionState
}

// Analyze folds s into the state and reports whether a new shock was latched.
func (a *MotionAnalyzer) Analyze(s MotionSample, now time.Time) (MotionState, bool) {
	mag := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	a.state.Magnitude = mag
	a.state.Vibration = math.Sqrt(s.X*s.X + s.Y*s.Y)

	newShock := false
	if mag > ShockMagnitudeG {
		newShock = a.shock(mag)
	}
	if s.ShockFlag {
		force := flaggedShockForce
		if mag > 1 {
			force = mag
		}
		if a.shock(force) {
			newShock = true
		}
	}

	if math.Abs(s.Z) < tiltZMinG || math.Abs(s.X) > tiltXYMaxG || math.Abs(s.Y) > tiltXYMaxG {
		a.state.Tilted = true
		a.state.LastTiltAt = now
	}
	return a.State(now), newShock
}

func (a *MotionAnalyzer) shock(force float64) bool {
	if force > a.state.MaxShockG {
		a.state.MaxShockG = force
	}
	if a.state.Shocked {
		return false
	}
	a.state.Shocked = true
	return true
}

// State returns the current state with tilt expired if it is stale.
func (a *MotionAnalyzer) State(now time.Time) MotionState {
	if a.state.Tilted && now.Sub(a.state.LastTiltAt) >= TiltHold {
		a.state.Tilted = false
	}
	return a.state
}

// Acknowledge clears a latched shock.
func (a *MotionAnalyzer) Acknowledge() {
	a.state.Shocked = false
	a.state.MaxShockG = 0
}
