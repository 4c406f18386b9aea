package telemetry

import "time"

// Alarm defaults.
const (
	DefaultAlarmInterval = 2000 * time.Millisecond
	DefaultAlarmPulses   = 2
	DefaultAlarmSpacing  = 200 * time.Millisecond
)

// Alarm is a request to sound the audible alert.
type Alarm struct {
	At      time.Time     `json:"at"`
	Pulses  int           `json:"pulses"`
	Spacing time.Duration `json:"spacing"`
}

// AlarmLimiter lets an alarm through at most once per interval.
type AlarmLimiter struct {
	interval time.Duration
	pulses   int
	spacing  time.Duration
	last     time.Time
	fired    bool
}

func NewAlarmLimiter(interval time.Duration, pulses int, spacing time.Duration) *AlarmLimiter {
	if interval <= 0 {
		interval = DefaultAlarmInterval
	}
	if pulses <= 0 {
		pulses = DefaultAlarmPulses
	}
	if spacing <= 0 {
		spacing = DefaultAlarmSpacing
	}
	return &AlarmLimiter{interval: interval, pulses: pulses, spacing: spacing}
}

// Trigger returns an alarm when one is allowed at now, nil otherwise.
func (l *AlarmLimiter) Trigger(now time.Time) *Alarm {
	if l.fired && now.Sub(l.last) < l.interval {
		return nil
	}
	l.last = now
	l.fired = true
	return &Alarm{At: now, Pulses: l.pulses, Spacing: l.spacing}
}
