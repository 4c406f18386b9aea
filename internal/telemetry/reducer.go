package telemetry

import (
	"sync"
	"time"

	"container_monitor/internal/models"

	"github.com/google/uuid"
)

// DefaultPersistInterval is the minimum gap between two persisted live readings.
const DefaultPersistInterval = 5000 * time.Millisecond

// Config parameterises one Reducer instance (one per view).
type Config struct {
	BufferSize      int
	PersistInterval time.Duration
	LivenessTimeout time.Duration
	AlarmInterval   time.Duration
	AlarmPulses     int
	AlarmSpacing    time.Duration
	// PersistBand classifies persisted records. Nil means "use the live band".
	PersistBand *models.ThresholdConfig
	LabelLayout string
	Location    *time.Location
}

func (c *Config) applyDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.PersistInterval <= 0 {
		c.PersistInterval = DefaultPersistInterval
	}
	if c.LivenessTimeout <= 0 {
		c.LivenessTimeout = DefaultLivenessTimeout
	}
	if c.LabelLayout == "" {
		c.LabelLayout = "15:04:05"
	}
	if c.Location == nil {
		c.Location = time.Local
	}
}

// Effect is everything a single ingest asks collaborators to do.
type Effect struct {
	Reading models.ClassifiedReading `json:"reading"`
	Point   models.Point             `json:"point"`
	Badge   Badge                    `json:"badge"`
	Persist *models.HistoryRecord    `json:"persist,omitempty"`
	Alarm   *Alarm                   `json:"alarm,omitempty"`
}

// TickResult is the outcome of one liveness poll.
type TickResult struct {
	Transition Transition
	State      models.LivenessState
	Event      *models.MonitorEvent
	Alarm      *Alarm
}

// Snapshot is a read-only copy of reducer state for rendering.
type Snapshot struct {
	Points    []models.Point            `json:"points"`
	Liveness  models.LivenessState      `json:"liveness"`
	Last      *models.ClassifiedReading `json:"last,omitempty"`
	Badge     Badge                     `json:"badge"`
	Threshold models.ThresholdConfig    `json:"threshold"`
}

// Reducer turns a stream of readings into a bounded chart buffer, throttled
// persistence requests, alarms and liveness transitions. All methods are safe
// for concurrent use; each call runs to completion under one lock.
type Reducer struct {
	mu sync.Mutex

	cfg        Config
	clock      Clock
	thresholds *ThresholdStore
	buffer     *VisualizationBuffer
	liveness   *LivenessMonitor
	alarms     *AlarmLimiter

	persistedAny    bool
	lastPersistedAt time.Time
	last            *models.ClassifiedReading
}

// NewReducer builds a reducer reading the live band from thresholds.
func NewReducer(cfg Config, thresholds *ThresholdStore, clock Clock) *Reducer {
	cfg.applyDefaults()
	if clock == nil {
		clock = SystemClock{}
	}
	if thresholds == nil {
		thresholds = NewThresholdStore(models.ThresholdConfig{})
	}
	return &Reducer{
		cfg:        cfg,
		clock:      clock,
		thresholds: thresholds,
		buffer:     NewVisualizationBuffer(cfg.BufferSize),
		liveness:   NewLivenessMonitor(cfg.LivenessTimeout, clock.Now()),
		alarms:     NewAlarmLimiter(cfg.AlarmInterval, cfg.AlarmPulses, cfg.AlarmSpacing),
	}
}

// Thresholds exposes the live band store.
func (r *Reducer) Thresholds() *ThresholdStore { return r.thresholds }

// Ingest classifies a reading, buffers it and decides on persistence and alarms.
func (r *Reducer) Ingest(in models.Reading) (Effect, error) {
	if err := in.Validate(); err != nil {
		return Effect{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	class := r.thresholds.Classify(in.Temperature)
	cr := models.ClassifiedReading{Reading: in, Classification: class}

	r.liveness.Observe(now, in.SensorStatus)

	point := r.buffer.Append(models.Point{
		Timestamp:      in.Timestamp,
		Label:          time.UnixMilli(in.Timestamp).In(r.cfg.Location).Format(r.cfg.LabelLayout),
		Value:          in.Temperature,
		Classification: class,
	})

	eff := Effect{Reading: cr, Point: point, Badge: BadgeFor(class)}

	if r.shouldPersist(now) {
		r.persistedAny = true
		r.lastPersistedAt = now
		eff.Persist = &models.HistoryRecord{
			ID:             uuid.NewString(),
			Timestamp:      in.Timestamp,
			Temperature:    in.Temperature,
			Classification: r.persistClass(in.Temperature, class),
			Source:         models.SourceLive,
		}
	}

	if class == models.ClassCritical {
		eff.Alarm = r.alarms.Trigger(now)
	}

	r.last = &cr
	return eff, nil
}

// Observe refreshes liveness for a device message that carries no reading.
// An empty status keeps the last self-reported one.
func (r *Reducer) Observe(status models.SensorStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.liveness.Observe(r.clock.Now(), status)
}

// shouldPersist applies the one-slot throttle. Readings are never persisted
// while the stream is faulted.
func (r *Reducer) shouldPersist(now time.Time) bool {
	if r.liveness.Faulted() {
		return false
	}
	if !r.persistedAny {
		return true
	}
	return now.Sub(r.lastPersistedAt) >= r.cfg.PersistInterval
}

func (r *Reducer) persistClass(value float64, live models.Classification) models.Classification {
	if r.cfg.PersistBand == nil {
		return live
	}
	return Classify(value, *r.cfg.PersistBand)
}

// Tick evaluates liveness at the current clock time.
func (r *Reducer) Tick() TickResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	res := TickResult{Transition: r.liveness.Evaluate(now)}
	res.State = r.liveness.State()

	switch res.Transition {
	case TransitionFault:
		res.Event = &models.MonitorEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now.UTC(),
			Type:        models.EventFault,
			Description: "SENSOR INACTIVE",
			Metadata: map[string]any{
				"last_received_at": res.State.LastReceivedAt,
				"timeout_ms":       r.cfg.LivenessTimeout.Milliseconds(),
			},
		}
		res.Alarm = r.alarms.Trigger(now)
	case TransitionRestored:
		res.Event = &models.MonitorEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now.UTC(),
			Type:        models.EventRestored,
			Description: "Sensor connection restored",
			Metadata: map[string]any{
				"last_known_status": res.State.LastKnownStatus,
			},
		}
	}
	return res
}

// Snapshot returns copies of the buffer and state.
func (r *Reducer) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Points:    r.buffer.Points(),
		Liveness:  r.liveness.State(),
		Threshold: r.thresholds.Get(),
	}
	class := models.ClassUnconfigured
	if r.last != nil {
		last := *r.last
		snap.Last = &last
		class = last.Classification
	}
	snap.Badge = BadgeFor(class)
	return snap
}
