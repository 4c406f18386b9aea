package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"container_monitor/internal/models"
)

// memEventRepo is an in-memory repository.EventRepo.
type memEventRepo struct {
	mu     sync.Mutex
	events []models.MonitorEvent
	err    error

	// captured List inputs
	gotFrom time.Time
	gotTo   time.Time
	gotType string
	calls   int
}

func (r *memEventRepo) Append(_ context.Context, e models.MonitorEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.MonitorEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.gotFrom, r.gotTo, r.gotType = from, to, typ
	if r.err != nil {
		return nil, r.err
	}
	var out []models.MonitorEvent
	for _, e := range r.events {
		if typ != "" && e.Type != typ {
			continue
		}
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memEventRepo) ofType(typ string) []models.MonitorEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MonitorEvent
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// memHistory is an in-memory telemetry.HistoryStore.
type memHistory struct {
	mu      sync.Mutex
	records []models.HistoryRecord
	batches []int
	failAt  int // 1-based batch number that fails; 0 never
	err     error
}

func (h *memHistory) WriteBatch(_ context.Context, rs []models.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failAt > 0 && len(h.batches)+1 == h.failAt {
		return errors.New("batch rejected")
	}
	h.batches = append(h.batches, len(rs))
	h.records = append(h.records, rs...)
	return nil
}

func (h *memHistory) Append(_ context.Context, r models.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *memHistory) Range(_ context.Context, from, to int64) ([]models.HistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	var out []models.HistoryRecord
	for _, r := range h.records {
		if r.Timestamp >= from && r.Timestamp <= to {
			out = append(out, r)
		}
	}
	// Range results are unordered; reverse to make sure callers sort.
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (h *memHistory) Clear(context.Context) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := int64(len(h.records))
	h.records = nil
	return n, nil
}

// memThresholdRepo is an in-memory repository.ThresholdRepo.
type memThresholdRepo struct {
	saved   models.ThresholdConfig
	saveErr error
	saves   int
}

func (r *memThresholdRepo) Save(_ context.Context, cfg models.ThresholdConfig) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.saved = cfg.Clone()
	return nil
}

func (r *memThresholdRepo) Load(context.Context) (models.ThresholdConfig, error) {
	return r.saved.Clone(), nil
}

// stubQueue is a PersistQueue that records submissions.
type stubQueue struct {
	mu        sync.Mutex
	submitted []models.HistoryRecord
	refuse    bool
}

func (q *stubQueue) Submit(_ context.Context, r models.HistoryRecord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.refuse {
		return false
	}
	q.submitted = append(q.submitted, r)
	return true
}

func (q *stubQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.submitted)
}

// stubPublisher records published records.
type stubPublisher struct {
	published []models.HistoryRecord
	err       error
}

func (p *stubPublisher) PublishRecord(_ context.Context, r models.HistoryRecord) error {
	p.published = append(p.published, r)
	return p.err
}

// countingObs is a metrics.Observer that sums counters and keeps the last gauge value.
type countingObs struct {
	mu       sync.Mutex
	counters map[string]float64
	gauges   map[string]float64
}

func newCountingObs() *countingObs {
	return &countingObs{counters: map[string]float64{}, gauges: map[string]float64{}}
}

func (o *countingObs) IncCounter(name string, v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counters[name] += v
}

func (o *countingObs) SetGauge(name string, v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gauges[name] = v
}

func (o *countingObs) ObserveLatency(string, float64) {}

func (o *countingObs) counter(name string) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counters[name]
}

func (o *countingObs) gauge(name string) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gauges[name]
}

// fakeClock is a manually advanced telemetry.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func f64(v float64) *float64 { return &v }

func rec(id string, ts int64, temp float64, class models.Classification) models.HistoryRecord {
	return models.HistoryRecord{ID: id, Timestamp: ts, Temperature: temp, Classification: class, Source: models.SourceLive}
}
