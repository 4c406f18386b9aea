package queue

import (
	"context"
	"fmt"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

// Defaults.
const (
	DefaultCapacity  = 1024
	DefaultIdleSleep = 5 * time.Millisecond
)

// Policy bounds the persist path.
type Policy struct {
	Capacity     int
	MaxBatchSize int
	IdleSleep    time.Duration
}

func (p *Policy) applyDefaults() {
	if p.Capacity <= 0 {
		p.Capacity = DefaultCapacity
	}
	if p.MaxBatchSize <= 0 || p.MaxBatchSize > telemetry.DefaultImportBatchSize {
		p.MaxBatchSize = telemetry.DefaultImportBatchSize
	}
	if p.IdleSleep <= 0 {
		p.IdleSleep = DefaultIdleSleep
	}
}

// Persister decouples reducer persist requests from store writes. Submit
// never touches the store; Run drains the queue in batches.
type Persister struct {
	q     *MemQueue
	store telemetry.BatchWriter
	pol   Policy
	obs   metrics.Observer
	log   *logger.Logger
}

func NewPersister(store telemetry.BatchWriter, pol Policy, obs metrics.Observer, log *logger.Logger) *Persister {
	pol.applyDefaults()
	if obs == nil {
		obs = metrics.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Persister{
		q:     NewMemQueue(pol.Capacity),
		store: store,
		pol:   pol,
		obs:   obs,
		log:   log,
	}
}

// Submit enqueues r and reports whether it was accepted. It never waits:
// a full queue drops the record and counts it.
func (p *Persister) Submit(_ context.Context, r models.HistoryRecord) bool {
	if !p.q.Enqueue(r) {
		p.drop(fmt.Errorf("queue length exceeded capacity %d", p.pol.Capacity))
		return false
	}
	p.obs.SetGauge(metrics.QueueLength, float64(p.q.Len()))
	return true
}

func (p *Persister) drop(err error) {
	p.obs.IncCounter(metrics.QueueDropped, 1)
	p.log.Warnw("persist queue dropped record", "err", err)
}

// Len is the number of records waiting.
func (p *Persister) Len() int { return p.q.Len() }

// Start runs the persister in its own goroutine. The returned channel is
// closed once Run has flushed the queue after ctx is done.
func (p *Persister) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()
	return done
}

// Run drains the queue until ctx is done, then flushes what is left.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.flush(context.WithoutCancel(ctx))
			return
		default:
		}

		if p.drainOnce(ctx) == 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.pol.IdleSleep):
			}
		}
	}
}

func (p *Persister) flush(ctx context.Context) {
	for p.drainOnce(ctx) > 0 {
	}
}

// drainOnce writes one batch and returns how many records it took off the queue.
func (p *Persister) drainOnce(ctx context.Context) int {
	batch := p.q.DequeueBatch(p.pol.MaxBatchSize)
	if len(batch) == 0 {
		return 0
	}
	p.obs.SetGauge(metrics.QueueLength, float64(p.q.Len()))

	start := time.Now()
	if err := p.store.WriteBatch(ctx, batch); err != nil {
		p.obs.IncCounter(metrics.PersistFailures, float64(len(batch)))
		p.log.Errorw("persist batch failed", "records", len(batch), "err", err)
		return len(batch)
	}
	p.obs.ObserveLatency(metrics.PersistLatency, time.Since(start).Seconds())
	p.obs.IncCounter(metrics.RecordsPersisted, float64(len(batch)))
	return len(batch)
}
