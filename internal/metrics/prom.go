package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	ReadingsIngested = "monitor_readings_ingested_total"
	ReadingsRejected = "monitor_readings_rejected_total"
	RecordsPersisted = "monitor_records_persisted_total"
	PersistFailures  = "monitor_persist_failures_total"
	QueueDropped     = "monitor_persist_queue_dropped_total"
	AlarmsRaised     = "monitor_alarms_total"
	FaultTransitions = "monitor_fault_transitions_total"
	ImportAccepted   = "monitor_import_rows_accepted_total"
	ImportRejected   = "monitor_import_rows_rejected_total"
	QueueLength      = "monitor_persist_queue_length"
	FaultActive      = "monitor_fault_active"
	LastTemperature  = "monitor_last_temperature_celsius"
	PersistLatency   = "monitor_persist_batch_latency_seconds"
)

// Observer is what the pipeline reports into.
type Observer interface {
	IncCounter(name string, v float64)
	SetGauge(name string, v float64)
	ObserveLatency(name string, seconds float64)
}

// Prom registers the monitor's collectors with the default registerer.
type Prom struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewProm() *Prom {
	p := &Prom{
		counters: map[string]prometheus.Counter{},
		gauges:   map[string]prometheus.Gauge{},
		histos:   map[string]prometheus.Observer{},
	}

	counters := map[string]string{
		ReadingsIngested: "Readings accepted by the stream reducer.",
		ReadingsRejected: "Readings rejected before classification.",
		RecordsPersisted: "History records written to the store.",
		PersistFailures:  "History records the store refused.",
		QueueDropped:     "Records lost to the persist queue's drop policy.",
		AlarmsRaised:     "Audible alarm requests let through the limiter.",
		FaultTransitions: "Times the stream entered FAULT.",
		ImportAccepted:   "CSV rows accepted by the bulk importer.",
		ImportRejected:   "CSV rows rejected by the bulk importer.",
	}
	gauges := map[string]string{
		QueueLength:     "Records waiting in the persist queue.",
		FaultActive:     "1 while the stream is faulted.",
		LastTemperature: "Temperature of the most recent reading.",
	}

	var cs []prometheus.Collector
	for name, help := range counters {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
		p.counters[name] = c
		cs = append(cs, c)
	}
	for name, help := range gauges {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
		p.gauges[name] = g
		cs = append(cs, g)
	}
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    PersistLatency,
		Help:    "Time to commit one batch of history records.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	p.histos[PersistLatency] = latency
	cs = append(cs, latency)

	prometheus.MustRegister(cs...)
	return p
}

func (p *Prom) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *Prom) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *Prom) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncCounter(string, float64)     {}
func (Nop) SetGauge(string, float64)       {}
func (Nop) ObserveLatency(string, float64) {}

var (
	_ Observer = (*Prom)(nil)
	_ Observer = Nop{}
)
