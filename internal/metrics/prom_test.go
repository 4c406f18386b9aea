package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	p := NewProm()

	p.IncCounter(ReadingsIngested, 3)
	if got := testutil.ToFloat64(p.counters[ReadingsIngested]); got != 3 {
		t.Fatalf("expected ingested counter 3, got %f", got)
	}

	p.IncCounter(QueueDropped, 1)
	if got := testutil.ToFloat64(p.counters[QueueDropped]); got != 1 {
		t.Fatalf("expected drop counter 1, got %f", got)
	}

	p.SetGauge(FaultActive, 1)
	if got := testutil.ToFloat64(p.gauges[FaultActive]); got != 1 {
		t.Fatalf("expected fault gauge 1, got %f", got)
	}

	p.ObserveLatency(PersistLatency, 0.02)
	h := p.histos[PersistLatency].(prometheus.Collector)
	if samples := testutil.CollectAndCount(h); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	// unknown names are ignored
	p.IncCounter("nope", 1)
	p.SetGauge("nope", 1)

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Fatalf("gather: n=%d err=%v", n, err)
	}
}
