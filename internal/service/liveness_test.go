package service

import (
	"context"
	"testing"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

func TestLivenessService_PollRecordsTransitions(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	reducer := telemetry.NewReducer(telemetry.Config{}, nil, clock)
	events := &memEventRepo{}
	obs := newCountingObs()
	svc := NewLivenessService(reducer, events, obs, logger.Nop())
	ctx := context.Background()

	if _, err := reducer.Ingest(models.Reading{Timestamp: clock.Now().UnixMilli(), Temperature: 5, SensorStatus: models.StatusWorking}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	clock.Advance(2 * time.Second)
	if res := svc.poll(ctx); res.Transition != telemetry.TransitionNone {
		t.Fatalf("transition at 2s=%v", res.Transition)
	}

	clock.Advance(1500 * time.Millisecond)
	if res := svc.poll(ctx); res.Transition != telemetry.TransitionFault {
		t.Fatalf("transition at 3.5s=%v; want fault", res.Transition)
	}
	clock.Advance(500 * time.Millisecond)
	svc.poll(ctx)

	if got := events.ofType(models.EventFault); len(got) != 1 {
		t.Fatalf("fault events=%d; want exactly 1", len(got))
	}
	if obs.gauge(metrics.FaultActive) != 1 || obs.counter(metrics.FaultTransitions) != 1 {
		t.Fatalf("fault metrics not set: %+v %+v", obs.counters, obs.gauges)
	}
	if obs.counter(metrics.AlarmsRaised) != 1 {
		t.Fatalf("fault should raise one alarm")
	}

	if _, err := reducer.Ingest(models.Reading{Timestamp: clock.Now().UnixMilli(), Temperature: 5, SensorStatus: models.StatusWorking}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res := svc.poll(ctx); res.Transition != telemetry.TransitionRestored {
		t.Fatalf("transition after reading=%v; want restored", res.Transition)
	}
	if len(events.ofType(models.EventRestored)) != 1 || obs.gauge(metrics.FaultActive) != 0 {
		t.Fatalf("restore not recorded")
	}
}

func TestLivenessService_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	svc := NewLivenessService(telemetry.NewReducer(telemetry.Config{}, nil, newFakeClock()), &memEventRepo{}, metrics.Nop{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
