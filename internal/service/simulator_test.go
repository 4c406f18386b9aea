package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

type recordingMonitoring struct {
	mu       sync.Mutex
	readings []models.Reading
}

func (m *recordingMonitoring) Ingest(_ context.Context, r models.Reading) (telemetry.Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	return telemetry.Effect{}, nil
}

func (m *recordingMonitoring) Heartbeat(context.Context, models.SensorStatus) {}

func (m *recordingMonitoring) State(context.Context) MonitorState { return MonitorState{} }
func (m *recordingMonitoring) Series() telemetry.Series          { return telemetry.Series{} }

func (m *recordingMonitoring) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readings)
}

func TestSimulatorService_WalkStaysInBounds(t *testing.T) {
	t.Parallel()

	sim := NewSimulatorService(&recordingMonitoring{}, newFakeClock(), logger.Nop())
	sim.rnd = rand.New(rand.NewSource(42))

	prev := SimStartC
	for i := 0; i < 5000; i++ {
		r := sim.next()
		if r.Temperature < SimMinC || r.Temperature > SimMaxC {
			t.Fatalf("step %d: %v out of bounds", i, r.Temperature)
		}
		if d := r.Temperature - prev; d > SimStepC+1e-9 || d < -SimStepC-1e-9 {
			t.Fatalf("step %d drifted by %v", i, d)
		}
		if r.SensorStatus != models.StatusWorking || r.Humidity == nil {
			t.Fatalf("step %d: reading=%+v", i, r)
		}
		prev = r.Temperature
	}
}

func TestSimulatorService_RunFeedsMonitoring(t *testing.T) {
	t.Parallel()

	mon := &recordingMonitoring{}
	sim := NewSimulatorService(mon, newFakeClock(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for mon.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("simulator produced %d readings", mon.count())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}
