package service

import (
	"context"
	"math/rand"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

// ----------- Simulation constants -----------
const (
	SimStartC    = 5.4  // initial reading °C
	SimStepC     = 0.1  // max drift per tick °C
	SimMinC      = 4.8  // lower clamp °C
	SimMaxC      = 6.0  // upper clamp °C
	SimHumidity  = 62.0 // %RH
	SimHumStepPc = 0.5
)

// SimulatorService feeds a drifting reefer temperature into Monitoring.
type SimulatorService struct {
	monitoring Monitoring
	clock      telemetry.Clock
	log        *logger.Logger
	rnd        *rand.Rand

	tempC    float64
	humidity float64
}

// NewSimulatorService returns a simulator with defaults.
func NewSimulatorService(monitoring Monitoring, clock telemetry.Clock, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		monitoring: monitoring,
		clock:      clock,
		log:        log,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		tempC:      SimStartC,
		humidity:   SimHumidity,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.monitoring.Ingest(ctx, s.next()); err != nil {
				s.log.Warnw("simulated_reading_rejected", "err", err)
			}
		}
	}
}

// next advances the random walk by one step.
func (s *SimulatorService) next() models.Reading {
	s.tempC = clamp(s.tempC+(s.rnd.Float64()*2-1)*SimStepC, SimMinC, SimMaxC)
	s.humidity = clamp(s.humidity+(s.rnd.Float64()*2-1)*SimHumStepPc, 0, 100)
	hum := s.humidity
	return models.Reading{
		Timestamp:    s.clock.Now().UnixMilli(),
		Temperature:  s.tempC,
		Humidity:     &hum,
		SensorStatus: models.StatusWorking,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
