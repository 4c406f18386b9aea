package service

import (
	"context"
	"fmt"
	"sync"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

type MotionService struct {
	eventRepo repository.EventRepo
	clock     telemetry.Clock
	log       *logger.Logger

	mu       sync.Mutex
	analyzer telemetry.MotionAnalyzer
}

func NewMotionService(eventRepo repository.EventRepo, clock telemetry.Clock, log *logger.Logger) *MotionService {
	return &MotionService{eventRepo: eventRepo, clock: clock, log: log}
}

// Analyze folds one accelerometer sample in. A newly latched shock is logged
// as a SHOCK event.
func (s *MotionService) Analyze(ctx context.Context, sample telemetry.MotionSample) telemetry.MotionState {
	now := s.clock.Now()
	s.mu.Lock()
	st, shocked := s.analyzer.Analyze(sample, now)
	s.mu.Unlock()

	if shocked {
		s.log.Warnw("shock_detected", "force_g", st.MaxShockG, "device_flag", sample.ShockFlag)
		if err := s.eventRepo.Append(ctx, models.MonitorEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventShock,
			Description: fmt.Sprintf("Impact of %.2fg detected", st.MaxShockG),
			Metadata:    map[string]any{"x": sample.X, "y": sample.Y, "z": sample.Z, "device_flag": sample.ShockFlag},
		}); err != nil {
			s.log.Errorw("shock_event_write_failed", "err", err)
		}
	}
	return st
}

// Acknowledge clears a latched shock.
func (s *MotionService) Acknowledge(ctx context.Context) telemetry.MotionState {
	now := s.clock.Now()
	s.mu.Lock()
	prev := s.analyzer.State(now)
	s.analyzer.Acknowledge()
	st := s.analyzer.State(now)
	s.mu.Unlock()

	if prev.Shocked {
		if err := s.eventRepo.Append(ctx, models.MonitorEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventClear,
			Description: "Shock alert acknowledged",
			Metadata:    map[string]any{"max_shock_g": prev.MaxShockG},
		}); err != nil {
			s.log.Errorw("ack_event_write_failed", "err", err)
		}
	}
	return st
}

func (s *MotionService) State() telemetry.MotionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzer.State(s.clock.Now())
}
