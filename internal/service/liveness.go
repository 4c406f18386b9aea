package service

import (
	"context"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

// DefaultPollInterval is how often liveness is evaluated.
const DefaultPollInterval = 500 * time.Millisecond

type LivenessService struct {
	reducer   *telemetry.Reducer
	eventRepo repository.EventRepo
	obs       metrics.Observer
	log       *logger.Logger
}

func NewLivenessService(reducer *telemetry.Reducer, eventRepo repository.EventRepo, obs metrics.Observer, log *logger.Logger) *LivenessService {
	return &LivenessService{reducer: reducer, eventRepo: eventRepo, obs: obs, log: log}
}

// Run polls at the given interval until ctx is canceled.
func (s *LivenessService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultPollInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.poll(ctx)
		}
	}
}

// poll evaluates liveness once and records any transition.
func (s *LivenessService) poll(ctx context.Context) telemetry.TickResult {
	res := s.reducer.Tick()

	switch res.Transition {
	case telemetry.TransitionFault:
		s.obs.IncCounter(metrics.FaultTransitions, 1)
		s.obs.SetGauge(metrics.FaultActive, 1)
		s.log.Warnw("sensor_inactive", "last_received_at", res.State.LastReceivedAt)
		if res.Alarm != nil {
			s.obs.IncCounter(metrics.AlarmsRaised, 1)
		}
	case telemetry.TransitionRestored:
		s.obs.SetGauge(metrics.FaultActive, 0)
		s.log.Infow("sensor_restored", "last_known_status", res.State.LastKnownStatus)
	}

	if res.Event != nil {
		if err := s.eventRepo.Append(ctx, *res.Event); err != nil {
			s.log.Errorw("liveness_event_write_failed", "type", res.Event.Type, "err", err)
		}
	}
	return res
}
