package service

import (
	"context"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

// MonitoringService applies reducer effects to the outside world. Store and
// backend calls happen after the reducer has returned and never feed back
// into its state.
type MonitoringService struct {
	reducer   *telemetry.Reducer
	queue     PersistQueue
	eventRepo repository.EventRepo
	publisher RecordPublisher
	motion    Motion
	obs       metrics.Observer
	log       *logger.Logger
}

func NewMonitoringService(
	reducer *telemetry.Reducer,
	queue PersistQueue,
	eventRepo repository.EventRepo,
	publisher RecordPublisher,
	motion Motion,
	obs metrics.Observer,
	log *logger.Logger,
) *MonitoringService {
	return &MonitoringService{
		reducer:   reducer,
		queue:     queue,
		eventRepo: eventRepo,
		publisher: publisher,
		motion:    motion,
		obs:       obs,
		log:       log,
	}
}

// Ingest runs one reading through the reducer and dispatches its effects.
func (s *MonitoringService) Ingest(ctx context.Context, r models.Reading) (telemetry.Effect, error) {
	eff, err := s.reducer.Ingest(r)
	if err != nil {
		s.obs.IncCounter(metrics.ReadingsRejected, 1)
		return telemetry.Effect{}, err
	}
	s.obs.IncCounter(metrics.ReadingsIngested, 1)
	s.obs.SetGauge(metrics.LastTemperature, r.Temperature)

	if eff.Persist != nil {
		if s.queue.Submit(ctx, *eff.Persist) {
			if err := s.publisher.PublishRecord(ctx, *eff.Persist); err != nil {
				s.log.Warnw("history_publish_failed", "id", eff.Persist.ID, "err", err)
			}
		}
	}

	if eff.Alarm != nil {
		s.obs.IncCounter(metrics.AlarmsRaised, 1)
		if err := s.eventRepo.Append(ctx, models.MonitorEvent{
			OccurredAt:  eff.Alarm.At.UTC(),
			Type:        models.EventAlarm,
			Description: "Temperature outside safe band",
			Metadata: map[string]any{
				"temperature": r.Temperature,
				"threshold":   s.reducer.Thresholds().Get(),
				"pulses":      eff.Alarm.Pulses,
				"spacing_ms":  eff.Alarm.Spacing.Milliseconds(),
			},
		}); err != nil {
			s.log.Errorw("alarm_event_write_failed", "err", err)
		}
	}
	return eff, nil
}

func (s *MonitoringService) Heartbeat(_ context.Context, status models.SensorStatus) {
	s.reducer.Observe(status)
}

// State returns the dashboard snapshot.
func (s *MonitoringService) State(_ context.Context) MonitorState {
	snap := s.reducer.Snapshot()
	st := MonitorState{
		Classification: models.ClassUnconfigured,
		Badge:          snap.Badge,
		Threshold:      snap.Threshold,
		Liveness:       snap.Liveness,
		Motion:         s.motion.State(),
		BufferLen:      len(snap.Points),
		QueueLen:       s.queue.Len(),
		UpdatedAt:      time.Now().UTC(),
	}
	if snap.Last != nil {
		temp := snap.Last.Temperature
		st.Temperature = &temp
		st.Humidity = snap.Last.Humidity
		st.Classification = snap.Last.Classification
	}
	return st
}

// Series renders the live buffer.
func (s *MonitoringService) Series() telemetry.Series {
	var out telemetry.Series
	_ = telemetry.RenderPoints(s.reducer.Snapshot().Points, &out)
	return out
}
