package service

import (
	"context"
	"io"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

// Monitoring ingests live readings and exposes the reducer's view of them.
type Monitoring interface {
	Ingest(ctx context.Context, r models.Reading) (telemetry.Effect, error)
	// Heartbeat refreshes liveness for a device message without a temperature.
	Heartbeat(ctx context.Context, status models.SensorStatus)
	State(ctx context.Context) MonitorState
	Series() telemetry.Series
}

// Thresholds manages the operator-configured live band.
type Thresholds interface {
	Restore(ctx context.Context) error
	Get() models.ThresholdConfig
	Set(ctx context.Context, cfg models.ThresholdConfig) error
	Clear(ctx context.Context) error
}

// Liveness polls the reducer for fault/restore transitions.
// Stop via context cancellation.
type Liveness interface {
	Run(ctx context.Context, tick time.Duration)
}

// History serves persisted records for range views and export.
type History interface {
	Query(ctx context.Context, q HistoryQuery) (HistoryView, error)
	Export(ctx context.Context, from, to time.Time, w io.Writer) (int, error)
	Clear(ctx context.Context) (int64, error)
	LiveAppend(r models.HistoryRecord) bool
	LiveSeries() []models.HistoryRecord
}

// Import runs the bulk CSV pipeline.
type Import interface {
	ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.MonitorEvent, error)
	ExportLog(ctx context.Context, f LogFilter, w io.Writer) (int, error)
}

// Motion tracks shock and tilt from accelerometer samples.
type Motion interface {
	Analyze(ctx context.Context, s telemetry.MotionSample) telemetry.MotionState
	Acknowledge(ctx context.Context) telemetry.MotionState
	State() telemetry.MotionState
}

// Simulator feeds synthetic readings when no device is attached.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// PersistQueue takes records off the ingest path.
type PersistQueue interface {
	Submit(ctx context.Context, r models.HistoryRecord) bool
	Len() int
}

// RecordPublisher announces records accepted for persistence.
type RecordPublisher interface {
	PublishRecord(ctx context.Context, r models.HistoryRecord) error
}

// Service aggregates all sub-services.
type Service struct {
	Monitoring
	Thresholds
	Liveness
	History
	Import
	EventLog
	Motion
	Simulator
}

// Deps is everything NewService needs beyond the repositories.
type Deps struct {
	Reducer    *telemetry.Reducer
	Importer   *telemetry.Importer
	Queue      PersistQueue
	Publisher  RecordPublisher // nil: append straight to the local live series
	Metrics    metrics.Observer
	Log        *logger.Logger
	Clock      telemetry.Clock
	Location   *time.Location
	HistoryCfg HistoryConfig
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, d Deps) *Service {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = telemetry.SystemClock{}
	}
	if d.Location == nil {
		d.Location = time.Local
	}

	history := NewHistoryService(repos.History, repos.Events, d.HistoryCfg, d.Location, d.Log)
	if d.Publisher == nil {
		d.Publisher = LocalPublisher{History: history}
	}
	motion := NewMotionService(repos.Events, d.Clock, d.Log)
	monitoring := NewMonitoringService(d.Reducer, d.Queue, repos.Events, d.Publisher, motion, d.Metrics, d.Log)

	return &Service{
		Monitoring: monitoring,
		Thresholds: NewThresholdService(d.Reducer.Thresholds(), repos.Thresholds, repos.Events, d.Log),
		Liveness:   NewLivenessService(d.Reducer, repos.Events, d.Metrics, d.Log),
		History:    history,
		Import:     NewImportService(d.Importer, repos.History, repos.Events, d.Metrics, d.Log),
		EventLog:   NewEventLogService(repos.Events, repos.History, d.Location),
		Motion:     motion,
		Simulator:  NewSimulatorService(monitoring, d.Clock, d.Log),
	}
}

// LocalPublisher feeds persisted records straight into the live history series.
type LocalPublisher struct {
	History interface{ LiveAppend(models.HistoryRecord) bool }
}

func (p LocalPublisher) PublishRecord(_ context.Context, r models.HistoryRecord) error {
	p.History.LiveAppend(r)
	return nil
}
