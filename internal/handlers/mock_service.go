package handlers

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/service"
	"container_monitor/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	mu         sync.Mutex
	state      service.MonitorState
	series     telemetry.Series
	ingestErr  error
	ingested   []models.Reading
	heartbeats []models.SensorStatus
}

func (m *mockMonitoring) Ingest(ctx context.Context, r models.Reading) (telemetry.Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested = append(m.ingested, r)
	if m.ingestErr != nil {
		return telemetry.Effect{}, m.ingestErr
	}
	return telemetry.Effect{Reading: models.ClassifiedReading{Reading: r, Classification: models.ClassNormal}}, nil
}

func (m *mockMonitoring) Heartbeat(ctx context.Context, status models.SensorStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heartbeats = append(m.heartbeats, status)
}

func (m *mockMonitoring) State(ctx context.Context) service.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockMonitoring) Series() telemetry.Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series
}

type mockThresholds struct {
	band   models.ThresholdConfig
	setErr error
	sets   int
}

func (m *mockThresholds) Restore(ctx context.Context) error { return nil }

func (m *mockThresholds) Get() models.ThresholdConfig { return m.band }

func (m *mockThresholds) Set(ctx context.Context, cfg models.ThresholdConfig) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.band = cfg
	return nil
}

func (m *mockThresholds) Clear(ctx context.Context) error {
	m.band = models.ThresholdConfig{}
	return nil
}

type mockHistory struct {
	view      service.HistoryView
	err       error
	lastQuery service.HistoryQuery
	exportCSV string
	cleared   int64
	live      []models.HistoryRecord
}

func (m *mockHistory) Query(ctx context.Context, q service.HistoryQuery) (service.HistoryView, error) {
	m.lastQuery = q
	return m.view, m.err
}

func (m *mockHistory) Export(ctx context.Context, from, to time.Time, w io.Writer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	_, err := io.WriteString(w, m.exportCSV)
	return strings.Count(m.exportCSV, "\n") - 1, err
}

func (m *mockHistory) Clear(ctx context.Context) (int64, error) { return m.cleared, m.err }

func (m *mockHistory) LiveAppend(r models.HistoryRecord) bool {
	m.live = append(m.live, r)
	return true
}

func (m *mockHistory) LiveSeries() []models.HistoryRecord { return m.live }

type mockImport struct {
	report  service.ImportReport
	err     error
	lastCSV string
}

func (m *mockImport) ImportCSV(ctx context.Context, r io.Reader) (service.ImportReport, error) {
	b, _ := io.ReadAll(r)
	m.lastCSV = string(b)
	return m.report, m.err
}

type mockEventLog struct {
	resp      []models.MonitorEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	exportCSV string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.MonitorEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

func (m *mockEventLog) ExportLog(ctx context.Context, f service.LogFilter, w io.Writer) (int, error) {
	m.lastType = f.Type
	if m.err != nil {
		return 0, m.err
	}
	_, err := io.WriteString(w, m.exportCSV)
	return 0, err
}

type mockMotion struct {
	state    telemetry.MotionState
	samples  []telemetry.MotionSample
	ackCalls int
}

func (m *mockMotion) Analyze(ctx context.Context, s telemetry.MotionSample) telemetry.MotionState {
	m.samples = append(m.samples, s)
	return m.state
}

func (m *mockMotion) Acknowledge(ctx context.Context) telemetry.MotionState {
	m.ackCalls++
	m.state.Shocked = false
	return m.state
}

func (m *mockMotion) State() telemetry.MotionState { return m.state }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
