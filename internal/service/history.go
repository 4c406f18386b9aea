package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

// Export layouts.
const (
	exportTimeLayout    = "2006-01-02 15:04:05"
	historyExportHeader = "Timestamp,Temperature,Status"
)

type HistoryService struct {
	store     telemetry.HistoryStore
	eventRepo repository.EventRepo
	cfg       HistoryConfig
	loc       *time.Location
	log       *logger.Logger

	mu   sync.Mutex
	live *telemetry.LiveSeries
}

func NewHistoryService(store telemetry.HistoryStore, eventRepo repository.EventRepo, cfg HistoryConfig, loc *time.Location, log *logger.Logger) *HistoryService {
	if cfg.MaxPoints <= 0 {
		cfg.MaxPoints = telemetry.DefaultBufferSize
	}
	if cfg.MinGap <= 0 {
		cfg.MinGap = telemetry.DefaultPersistInterval
	}
	if cfg.LabelLayout == "" {
		cfg.LabelLayout = "02 Jan 15:04"
	}
	return &HistoryService{
		store:     store,
		eventRepo: eventRepo,
		cfg:       cfg,
		loc:       loc,
		log:       log,
		live:      telemetry.NewLiveSeries(nil, cfg.MaxPoints, cfg.MinGap),
	}
}

// rangeMillis converts an optional [from, to] window to store bounds.
func rangeMillis(from, to time.Time) (int64, int64, error) {
	lo, hi := int64(0), int64(math.MaxInt64)
	if !from.IsZero() {
		lo = from.UnixMilli()
	}
	if !to.IsZero() {
		hi = to.UnixMilli()
	}
	if lo > hi {
		return 0, 0, errInvalidTimeRange
	}
	return lo, hi, nil
}

// Query reads the range, optionally keeps spikes only, and downsamples it.
// An open-ended query (no To) also reseeds the live series.
func (s *HistoryService) Query(ctx context.Context, q HistoryQuery) (HistoryView, error) {
	from, to, err := rangeMillis(q.From, q.To)
	if err != nil {
		return HistoryView{}, err
	}
	maxPoints, minGap := q.MaxPoints, q.MinGap
	if maxPoints <= 0 {
		maxPoints = s.cfg.MaxPoints
	}
	if minGap <= 0 {
		minGap = s.cfg.MinGap
	}

	records, err := s.store.Range(ctx, from, to)
	if err != nil {
		return HistoryView{}, fmt.Errorf("read history: %w", err)
	}
	if q.SpikesOnly {
		records = criticalOnly(records)
	}

	selected := telemetry.Downsample(records, maxPoints, minGap)
	view := HistoryView{Records: selected, Total: len(records)}
	_ = telemetry.RenderRecords(selected, s.cfg.LabelLayout, s.loc, &view.Series)

	if q.To.IsZero() && !q.SpikesOnly {
		s.mu.Lock()
		s.live = telemetry.NewLiveSeries(selected, maxPoints, minGap)
		s.mu.Unlock()
	}
	return view, nil
}

func criticalOnly(records []models.HistoryRecord) []models.HistoryRecord {
	out := records[:0:0]
	for _, r := range records {
		if r.Classification == models.ClassCritical {
			out = append(out, r)
		}
	}
	return out
}

// Export writes the range as Timestamp,Temperature,Status rows, oldest first,
// and returns the number of data rows written.
func (s *HistoryService) Export(ctx context.Context, from, to time.Time, w io.Writer) (int, error) {
	lo, hi, err := rangeMillis(from, to)
	if err != nil {
		return 0, err
	}
	records, err := s.store.Range(ctx, lo, hi)
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}
	telemetry.SortRecords(records)

	if _, err := io.WriteString(w, historyExportHeader+"\n"); err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	for _, r := range records {
		if err := cw.Write([]string{
			r.Time(s.loc).Format(exportTimeLayout),
			strconv.FormatFloat(r.Temperature, 'f', 2, 64),
			string(r.Classification),
		}); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(records), cw.Error()
}

// Clear deletes all history and resets the live series.
func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	s.mu.Lock()
	s.live = telemetry.NewLiveSeries(nil, s.cfg.MaxPoints, s.cfg.MinGap)
	s.mu.Unlock()

	if err := s.eventRepo.Append(ctx, models.MonitorEvent{
		Type:        models.EventClear,
		Description: "History cleared",
		Metadata:    map[string]any{"deleted": n},
	}); err != nil {
		s.log.Errorw("clear_event_write_failed", "err", err)
	}
	return n, nil
}

// LiveAppend offers a freshly persisted record to the live series.
func (s *HistoryService) LiveAppend(r models.HistoryRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Append(r)
}

// LiveSeries returns the rendered live history sequence.
func (s *HistoryService) LiveSeries() []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Points()
}
