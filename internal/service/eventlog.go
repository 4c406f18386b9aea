package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

const logExportHeader = "Timestamp,Metric,Reading,Status,Action Taken"

type EventLogService struct {
	eventRepo repository.EventRepo
	history   telemetry.HistoryStore
	loc       *time.Location
}

func NewEventLogService(eventRepo repository.EventRepo, history telemetry.HistoryStore, loc *time.Location) *EventLogService {
	if loc == nil {
		loc = time.Local
	}
	return &EventLogService{eventRepo: eventRepo, history: history, loc: loc}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.MonitorEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

type logRow struct {
	at     time.Time
	fields [4]string // metric, reading, status, action
}

// ExportLog writes the operator log: one row per persisted temperature
// record plus one per sensor fault, newest first. A type filter other than
// FAULT drops the temperature rows.
func (s *EventLogService) ExportLog(ctx context.Context, f LogFilter, w io.Writer) (int, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return 0, err
	}

	var rows []logRow
	if typ == "" || typ == models.EventFault {
		faults, err := s.eventRepo.List(ctx, from, to, models.EventFault)
		if err != nil {
			return 0, fmt.Errorf("list faults: %w", err)
		}
		for _, e := range faults {
			rows = append(rows, logRow{
				at:     e.OccurredAt,
				fields: [4]string{"Connectivity", "No Signal", "FAULT", "Alert & Popup Triggered"},
			})
		}
	}
	if typ == "" {
		lo, hi, err := rangeMillis(from, to)
		if err != nil {
			return 0, err
		}
		records, err := s.history.Range(ctx, lo, hi)
		if err != nil {
			return 0, fmt.Errorf("read history: %w", err)
		}
		for _, r := range records {
			rows = append(rows, temperatureRow(r))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.After(rows[j].at) })

	if _, err := io.WriteString(w, logExportHeader+"\n"); err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	for _, row := range rows {
		rec := append([]string{row.at.In(s.loc).Format(exportTimeLayout)}, row.fields[:]...)
		if err := cw.Write(rec); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(rows), cw.Error()
}

func temperatureRow(r models.HistoryRecord) logRow {
	status, action := "NORMAL", "-"
	switch r.Classification {
	case models.ClassCritical:
		status, action = "BREACH", "System alert triggered"
	case models.ClassUnconfigured:
		status = string(models.ClassUnconfigured)
	}
	return logRow{
		at:     time.UnixMilli(r.Timestamp),
		fields: [4]string{"Internal Temp", fmt.Sprintf("%.1f°C", r.Temperature), status, action},
	}
}
