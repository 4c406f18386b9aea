package telemetry

import (
	"reflect"
	"testing"
	"time"

	"container_monitor/internal/models"
)

func TestRenderPoints(t *testing.T) {
	var s Series
	pts := []models.Point{
		{ID: 1, Label: "10:00:00", Value: 7, Classification: models.ClassNormal},
		{ID: 2, Label: "10:00:01", Value: 30, Classification: models.ClassCritical},
	}
	if err := RenderPoints(pts, &s); err != nil {
		t.Fatalf("RenderPoints: %v", err)
	}
	if !reflect.DeepEqual(s.Labels, []string{"10:00:00", "10:00:01"}) || !reflect.DeepEqual(s.Values, []float64{7, 30}) {
		t.Fatalf("unexpected series %+v", s)
	}
	if s.Styles[1] != PointStyleFor(models.ClassCritical) {
		t.Fatalf("critical point not styled: %+v", s.Styles[1])
	}
}

func TestRenderRecords(t *testing.T) {
	var s Series
	ts := time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC).UnixMilli()
	recs := []models.HistoryRecord{{Timestamp: ts, Temperature: 9.5, Classification: models.ClassNormal}}

	if err := RenderRecords(recs, "02 Jan 15:04", time.UTC, &s); err != nil {
		t.Fatalf("RenderRecords: %v", err)
	}
	if s.Labels[0] != "25 Dec 14:30" || s.Values[0] != 9.5 {
		t.Fatalf("unexpected series %+v", s)
	}
}
