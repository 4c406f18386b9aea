package telemetry

import (
	"time"

	"container_monitor/internal/models"
)

// Surface is a chart that accepts a whole series and redraws on request.
type Surface interface {
	SetSeries(labels []string, values []float64, styles []PointStyle)
	Redraw() error
}

// RenderPoints pushes live buffer points to s and redraws it.
func RenderPoints(points []models.Point, s Surface) error {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	styles := make([]PointStyle, len(points))
	for i, p := range points {
		labels[i] = p.Label
		values[i] = p.Value
		styles[i] = PointStyleFor(p.Classification)
	}
	s.SetSeries(labels, values, styles)
	return s.Redraw()
}

// RenderRecords pushes history records to s, labelled with layout in loc.
func RenderRecords(records []models.HistoryRecord, layout string, loc *time.Location, s Surface) error {
	labels := make([]string, len(records))
	values := make([]float64, len(records))
	styles := make([]PointStyle, len(records))
	for i, r := range records {
		labels[i] = r.Time(loc).Format(layout)
		values[i] = r.Temperature
		styles[i] = PointStyleFor(r.Classification)
	}
	s.SetSeries(labels, values, styles)
	return s.Redraw()
}

// Series is a surface that simply keeps the last series it was given.
type Series struct {
	Labels []string     `json:"labels"`
	Values []float64    `json:"values"`
	Styles []PointStyle `json:"point_styles"`
}

func (s *Series) SetSeries(labels []string, values []float64, styles []PointStyle) {
	s.Labels, s.Values, s.Styles = labels, values, styles
}

func (s *Series) Redraw() error { return nil }
