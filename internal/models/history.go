package models

import "time"

// Record sources.
const (
	SourceLive   = "live"
	SourceImport = "import"
)

// HistoryRecord is a persisted, classification-frozen reading.
type HistoryRecord struct {
	ID             string         `json:"id"`
	Timestamp      int64          `json:"timestamp"` // epoch ms
	Temperature    float64        `json:"temperature"`
	Classification Classification `json:"status"`
	Source         string         `json:"source,omitempty"`
}

// Time returns the record timestamp as a time.Time in loc.
func (r HistoryRecord) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(r.Timestamp).In(loc)
}

// Point is one entry of the visualization buffer.
type Point struct {
	ID             uint64         `json:"id"`
	Timestamp      int64          `json:"timestamp"`
	Label          string         `json:"label"`
	Value          float64        `json:"value"`
	Classification Classification `json:"classification"`
}

// LivenessState is the recency-based health of the reading stream plus the
// device's own last report. The two are never merged.
type LivenessState struct {
	LastReceivedAt  int64        `json:"last_received_at"` // epoch ms, 0 when nothing received
	FaultActive     bool         `json:"fault_active"`
	LastKnownStatus SensorStatus `json:"last_known_status"`
}
