package service

import (
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

// LogFilter narrows the event log by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "FAULT", "RESTORED", "ALARM", ...
}

// HistoryQuery selects and downsamples a range of persisted records.
type HistoryQuery struct {
	From       time.Time
	To         time.Time
	MaxPoints  int           // 0 uses the configured default
	MinGap     time.Duration // 0 uses the configured default
	SpikesOnly bool          // keep CRITICAL records only
}

// HistoryView is a downsampled range ready for charting.
type HistoryView struct {
	Records []models.HistoryRecord `json:"records"`
	Series  telemetry.Series       `json:"series"`
	Total   int                    `json:"total"` // records in range before downsampling
}

// HistoryConfig holds history view defaults.
type HistoryConfig struct {
	MaxPoints   int
	MinGap      time.Duration
	LabelLayout string
}

// ImportReport summarises one CSV upload.
type ImportReport struct {
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Committed int `json:"committed"`
}

// MonitorState is the dashboard snapshot.
type MonitorState struct {
	Temperature    *float64               `json:"temperature,omitempty"`
	Humidity       *float64               `json:"humidity,omitempty"`
	Classification models.Classification  `json:"classification"`
	Badge          telemetry.Badge        `json:"badge"`
	Threshold      models.ThresholdConfig `json:"threshold"`
	Liveness       models.LivenessState   `json:"liveness"`
	Motion         telemetry.MotionState  `json:"motion"`
	BufferLen      int                    `json:"buffer_len"`
	QueueLen       int                    `json:"queue_len"`
	UpdatedAt      time.Time              `json:"updated_at"`
}
