package models

import "time"

// Monitor event types.
const (
	EventFault           = "FAULT"
	EventRestored        = "RESTORED"
	EventAlarm           = "ALARM"
	EventThresholdChange = "THRESHOLD_CHANGE"
	EventImport          = "IMPORT"
	EventShock           = "SHOCK"
	EventClear           = "CLEAR"
)

// MonitorEvent is a single log entry.
type MonitorEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // FAULT | RESTORED | ALARM | THRESHOLD_CHANGE | IMPORT | SHOCK | CLEAR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
