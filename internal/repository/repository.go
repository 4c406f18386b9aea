package repository

import (
	"context"
	"database/sql"
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

// ThresholdRepo persists the operator-configured live band.
type ThresholdRepo interface {
	Save(ctx context.Context, cfg models.ThresholdConfig) error
	Load(ctx context.Context) (models.ThresholdConfig, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.MonitorEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.MonitorEvent, error)
}

type Repository struct {
	History    telemetry.HistoryStore
	Events     EventRepo
	Thresholds ThresholdRepo
}

// NewRepository backs everything with SQLite.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		History:    NewHistorySQLite(db),
		Events:     NewEventSQLite(db),
		Thresholds: NewThresholdSQLite(db),
	}
}

// WithHistory swaps the history backend, e.g. for DynamoDB.
func (r *Repository) WithHistory(h telemetry.HistoryStore) *Repository {
	r.History = h
	return r
}
