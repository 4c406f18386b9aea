package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"container_monitor/internal/models"
)

type ThresholdSQLite struct {
	db *sql.DB
}

func NewThresholdSQLite(db *sql.DB) *ThresholdSQLite {
	return &ThresholdSQLite{db: db}
}

const (
	thresholdRowID = 1

	upsertThresholdSQL = `
		INSERT INTO threshold_config (id, min_c, max_c, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			min_c=excluded.min_c,
			max_c=excluded.max_c,
			updated_at=excluded.updated_at
	`

	selectThresholdSQL = `SELECT min_c, max_c FROM threshold_config WHERE id=?`
)

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// Save upserts the single threshold row. Unset bounds are stored as NULL.
func (r *ThresholdSQLite) Save(ctx context.Context, cfg models.ThresholdConfig) error {
	_, err := r.db.ExecContext(ctx, upsertThresholdSQL,
		thresholdRowID,
		nullable(cfg.Min),
		nullable(cfg.Max),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save thresholds: %w", err)
	}
	return nil
}

// Load returns the stored band, or an unconfigured band when none was saved.
func (r *ThresholdSQLite) Load(ctx context.Context) (models.ThresholdConfig, error) {
	var lo, hi sql.NullFloat64
	err := r.db.QueryRowContext(ctx, selectThresholdSQL, thresholdRowID).Scan(&lo, &hi)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ThresholdConfig{}, nil
		}
		return models.ThresholdConfig{}, fmt.Errorf("load thresholds: %w", err)
	}
	return models.ThresholdConfig{Min: fromNullable(lo), Max: fromNullable(hi)}, nil
}
