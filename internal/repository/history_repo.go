package repository

import (
	"context"
	"database/sql"
	"fmt"

	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"

	"github.com/google/uuid"
)

// MaxBatchSize is the per-transaction write limit.
const MaxBatchSize = telemetry.DefaultImportBatchSize

const (
	insertHistorySQL = `
		INSERT OR IGNORE INTO history_records (id, ts, temperature, classification, source)
		VALUES (?, ?, ?, ?, ?)
	`

	selectHistoryRangeSQL = `
		SELECT id, ts, temperature, classification, source
		FROM history_records WHERE ts >= ? AND ts <= ?
	`

	deleteHistorySQL = `DELETE FROM history_records`
)

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite { return &HistorySQLite{db: db} }

func recordArgs(r models.HistoryRecord) []any {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Source == "" {
		r.Source = models.SourceLive
	}
	return []any{r.ID, r.Timestamp, r.Temperature, string(r.Classification), r.Source}
}

// WriteBatch inserts records in one transaction. Either all rows land or none do.
func (r *HistorySQLite) WriteBatch(ctx context.Context, records []models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) > MaxBatchSize {
		return fmt.Errorf("batch of %d exceeds limit %d", len(records), MaxBatchSize)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertHistorySQL)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, recordArgs(rec)...); err != nil {
			return fmt.Errorf("insert history row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history batch: %w", err)
	}
	return nil
}

// Append inserts a single record.
func (r *HistorySQLite) Append(ctx context.Context, rec models.HistoryRecord) error {
	if _, err := r.db.ExecContext(ctx, insertHistorySQL, recordArgs(rec)...); err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

// Range returns records with from <= ts <= to, in no particular order.
func (r *HistorySQLite) Range(ctx context.Context, from, to int64) ([]models.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectHistoryRangeSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("query history range: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoryRecord, 0, 256)
	for rows.Next() {
		var (
			rec   models.HistoryRecord
			class string
		)
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Temperature, &class, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.Classification = models.Classification(class)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes every record and returns how many were removed.
func (r *HistorySQLite) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteHistorySQL)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear history rows affected: %w", err)
	}
	return n, nil
}

var _ telemetry.HistoryStore = (*HistorySQLite)(nil)
