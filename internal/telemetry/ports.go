package telemetry

import (
	"context"
	"errors"
	"fmt"

	"container_monitor/internal/models"
)

// BatchWriter accepts up to one batch of records per call.
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []models.HistoryRecord) error
}

// PartialWriteError reports a WriteBatch that failed after some records of
// the batch were already stored. Stores that write a batch atomically never
// return it.
type PartialWriteError struct {
	Written int
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%d records written before failure: %v", e.Written, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// WrittenBefore returns how many records of a failed batch were stored.
func WrittenBefore(err error) int {
	var pe *PartialWriteError
	if errors.As(err, &pe) {
		return pe.Written
	}
	return 0
}

// HistoryStore is the persistent record store. Range results are unordered.
type HistoryStore interface {
	BatchWriter
	Append(ctx context.Context, r models.HistoryRecord) error
	Range(ctx context.Context, from, to int64) ([]models.HistoryRecord, error)
	Clear(ctx context.Context) (int64, error)
}
