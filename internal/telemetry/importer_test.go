package telemetry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"container_monitor/internal/models"
)

type batchRecorder struct {
	batches [][]models.HistoryRecord
	failOn  int // 1-based call number to fail on, 0 = never
	partial int // records of the failing call reported as stored
}

func (b *batchRecorder) WriteBatch(_ context.Context, records []models.HistoryRecord) error {
	if b.failOn > 0 && len(b.batches)+1 == b.failOn {
		if b.partial > 0 {
			return &PartialWriteError{Written: b.partial, Err: errors.New("chunk rejected")}
		}
		return errors.New("transaction rejected")
	}
	cp := make([]models.HistoryRecord, len(records))
	copy(cp, records)
	b.batches = append(b.batches, cp)
	return nil
}

func TestImporter_ParseHeaderAndRejects(t *testing.T) {
	im := NewImporter(DefaultImportBand(), 0, time.UTC)
	res := im.Parse("timestamp,temperature\n25-12-2024,7.5\nbad,line\n26-12-2024,4.0")

	if len(res.Accepted) != 2 || res.Rejected != 1 {
		t.Fatalf("accepted=%d rejected=%d, want 2/1", len(res.Accepted), res.Rejected)
	}
	if res.Accepted[0].Temperature != 7.5 || res.Accepted[1].Temperature != 4.0 {
		t.Fatalf("unexpected temperatures: %+v", res.Accepted)
	}
	if res.Accepted[0].Classification != models.ClassNormal {
		t.Fatalf("7.5 within 6..12 should be NORMAL, got %s", res.Accepted[0].Classification)
	}
	if res.Accepted[1].Classification != models.ClassCritical {
		t.Fatalf("4.0 below 6 should be CRITICAL, got %s", res.Accepted[1].Classification)
	}
	if want := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC).UnixMilli(); res.Accepted[0].Timestamp != want {
		t.Fatalf("timestamp=%d, want %d", res.Accepted[0].Timestamp, want)
	}
}

func TestImporter_ParseEdgeCases(t *testing.T) {
	im := NewImporter(models.Band(0, 100), 0, time.UTC)

	cases := []struct {
		name     string
		in       string
		accepted int
		rejected int
	}{
		{"no_header", "25-12-2024,7.5\r\n26-12-2024,8", 2, 0},
		{"date_header_after_blank_lines", "\n\n Date , Temp \n25-12-2024,1", 1, 0},
		{"header_only_checked_once", "25-12-2024,1\ndate,temp", 1, 1},
		{"single_field", "25-12-2024", 0, 1},
		{"nan_temperature", "25-12-2024,NaN", 0, 1},
		{"inf_temperature", "25-12-2024,+Inf", 0, 1},
		{"empty_temperature", "25-12-2024,", 0, 1},
		{"extra_columns_ignored", "25-12-2024 10:00,3.5,extra", 1, 0},
		{"empty", "", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := im.Parse(tc.in)
			if len(res.Accepted) != tc.accepted || res.Rejected != tc.rejected {
				t.Fatalf("accepted=%d rejected=%d, want %d/%d", len(res.Accepted), res.Rejected, tc.accepted, tc.rejected)
			}
		})
	}
}

func records(n int) []models.HistoryRecord {
	out := make([]models.HistoryRecord, n)
	for i := range out {
		out[i] = models.HistoryRecord{ID: fmt.Sprint(i), Timestamp: int64(i), Source: models.SourceImport}
	}
	return out
}

func TestImporter_CommitBatches(t *testing.T) {
	im := NewImporter(DefaultImportBand(), 0, time.UTC)
	w := &batchRecorder{}

	n, err := im.Commit(context.Background(), records(1201), w)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if n != 1201 {
		t.Fatalf("committed=%d", n)
	}
	var sizes []int
	for _, b := range w.batches {
		sizes = append(sizes, len(b))
	}
	if len(sizes) != 3 || sizes[0] != 500 || sizes[1] != 500 || sizes[2] != 201 {
		t.Fatalf("batch sizes %v", sizes)
	}
}

func TestImporter_CommitHaltsOnFailure(t *testing.T) {
	im := NewImporter(DefaultImportBand(), 100, time.UTC)
	w := &batchRecorder{failOn: 3}

	n, err := im.Commit(context.Background(), records(450), w)
	if err == nil {
		t.Fatalf("expected error")
	}
	if n != 200 {
		t.Fatalf("committed=%d, want 200", n)
	}
	if len(w.batches) != 2 {
		t.Fatalf("no batches may run after the failure, got %d", len(w.batches))
	}
}

func TestImporter_CommitCountsPartialBatch(t *testing.T) {
	im := NewImporter(DefaultImportBand(), 100, time.UTC)
	w := &batchRecorder{failOn: 2, partial: 25}

	n, err := im.Commit(context.Background(), records(450), w)
	if err == nil {
		t.Fatalf("expected error")
	}
	if n != 125 {
		t.Fatalf("committed=%d, want 125", n)
	}
	if WrittenBefore(err) != 25 {
		t.Fatalf("partial count lost in wrapping: %v", err)
	}
}

func TestImporter_CommitStopsOnCancel(t *testing.T) {
	im := NewImporter(DefaultImportBand(), 10, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := im.Commit(ctx, records(30), &batchRecorder{})
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestNewImporter_CapsBatchSize(t *testing.T) {
	if im := NewImporter(DefaultImportBand(), 10000, nil); im.batchSize != DefaultImportBatchSize {
		t.Fatalf("batchSize=%d", im.batchSize)
	}
}
