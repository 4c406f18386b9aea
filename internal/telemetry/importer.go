package telemetry

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"container_monitor/internal/models"
)

// Import defaults.
const (
	DefaultImportBatchSize = 500
	importDelimiter        = ","
)

// DefaultImportBand is the fixed band used to classify imported rows.
func DefaultImportBand() models.ThresholdConfig { return models.Band(6, 12) }

var lineSplit = regexp.MustCompile(`\r?\n`)

// ImportResult is the parse outcome of one upload.
type ImportResult struct {
	Accepted []models.ClassifiedReading
	Rejected int
}

// Importer parses two-column CSV text and commits it in batches.
type Importer struct {
	band      models.ThresholdConfig
	batchSize int
	loc       *time.Location
}

// NewImporter builds an importer classifying rows against band. batchSize is
// capped at the store's per-transaction limit.
func NewImporter(band models.ThresholdConfig, batchSize int, loc *time.Location) *Importer {
	if batchSize <= 0 || batchSize > DefaultImportBatchSize {
		batchSize = DefaultImportBatchSize
	}
	if loc == nil {
		loc = time.Local
	}
	return &Importer{band: band.Clone(), batchSize: batchSize, loc: loc}
}

// Parse reads "timestamp,temperature" rows. Bad rows are counted, never fatal.
func (im *Importer) Parse(text string) ImportResult {
	var res ImportResult
	headerChecked := false

	for _, raw := range lineSplit.Split(text, -1) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !headerChecked {
			headerChecked = true
			lower := strings.ToLower(line)
			if strings.Contains(lower, "timestamp") || strings.Contains(lower, "date") {
				continue
			}
		}

		r, ok := im.parseLine(line)
		if !ok {
			res.Rejected++
			continue
		}
		res.Accepted = append(res.Accepted, models.ClassifiedReading{
			Reading:        r,
			Classification: Classify(r.Temperature, im.band),
		})
	}
	return res
}

func (im *Importer) parseLine(line string) (models.Reading, bool) {
	parts := strings.Split(line, importDelimiter)
	if len(parts) < 2 {
		return models.Reading{}, false
	}
	ts, ok := ParseTimestamp(parts[0], im.loc)
	if !ok || ts < 0 {
		return models.Reading{}, false
	}
	temp, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
		return models.Reading{}, false
	}
	return models.Reading{Timestamp: ts, Temperature: temp}, true
}

// Commit writes records to w in sequential batches. It stops at the first
// failed batch; batches already written stay written. The returned count is
// the number of records committed, including any part of the failed batch
// the store reports as written.
func (im *Importer) Commit(ctx context.Context, records []models.HistoryRecord, w BatchWriter) (int, error) {
	committed := 0
	for start := 0; start < len(records); start += im.batchSize {
		if err := ctx.Err(); err != nil {
			return committed, fmt.Errorf("import aborted after %d records: %w", committed, err)
		}
		end := start + im.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := w.WriteBatch(ctx, records[start:end]); err != nil {
			committed += WrittenBefore(err)
			return committed, fmt.Errorf("write batch %d-%d: %w", start, end, err)
		}
		committed += end - start
	}
	return committed, nil
}
