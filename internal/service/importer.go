package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"container_monitor/internal/logger"
	"container_monitor/internal/metrics"
	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"

	"github.com/google/uuid"
)

// maxImportBytes caps one upload.
const maxImportBytes = 32 << 20

// ErrImportTooLarge is returned for uploads over maxImportBytes.
var ErrImportTooLarge = errors.New("upload too large")

type ImportService struct {
	importer  *telemetry.Importer
	writer    telemetry.BatchWriter
	eventRepo repository.EventRepo
	obs       metrics.Observer
	log       *logger.Logger
}

func NewImportService(importer *telemetry.Importer, writer telemetry.BatchWriter, eventRepo repository.EventRepo, obs metrics.Observer, log *logger.Logger) *ImportService {
	return &ImportService{importer: importer, writer: writer, eventRepo: eventRepo, obs: obs, log: log}
}

// ImportCSV parses the upload and commits accepted rows in batches. On a
// batch failure the report still carries what was committed.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxImportBytes+1))
	if err != nil {
		return ImportReport{}, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > maxImportBytes {
		return ImportReport{}, fmt.Errorf("%w: exceeds %d bytes", ErrImportTooLarge, maxImportBytes)
	}

	parsed := s.importer.Parse(string(raw))
	report := ImportReport{Accepted: len(parsed.Accepted), Rejected: parsed.Rejected}
	s.obs.IncCounter(metrics.ImportAccepted, float64(report.Accepted))
	s.obs.IncCounter(metrics.ImportRejected, float64(report.Rejected))

	records := make([]models.HistoryRecord, len(parsed.Accepted))
	for i, cr := range parsed.Accepted {
		records[i] = models.HistoryRecord{
			ID:             uuid.NewString(),
			Timestamp:      cr.Timestamp,
			Temperature:    cr.Temperature,
			Classification: cr.Classification,
			Source:         models.SourceImport,
		}
	}

	committed, commitErr := s.importer.Commit(ctx, records, s.writer)
	report.Committed = committed

	desc := fmt.Sprintf("Imported %d records (%d rejected)", committed, report.Rejected)
	if commitErr != nil {
		desc = fmt.Sprintf("Import halted after %d of %d records", committed, report.Accepted)
		s.log.Errorw("import_batch_failed", "committed", committed, "accepted", report.Accepted, "err", commitErr)
	}
	if err := s.eventRepo.Append(ctx, models.MonitorEvent{
		Type:        models.EventImport,
		Description: desc,
		Metadata:    report,
	}); err != nil {
		s.log.Errorw("import_event_write_failed", "err", err)
	}
	return report, commitErr
}
