package service

import (
	"context"
	"errors"
	"testing"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

func TestThresholdService_SetPersistsAndLogs(t *testing.T) {
	t.Parallel()

	store := telemetry.NewThresholdStore(models.ThresholdConfig{})
	repo := &memThresholdRepo{}
	events := &memEventRepo{}
	svc := NewThresholdService(store, repo, events, logger.Nop())

	if err := svc.Set(context.Background(), models.Band(2, 8)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := svc.Get(); !got.Configured() || *got.Min != 2 || *got.Max != 8 {
		t.Fatalf("live band=%+v", got)
	}
	if repo.saves != 1 || *repo.saved.Max != 8 {
		t.Fatalf("band not persisted: %+v", repo)
	}
	ev := events.ofType(models.EventThresholdChange)
	if len(ev) != 1 || ev[0].Description != "Thresholds set to 2.0..8.0" {
		t.Fatalf("events=%+v", ev)
	}
}

func TestThresholdService_SetRejectsInvertedBand(t *testing.T) {
	t.Parallel()

	store := telemetry.NewThresholdStore(models.Band(1, 2))
	repo := &memThresholdRepo{}
	svc := NewThresholdService(store, repo, &memEventRepo{}, logger.Nop())

	if err := svc.Set(context.Background(), models.Band(9, 3)); !errors.Is(err, telemetry.ErrInvalidBand) {
		t.Fatalf("expected ErrInvalidBand, got %v", err)
	}
	if repo.saves != 0 || *svc.Get().Max != 2 {
		t.Fatalf("invalid band must leave state untouched")
	}
}

func TestThresholdService_SaveFailureKeepsLiveBand(t *testing.T) {
	t.Parallel()

	store := telemetry.NewThresholdStore(models.Band(1, 2))
	repo := &memThresholdRepo{saveErr: errors.New("disk full")}
	svc := NewThresholdService(store, repo, &memEventRepo{}, logger.Nop())

	if err := svc.Set(context.Background(), models.Band(3, 4)); !errors.Is(err, repo.saveErr) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if *svc.Get().Min != 1 {
		t.Fatalf("live band changed despite save failure")
	}
}

func TestThresholdService_ClearAndRestore(t *testing.T) {
	t.Parallel()

	repo := &memThresholdRepo{saved: models.Band(4, 6)}
	store := telemetry.NewThresholdStore(models.Band(0, 10))
	svc := NewThresholdService(store, repo, &memEventRepo{}, logger.Nop())

	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if *svc.Get().Min != 4 {
		t.Fatalf("stored band should win on restore, got %+v", svc.Get())
	}

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if svc.Get().Configured() {
		t.Fatalf("band should be unconfigured after clear")
	}

	// Nothing stored: configured band stays.
	store2 := telemetry.NewThresholdStore(models.Band(0, 10))
	svc2 := NewThresholdService(store2, &memThresholdRepo{}, &memEventRepo{}, logger.Nop())
	if err := svc2.Restore(context.Background()); err != nil || *svc2.Get().Max != 10 {
		t.Fatalf("restore with empty repo changed band: %+v err=%v", svc2.Get(), err)
	}
}
