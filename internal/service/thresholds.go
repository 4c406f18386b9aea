package service

import (
	"context"
	"fmt"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/repository"
	"container_monitor/internal/telemetry"
)

type ThresholdService struct {
	store     *telemetry.ThresholdStore
	repo      repository.ThresholdRepo
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewThresholdService(store *telemetry.ThresholdStore, repo repository.ThresholdRepo, eventRepo repository.EventRepo, log *logger.Logger) *ThresholdService {
	return &ThresholdService{store: store, repo: repo, eventRepo: eventRepo, log: log}
}

// Restore loads the persisted band into the live store. A stored band wins
// over the configured one; with nothing stored the store is left as is.
func (s *ThresholdService) Restore(ctx context.Context) error {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if !cfg.Configured() {
		return nil
	}
	return s.store.Set(cfg)
}

func (s *ThresholdService) Get() models.ThresholdConfig { return s.store.Get() }

// Set validates, persists and then swaps in the new band. Readings already
// ingested keep their classification.
func (s *ThresholdService) Set(ctx context.Context, cfg models.ThresholdConfig) error {
	if err := telemetry.ValidateBand(cfg); err != nil {
		return err
	}
	prev := s.store.Get()
	if err := s.repo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save thresholds: %w", err)
	}
	if err := s.store.Set(cfg); err != nil {
		return err
	}

	if err := s.eventRepo.Append(ctx, models.MonitorEvent{
		Type:        models.EventThresholdChange,
		Description: describeBand(cfg),
		Metadata:    map[string]any{"from": prev, "to": cfg},
	}); err != nil {
		s.log.Errorw("threshold_event_write_failed", "err", err)
	}
	return nil
}

// Clear returns the monitor to the unconfigured state.
func (s *ThresholdService) Clear(ctx context.Context) error {
	return s.Set(ctx, models.ThresholdConfig{})
}

func describeBand(cfg models.ThresholdConfig) string {
	if !cfg.Configured() {
		return "Thresholds cleared"
	}
	return fmt.Sprintf("Thresholds set to %.1f..%.1f", *cfg.Min, *cfg.Max)
}
