package telemetry

import (
	"errors"
	"math"
	"sync/atomic"

	"container_monitor/internal/models"
)

// ErrInvalidBand is returned when a threshold band cannot be applied.
var ErrInvalidBand = errors.New("invalid threshold band: min must be <= max and both finite")

// Classify compares value against cfg. Bounds are inclusive.
func Classify(value float64, cfg models.ThresholdConfig) models.Classification {
	if !cfg.Configured() {
		return models.ClassUnconfigured
	}
	if value < *cfg.Min || value > *cfg.Max {
		return models.ClassCritical
	}
	return models.ClassNormal
}

// ValidateBand checks a band before it replaces the live one. A band with
// one or both bounds unset is valid and means "unconfigured".
func ValidateBand(cfg models.ThresholdConfig) error {
	for _, b := range []*float64{cfg.Min, cfg.Max} {
		if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
			return ErrInvalidBand
		}
	}
	if cfg.Configured() && *cfg.Min > *cfg.Max {
		return ErrInvalidBand
	}
	return nil
}

// ThresholdStore holds the live band. Readers always see a whole band,
// never half of an update.
type ThresholdStore struct {
	band atomic.Pointer[models.ThresholdConfig]
}

// NewThresholdStore returns a store initialised with cfg.
func NewThresholdStore(cfg models.ThresholdConfig) *ThresholdStore {
	s := &ThresholdStore{}
	c := cfg.Clone()
	s.band.Store(&c)
	return s
}

// Get returns a copy of the current band.
func (s *ThresholdStore) Get() models.ThresholdConfig {
	if p := s.band.Load(); p != nil {
		return p.Clone()
	}
	return models.ThresholdConfig{}
}

// Set replaces the band after validation.
func (s *ThresholdStore) Set(cfg models.ThresholdConfig) error {
	if err := ValidateBand(cfg); err != nil {
		return err
	}
	c := cfg.Clone()
	s.band.Store(&c)
	return nil
}

// Classify classifies value against the current band.
func (s *ThresholdStore) Classify(value float64) models.Classification {
	return Classify(value, s.Get())
}

// Badge is the presentation hint for a classification.
type Badge struct {
	Text       string `json:"text"`
	Background string `json:"background"`
	Color      string `json:"color"`
	Alarm      bool   `json:"alarm"`
}

// PointStyle is how a chart point is drawn.
type PointStyle struct {
	Color  string `json:"color"`
	Radius int    `json:"radius"`
}

const (
	colorDanger  = "#DC2626"
	colorSuccess = "#10B981"
	colorNeutral = "#94A3B8"
)

// BadgeFor maps a classification to badge text and colours.
func BadgeFor(c models.Classification) Badge {
	switch c {
	case models.ClassCritical:
		return Badge{Text: "CRITICAL ALERT", Background: "#FEF2F2", Color: colorDanger, Alarm: true}
	case models.ClassNormal:
		return Badge{Text: "ALL SYSTEMS NORMAL", Background: "#ECFDF5", Color: "#059669"}
	default:
		return Badge{Text: "SET THRESHOLDS", Background: "#FEF3C7", Color: "#D97706"}
	}
}

// PointStyleFor maps a classification to a chart point style.
func PointStyleFor(c models.Classification) PointStyle {
	switch c {
	case models.ClassCritical:
		return PointStyle{Color: colorDanger, Radius: 5}
	case models.ClassNormal:
		return PointStyle{Color: colorSuccess, Radius: 3}
	default:
		return PointStyle{Color: colorNeutral, Radius: 3}
	}
}
