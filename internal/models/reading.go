package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// SensorStatus is the device's own report of its health.
type SensorStatus string

const (
	StatusWorking SensorStatus = "WORKING"
	StatusFault   SensorStatus = "FAULT"
	StatusUnknown SensorStatus = "UNKNOWN"
)

// ErrInvalidReading is returned for readings that must not enter the pipeline.
var ErrInvalidReading = errors.New("invalid reading")

// ParseSensorStatus normalizes the free-form status strings devices send.
func ParseSensorStatus(raw string) SensorStatus {
	s := strings.TrimSpace(raw)
	switch strings.ToUpper(s) {
	case "":
		return StatusUnknown
	case "WORKING", "ACTIVE":
		return StatusWorking
	case "UNKNOWN":
		return StatusUnknown
	default:
		return StatusFault
	}
}

// Healthy reports whether the device considers itself working.
func (s SensorStatus) Healthy() bool { return s == StatusWorking }

// Reading is one timestamped sensor observation.
type Reading struct {
	Timestamp    int64        `json:"timestamp"` // epoch ms
	Temperature  float64      `json:"temperature"`
	Humidity     *float64     `json:"humidity,omitempty"`
	SensorStatus SensorStatus `json:"sensor_status,omitempty"`
}

// Validate rejects readings with a negative timestamp or a non-finite temperature.
func (r Reading) Validate() error {
	if r.Timestamp < 0 {
		return fmt.Errorf("%w: negative timestamp %d", ErrInvalidReading, r.Timestamp)
	}
	if math.IsNaN(r.Temperature) || math.IsInf(r.Temperature, 0) {
		return fmt.Errorf("%w: non-finite temperature", ErrInvalidReading)
	}
	if r.Humidity != nil && (math.IsNaN(*r.Humidity) || math.IsInf(*r.Humidity, 0)) {
		return fmt.Errorf("%w: non-finite humidity", ErrInvalidReading)
	}
	return nil
}

// ClassifiedReading is a Reading whose classification was frozen at ingestion.
type ClassifiedReading struct {
	Reading
	Classification Classification `json:"classification"`
}
