package broker

import (
	"encoding/json"
	"fmt"
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

// DevicePayload is the JSON document the container unit publishes on the
// readings topic. Every field is optional.
type DevicePayload struct {
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	SensorStatus string   `json:"sensor_status"`
	Timestamp    *int64   `json:"timestamp"`
	MPU          *MPU     `json:"mpu"`
	Alert        *Alert   `json:"alert"`
}

// MPU carries accelerometer axes in g. Older firmware uses accel_* keys.
type MPU struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Z      *float64 `json:"z"`
	AccelX *float64 `json:"accel_x"`
	AccelY *float64 `json:"accel_y"`
	AccelZ *float64 `json:"accel_z"`
	Shock  bool     `json:"shock"`
}

type Alert struct {
	Type string `json:"type"`
}

const alertShock = "SHOCK"

// DecodeDevicePayload parses one readings message.
func DecodeDevicePayload(b []byte) (DevicePayload, error) {
	var p DevicePayload
	if err := json.Unmarshal(b, &p); err != nil {
		return DevicePayload{}, fmt.Errorf("decode device payload: %w", err)
	}
	return p, nil
}

// Reading converts the payload to a reading stamped at receivedAt unless the
// device sent its own timestamp. ok is false when there is no temperature.
func (p DevicePayload) Reading(receivedAt time.Time) (models.Reading, bool) {
	if p.Temperature == nil {
		return models.Reading{}, false
	}
	ts := receivedAt.UnixMilli()
	if p.Timestamp != nil && *p.Timestamp > 0 {
		ts = *p.Timestamp
	}
	return models.Reading{
		Timestamp:    ts,
		Temperature:  *p.Temperature,
		Humidity:     p.Humidity,
		SensorStatus: models.ParseSensorStatus(p.SensorStatus),
	}, true
}

// ReportedStatus is the device's self-reported status, or "" when the
// payload does not carry one.
func (p DevicePayload) ReportedStatus() models.SensorStatus {
	if p.SensorStatus == "" {
		return ""
	}
	return models.ParseSensorStatus(p.SensorStatus)
}

// Motion extracts the accelerometer sample. ok is false when the payload has
// neither an mpu block nor a shock alert.
func (p DevicePayload) Motion() (telemetry.MotionSample, bool) {
	shockAlert := p.Alert != nil && p.Alert.Type == alertShock
	if p.MPU == nil {
		return telemetry.MotionSample{ShockFlag: shockAlert}, shockAlert
	}
	m := p.MPU
	return telemetry.MotionSample{
		X:         axis(m.X, m.AccelX),
		Y:         axis(m.Y, m.AccelY),
		Z:         axis(m.Z, m.AccelZ),
		ShockFlag: m.Shock || shockAlert,
	}, true
}

func axis(primary, legacy *float64) float64 {
	if primary != nil && *primary != 0 {
		return *primary
	}
	if legacy != nil {
		return *legacy
	}
	return 0
}
