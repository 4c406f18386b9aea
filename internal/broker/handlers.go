package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"
)

// Ingester receives decoded readings, and a heartbeat for messages that
// carry no temperature.
type Ingester interface {
	Ingest(ctx context.Context, r models.Reading) (telemetry.Effect, error)
	Heartbeat(ctx context.Context, status models.SensorStatus)
}

// MotionSink receives accelerometer samples.
type MotionSink interface {
	Analyze(ctx context.Context, s telemetry.MotionSample) telemetry.MotionState
}

// LiveHistory receives records announced on the history topic.
type LiveHistory interface {
	LiveAppend(r models.HistoryRecord) bool
}

// DeviceHandler turns readings-topic messages into Ingest and Analyze calls.
func DeviceHandler(ing Ingester, motion MotionSink, clock telemetry.Clock) MessageHandler {
	if clock == nil {
		clock = telemetry.SystemClock{}
	}
	return func(ctx context.Context, _ string, payload []byte) error {
		p, err := DecodeDevicePayload(payload)
		if err != nil {
			return err
		}
		if s, ok := p.Motion(); ok && motion != nil {
			motion.Analyze(ctx, s)
		}
		r, ok := p.Reading(clock.Now())
		if !ok {
			ing.Heartbeat(ctx, p.ReportedStatus())
			return nil
		}
		if _, err := ing.Ingest(ctx, r); err != nil {
			return fmt.Errorf("ingest: %w", err)
		}
		return nil
	}
}

// HistoryHandler feeds history-topic records into the live history series.
func HistoryHandler(h LiveHistory) MessageHandler {
	return func(_ context.Context, _ string, payload []byte) error {
		var r models.HistoryRecord
		if err := json.Unmarshal(payload, &r); err != nil {
			return fmt.Errorf("decode history record: %w", err)
		}
		h.LiveAppend(r)
		return nil
	}
}

// Publisher is the part of Client the history publisher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// HistoryPublisher announces persisted records on the history topic.
type HistoryPublisher struct {
	pub   Publisher
	topic string
}

func NewHistoryPublisher(pub Publisher, topic string) *HistoryPublisher {
	return &HistoryPublisher{pub: pub, topic: topic}
}

func (p *HistoryPublisher) PublishRecord(ctx context.Context, r models.HistoryRecord) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode history record: %w", err)
	}
	return p.pub.Publish(ctx, p.topic, b)
}
