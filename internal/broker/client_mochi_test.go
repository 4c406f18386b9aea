package broker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"container_monitor/internal/logger"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/require"
)

const mochiTCPPort = 18883

func startMochi(t *testing.T) string {
	t.Helper()

	server := mochi.New(nil)
	require.NoError(t, server.AddHook(new(auth.AllowHook), nil))

	addr := fmt.Sprintf("localhost:%d", mochiTCPPort)
	require.NoError(t, server.AddListener(listeners.NewTCP(listeners.Config{
		Type:    "tcp",
		ID:      "monitor-test",
		Address: addr,
	})))
	require.NoError(t, server.Serve())
	t.Cleanup(func() { _ = server.Close() })
	return "tcp://" + addr
}

type syncIngester struct {
	mu  sync.Mutex
	got []models.Reading
	ch  chan struct{}
}

func (s *syncIngester) Heartbeat(context.Context, models.SensorStatus) {}

func (s *syncIngester) Ingest(_ context.Context, r models.Reading) (telemetry.Effect, error) {
	s.mu.Lock()
	s.got = append(s.got, r)
	s.mu.Unlock()
	s.ch <- struct{}{}
	return telemetry.Effect{}, nil
}

type syncLive struct {
	ch chan models.HistoryRecord
}

func (s *syncLive) LiveAppend(r models.HistoryRecord) bool {
	s.ch <- r
	return true
}

func TestWithMochi(t *testing.T) {
	url := startMochi(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	monitor, err := Dial(ctx, Config{Broker: url, ClientID: "monitor", KeepAlive: 30 * time.Second}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = monitor.Close() })

	device, err := Dial(ctx, Config{Broker: url, ClientID: "device", KeepAlive: 30 * time.Second}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = device.Close() })

	t.Run("DeviceReadingIsIngested", func(t *testing.T) {
		ing := &syncIngester{ch: make(chan struct{}, 1)}
		require.NoError(t, monitor.Subscribe(ctx, "device", DeviceHandler(ing, nil, nil)))

		require.NoError(t, device.Publish(ctx, "device", []byte(`{"temperature": 5.6, "sensor_status": "WORKING"}`)))

		select {
		case <-ing.ch:
		case <-ctx.Done():
			t.Fatal("reading was not delivered")
		}
		ing.mu.Lock()
		defer ing.mu.Unlock()
		require.Len(t, ing.got, 1)
		require.Equal(t, 5.6, ing.got[0].Temperature)
		require.Equal(t, models.StatusWorking, ing.got[0].SensorStatus)
		require.NotZero(t, ing.got[0].Timestamp)
	})

	t.Run("HistoryRecordReachesLiveSeries", func(t *testing.T) {
		live := &syncLive{ch: make(chan models.HistoryRecord, 1)}
		require.NoError(t, monitor.Subscribe(ctx, "device/history", HistoryHandler(live)))

		rec := models.HistoryRecord{ID: "h1", Timestamp: 1000, Temperature: 5.2, Classification: models.ClassNormal}
		require.NoError(t, NewHistoryPublisher(monitor, "device/history").PublishRecord(ctx, rec))

		select {
		case got := <-live.ch:
			require.Equal(t, rec, got)
		case <-ctx.Done():
			t.Fatal("history record was not delivered")
		}
	})
}
