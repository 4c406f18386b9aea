package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/service"
	"container_monitor/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func dialWS(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_SeriesThenStatePeriodic(t *testing.T) {
	temp := 5.4
	mon := &mockMonitoring{
		state: service.MonitorState{
			Temperature:    &temp,
			Classification: models.ClassNormal,
			Liveness:       models.LivenessState{LastKnownStatus: models.StatusWorking},
		},
		series: telemetry.Series{Labels: []string{"10:00:00", "10:00:01"}, Values: []float64{5.3, 5.4}},
	}
	conn := dialWS(t, &service.Service{Monitoring: mon}, "interval_ms=20")

	env := readEnvelope(t, conn)
	if env.Type != wsTypeSeries {
		t.Fatalf("expected series first, got %+v", env)
	}
	var series telemetry.Series
	if err := json.Unmarshal(env.Data, &series); err != nil || len(series.Values) != 2 || series.Values[1] != 5.4 {
		t.Fatalf("unexpected series: %s", env.Data)
	}

	env = readEnvelope(t, conn)
	if env.Type != wsTypeState {
		t.Fatalf("expected state, got %+v", env)
	}
	var st service.MonitorState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.Temperature == nil || *st.Temperature != 5.4 || st.Classification != models.ClassNormal {
		t.Fatalf("unexpected state: %+v", st)
	}

	// Periodic tick
	env = readEnvelope(t, conn)
	if env.Type != wsTypeState {
		t.Fatalf("expected periodic state, got %+v", env)
	}
}
