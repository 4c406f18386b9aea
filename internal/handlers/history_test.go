package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"container_monitor/internal/models"
	"container_monitor/internal/service"
)

func TestParseMinGap(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"PT5S", 5 * time.Second},
		{"pt1m", time.Minute},
		{"1500ms", 1500 * time.Millisecond},
		{"10s", 10 * time.Second},
	}
	for _, tc := range cases {
		got, err := parseMinGap(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("parseMinGap(%q)=%v,%v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := parseMinGap("soon"); err == nil {
		t.Errorf("expected error for garbage")
	}
}

func TestHistoryHandler_QueryParams(t *testing.T) {
	hist := &mockHistory{view: service.HistoryView{
		Records: []models.HistoryRecord{{ID: "a", Timestamp: 1000, Temperature: 5, Classification: models.ClassNormal}},
		Total:   7,
	}}
	r := newTestRouter(&service.Service{History: hist})

	w := doJSON(r, "GET", "/api/v1/history?from=2025-01-01&to=2025-01-02&max_points=20&min_gap=PT10S&spikes_only=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	q := hist.lastQuery
	if q.MaxPoints != 20 || q.MinGap != 10*time.Second || !q.SpikesOnly {
		t.Fatalf("query=%+v", q)
	}
	if !q.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from=%v", q.From)
	}
	var view service.HistoryView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil || view.Total != 7 || len(view.Records) != 1 {
		t.Fatalf("view=%s", w.Body.String())
	}

	w = doJSON(r, "GET", "/api/v1/history?min_gap_ms=2500", nil)
	if w.Code != http.StatusOK || hist.lastQuery.MinGap != 2500*time.Millisecond {
		t.Fatalf("min_gap_ms not applied: %+v", hist.lastQuery)
	}
}

func TestHistoryHandler_BadParams(t *testing.T) {
	r := newTestRouter(&service.Service{History: &mockHistory{}})
	for _, q := range []string{
		"max_points=0",
		"max_points=x",
		"min_gap=soon",
		"min_gap_ms=-1",
		"spikes_only=maybe",
		"from=2025-02-01&to=2025-01-01",
		"to=yesterday",
	} {
		w := doJSON(r, "GET", "/api/v1/history?"+q, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status=%d; want 400", q, w.Code)
		}
	}
}

func TestHistoryHandler_ServiceError(t *testing.T) {
	r := newTestRouter(&service.Service{History: &mockHistory{err: errors.New("db down")}})
	if w := doJSON(r, "GET", "/api/v1/history", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	if w := doJSON(r, "GET", "/api/v1/history/export", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("export status=%d", w.Code)
	}
}

func TestHistoryHandler_ExportClearLive(t *testing.T) {
	csv := "Timestamp,Temperature,Status\n2025-05-06 08:00:00,5.25,NORMAL\n"
	hist := &mockHistory{exportCSV: csv, cleared: 12, live: []models.HistoryRecord{{ID: "l1"}}}
	r := newTestRouter(&service.Service{History: hist})

	w := doJSON(r, "GET", "/api/v1/history/export", nil)
	if w.Code != http.StatusOK || w.Body.String() != csv {
		t.Fatalf("export status=%d body=%q", w.Code, w.Body.String())
	}

	w = doJSON(r, "DELETE", "/api/v1/history", nil)
	var cleared struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &cleared); err != nil || cleared.Deleted != 12 {
		t.Fatalf("clear=%s", w.Body.String())
	}

	w = doJSON(r, "GET", "/api/v1/history/live", nil)
	var live struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &live); err != nil || live.Count != 1 {
		t.Fatalf("live=%s", w.Body.String())
	}
}

func TestHistoryHandler_ImportRawAndMultipart(t *testing.T) {
	imp := &mockImport{report: service.ImportReport{Accepted: 2, Rejected: 1, Committed: 2}}
	r := newTestRouter(&service.Service{Import: imp})
	payload := "Timestamp,Temperature\n2025-01-15 08:30:00,7.5\n"

	req := httptest.NewRequest(http.MethodPost, "/api/v1/history/import", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || imp.lastCSV != payload {
		t.Fatalf("raw import status=%d got=%q", w.Code, imp.lastCSV)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "history.csv")
	_, _ = fw.Write([]byte(payload))
	_ = mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/v1/history/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || imp.lastCSV != payload {
		t.Fatalf("multipart import status=%d got=%q", w.Code, imp.lastCSV)
	}
	var rep service.ImportReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil || rep.Rejected != 1 {
		t.Fatalf("report=%s", w.Body.String())
	}
}

func TestHistoryHandler_ImportPartialFailure(t *testing.T) {
	imp := &mockImport{report: service.ImportReport{Accepted: 1201, Committed: 1000}, err: errors.New("batch rejected")}
	r := newTestRouter(&service.Service{Import: imp})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/history/import", bytes.NewBufferString("x"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Report service.ImportReport `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Report.Committed != 1000 {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestHistoryHandler_ImportTooLarge(t *testing.T) {
	imp := &mockImport{err: fmt.Errorf("%w: exceeds 32 MiB", service.ErrImportTooLarge)}
	r := newTestRouter(&service.Service{Import: imp})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/history/import", bytes.NewBufferString("x"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d; want 400", w.Code)
	}
}
