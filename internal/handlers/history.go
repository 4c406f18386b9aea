package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"container_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sosodev/duration"
)

const (
	errHistoryLoad   = "failed to load history"
	errHistoryExport = "failed to export history"
	errHistoryClear  = "failed to clear history"
	errImport        = "import halted"
	errImportRead    = "failed to read upload"
	errMaxPoints     = "invalid 'max_points'; use a positive integer"
	errMinGap        = "invalid 'min_gap'; use an ISO 8601 duration (PT5S) or a Go duration (5s)"
	errMinGapMs      = "invalid 'min_gap_ms'; use a positive integer"
	errSpikesOnly    = "invalid 'spikes_only'; use true or false"
	errRangeOrder    = "'from' must be <= 'to'"

	contentTypeCSV = "text/csv; charset=utf-8"
)

// parseRange reads optional from/to query bounds the way the logs endpoint does.
func parseRange(c *gin.Context) (time.Time, time.Time, string) {
	var from, to time.Time
	var err error
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			return time.Time{}, time.Time{}, errFromInvalid
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			return time.Time{}, time.Time{}, errToInvalid
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, errRangeOrder
	}
	return from, to, ""
}

// parseMinGap accepts ISO 8601 durations (PT5S) and Go durations (5s).
func parseMinGap(s string) (time.Duration, error) {
	if strings.HasPrefix(strings.ToUpper(s), "P") {
		d, err := duration.Parse(strings.ToUpper(s))
		if err != nil {
			return 0, err
		}
		return d.ToTimeDuration(), nil
	}
	return time.ParseDuration(s)
}

func parseHistoryQuery(c *gin.Context) (service.HistoryQuery, string) {
	from, to, msg := parseRange(c)
	if msg != "" {
		return service.HistoryQuery{}, msg
	}
	q := service.HistoryQuery{From: from, To: to}

	if s := c.Query("max_points"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return q, errMaxPoints
		}
		q.MaxPoints = v
	}
	if s := c.Query("min_gap"); s != "" {
		d, err := parseMinGap(s)
		if err != nil || d <= 0 {
			return q, errMinGap
		}
		q.MinGap = d
	}
	if s := c.Query("min_gap_ms"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return q, errMinGapMs
		}
		q.MinGap = time.Duration(v) * time.Millisecond
	}
	if s := c.Query("spikes_only"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return q, errSpikesOnly
		}
		q.SpikesOnly = v
	}
	return q, ""
}

// @Summary      Query history
// @Description  Downsampled persisted records, oldest first, at most max_points spaced at least min_gap apart and anchored on the newest record.
// @Tags         history
// @Produce      json
// @Param        from         query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to           query  string  false  "End of range. Date-only treated as end of day."
// @Param        max_points   query  int     false  "Maximum points (default 50)"
// @Param        min_gap      query  string  false  "Minimum spacing, ISO 8601 (PT5S) or Go duration (5s)"
// @Param        min_gap_ms   query  int     false  "Minimum spacing in milliseconds"
// @Param        spikes_only  query  bool    false  "Only CRITICAL records"
// @Success      200  {object}  service.HistoryView
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	q, msg := parseHistoryQuery(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	view, err := h.services.History.Query(c.Request.Context(), q)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errHistoryLoad, "history_query_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Live history series
// @Description  The rendered history sequence, extended as new records are persisted.
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, records"
// @Router       /api/v1/history/live [get]
func (h *Handler) getLiveHistory(c *gin.Context) {
	records := h.services.History.LiveSeries()
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

// @Summary      Export history as CSV
// @Tags         history
// @Produce      text/csv
// @Param        from  query  string  false  "Start of range"
// @Param        to    query  string  false  "End of range"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/export [get]
func (h *Handler) exportHistory(c *gin.Context) {
	from, to, msg := parseRange(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	var buf bytes.Buffer
	if _, err := h.services.History.Export(c.Request.Context(), from, to, &buf); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errHistoryExport, "history_export_failed", err)
		return
	}
	writeCSV(c, "temperature_history", buf.Bytes())
}

// @Summary      Clear history
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "deleted"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [delete]
func (h *Handler) clearHistory(c *gin.Context) {
	n, err := h.services.History.Clear(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errHistoryClear, "history_clear_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// @Summary      Import history CSV
// @Description  Two columns, timestamp and temperature, optional header. Send as multipart field 'file' or as the raw body.
// @Tags         history
// @Accept       multipart/form-data
// @Accept       text/csv
// @Produce      json
// @Param        file  formData  file  false  "CSV file"
// @Success      200  {object}  service.ImportReport
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]interface{}  "error, report"
// @Router       /api/v1/history/import [post]
func (h *Handler) importHistory(c *gin.Context) {
	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errImportRead + ": " + err.Error()})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errImportRead + ": " + err.Error()})
			return
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	report, err := h.services.Import.ImportCSV(c.Request.Context(), src)
	if errors.Is(err, service.ErrImportTooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		if h.log != nil {
			h.log.Errorw("history_import_failed", "err", err, "committed", report.Committed)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errImport, "report": report})
		return
	}
	c.JSON(http.StatusOK, report)
}

func writeCSV(c *gin.Context, name string, body []byte) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentTypeCSV, body)
}
