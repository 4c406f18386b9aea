package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"container_monitor/internal/broker"
	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errIngest          = "failed to ingest reading"
	errSaveThresholds  = "failed to save thresholds"
	errInvalidBodyPref = "invalid body: "
	errEmptyReading    = "payload carries no temperature, motion data or sensor status"

	maxReadingBytes = 1 << 16
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ThresholdRequest is the payload for setting the live band.
type ThresholdRequest struct {
	// Lower bound in Celsius
	Min *float64 `json:"min" binding:"required" example:"2"`
	// Upper bound in Celsius
	Max *float64 `json:"max" binding:"required" example:"8"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Push a reading
// @Description  Same JSON document the device publishes on MQTT: temperature, humidity, sensor_status, timestamp, mpu, alert.
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Param        body  body      broker.DevicePayload  true  "Device payload"
// @Success      200   {object}  map[string]interface{}  "effect, motion"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/readings [post]
func (h *Handler) postReading(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxReadingBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	p, err := broker.DecodeDevicePayload(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	resp := gin.H{}
	sample, hasMotion := p.Motion()
	if hasMotion {
		resp["motion"] = h.services.Motion.Analyze(ctx, sample)
	}

	r, hasReading := p.Reading(time.Now())
	if !hasReading {
		status := p.ReportedStatus()
		if !hasMotion && status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyReading})
			return
		}
		h.services.Monitoring.Heartbeat(ctx, status)
		c.JSON(http.StatusOK, resp)
		return
	}

	eff, err := h.services.Monitoring.Ingest(ctx, r)
	if err != nil {
		if errors.Is(err, models.ErrInvalidReading) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errIngest, "reading_ingest_failed", err)
		return
	}
	resp["effect"] = eff
	c.JSON(http.StatusOK, resp)
}

// @Summary      Get monitor state
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  service.MonitorState
// @Router       /api/v1/monitor/state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.State(c.Request.Context()))
}

// @Summary      Get live chart series
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  telemetry.Series
// @Router       /api/v1/monitor/series [get]
func (h *Handler) getSeries(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Series())
}

// @Summary      Get thresholds
// @Tags         thresholds
// @Produce      json
// @Success      200  {object}  models.ThresholdConfig
// @Router       /api/v1/thresholds [get]
func (h *Handler) getThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Thresholds.Get())
}

// @Summary      Set thresholds
// @Description  Replaces the live band. Readings already received keep their classification.
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        body  body      ThresholdRequest  true  "Band"
// @Success      200   {object}  models.ThresholdConfig
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/thresholds [put]
func (h *Handler) putThresholds(c *gin.Context) {
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	cfg := models.ThresholdConfig{Min: req.Min, Max: req.Max}
	if err := h.services.Thresholds.Set(c.Request.Context(), cfg); err != nil {
		if errors.Is(err, telemetry.ErrInvalidBand) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveThresholds, "thresholds_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Thresholds.Get())
}

// @Summary      Clear thresholds
// @Tags         thresholds
// @Produce      json
// @Success      200  {object}  models.ThresholdConfig
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/thresholds [delete]
func (h *Handler) clearThresholds(c *gin.Context) {
	if err := h.services.Thresholds.Clear(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveThresholds, "thresholds_clear_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Thresholds.Get())
}

// @Summary      Get motion state
// @Tags         motion
// @Produce      json
// @Success      200  {object}  telemetry.MotionState
// @Router       /api/v1/motion [get]
func (h *Handler) getMotion(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Motion.State())
}

// @Summary      Acknowledge shock alert
// @Tags         motion
// @Produce      json
// @Success      200  {object}  telemetry.MotionState
// @Router       /api/v1/motion/ack [post]
func (h *Handler) ackMotion(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Motion.Acknowledge(c.Request.Context()))
}
