package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"solarmon/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref = "invalid body: "
	errMissingRange    = "Start and end timestamps are required."
	errStartInvalid    = "invalid 'start' time; use RFC3339 or YYYY-MM-DD"
	errEndInvalid      = "invalid 'end' time; use RFC3339 or YYYY-MM-DD"
	errServer          = "server error"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// Request DTO for the device write path. esp_id matches the firmware's
// field name on the wire.
type dataRequest struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
	Power   float64 `json:"power"`
	EspID   string  `json:"esp_id"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Ingest a sensor sample
// @Description  Stores the sample and returns a pending device command when one is queued for this esp_id.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        body  body  dataRequest  true  "Sample payload"
// @Success      200   {object}  map[string]interface{}  "message+data, or command"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/data [post]
func (h *Handler) postData(c *gin.Context) {
	var req dataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	stored, cmd, err := h.services.Telemetry.Ingest(c.Request.Context(), service.IngestParams{
		Voltage: req.Voltage,
		Current: req.Current,
		Power:   req.Power,
		EspID:   req.EspID,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingDevice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing espId"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "ingest_failed", err, "esp_id", req.EspID)
		return
	}

	// push the fresh sample to every connected listener right away; the
	// periodic tick is only a heartbeat on top of this
	h.hub.broadcast(stored)

	if cmd != "" {
		c.JSON(http.StatusOK, gin.H{"command": cmd})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data received", "data": stored})
}

// @Summary      Latest readings
// @Description  Up to 50 most recent readings, newest first. Optional esp_id filter.
// @Tags         data
// @Produce      json
// @Param        esp_id  query  string  false  "Device identifier"
// @Success      200  {array}   models.Reading
// @Failure      500  {object}  map[string]string
// @Router       /api/data [get]
func (h *Handler) getLatest(c *gin.Context) {
	readings, err := h.services.History.Latest(c.Request.Context(), c.Query("esp_id"))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// @Summary      Aggregated energy over a time range
// @Description  Groups readings in [start, end] into hourly buckets (daily when mode is weekly or monthly) and integrates power into Wh.
// @Tags         data
// @Produce      json
// @Param        start   query  string  true   "Range start (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        end     query  string  true   "Range end; date-only treated as end of day"
// @Param        mode    query  string  false  "Bucketing mode"  Enums(hourly,daily,weekly,monthly)
// @Param        esp_id  query  string  false  "Device identifier"
// @Success      200  {array}   models.EnergyBucket
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/data/range [get]
func (h *Handler) getRange(c *gin.Context) {
	startQ, endQ := c.Query("start"), c.Query("end")
	if startQ == "" || endQ == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingRange})
		return
	}

	start, err := parseQueryTime(startQ)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errStartInvalid})
		return
	}
	end, err := parseQueryTime(endQ)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEndInvalid})
		return
	}
	// date-only end means the whole of that day, inclusive. 23:59:59 is
	// the last representable instant because the store truncates
	// timestamps to seconds (see repository.Insert); keep the two in sync
	// if that precision ever changes.
	if isDateOnly(endQ) {
		end = end.Add(24*time.Hour - time.Second).UTC()
	}

	buckets, err := h.services.Aggregator.Aggregate(
		c.Request.Context(), start, end, c.Query("mode"), c.Query("esp_id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "range_failed", err,
			"start", startQ, "end", endQ)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// @Summary      Full history
// @Description  Every stored reading, ascending by time.
// @Tags         data
// @Produce      json
// @Success      200  {array}   models.Reading
// @Failure      500  {object}  map[string]string
// @Router       /api/data/historical [get]
func (h *Handler) getHistorical(c *gin.Context) {
	readings, err := h.services.History.Historical(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "historical_failed", err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
