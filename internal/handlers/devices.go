package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type prepareOTARequest struct {
	EspID       string `json:"espId"`
	FirmwareURL string `json:"firmwareUrl"`
}

type resetDeviceRequest struct {
	EspID string `json:"espId"`
}

// @Summary      List known devices
// @Tags         devices
// @Produce      json
// @Success      200  {array}   string
// @Failure      500  {object}  map[string]string
// @Router       /api/esps [get]
func (h *Handler) listDevices(c *gin.Context) {
	ids, err := h.services.History.DeviceIDs(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "device_ids_failed", err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// @Summary      Queue a firmware update
// @Description  The device receives the firmware URL in the response to its next data POST.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  prepareOTARequest  true  "Target device and firmware URL"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/prepare-ota [post]
func (h *Handler) prepareOTA(c *gin.Context) {
	var req prepareOTARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Commands.Prepare(req.EspID, req.FirmwareURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("OTA prepared for %s", req.EspID)})
}

// @Summary      Queue a device reset
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  resetDeviceRequest  true  "Target device"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/reset-device [post]
func (h *Handler) resetDevice(c *gin.Context) {
	var req resetDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Commands.QueueReset(req.EspID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Reset command sent to %s", req.EspID)})
}
