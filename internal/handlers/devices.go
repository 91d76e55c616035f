package handlers

import (
	"fmt"
	"net/http"

	"smartlight"

	"github.com/gin-gonic/gin"
)

const (
	errRegister    = "failed to register gateway"
	errReport      = "failed to store report"
	errNextCommand = "failed to load commands"
	errSendCommand = "failed to queue commands"

	errInvalidBodyPref = "invalid body: "
)

// Request DTO for gateway registration.
type registerRequest struct {
	MAC string `json:"mac" binding:"required"`
}

// Request DTO for node telemetry reports; wire names match the firmware.
type reportRequest struct {
	GwID    string `json:"gw_id" binding:"required"`
	Devices []struct {
		DeviceID   string  `json:"deviceId" binding:"required"`
		Brightness int     `json:"brightness"`
		Lux        float64 `json:"lux"`
		Current    float64 `json:"current"`
	} `json:"devices"`
}

// Request DTO for the operator command endpoint.
type sendCommandRequest struct {
	GatewayMAC string                     `json:"gateway_mac" binding:"required"`
	Commands   []smartlight.DeviceCommand `json:"commands" binding:"required"`
}

// @Summary      Register gateway
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Gateway MAC"
// @Success      200  {object}  map[string]interface{}  "ok, deviceId"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /devices/register [post]
func (h *Handler) registerDevice(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	deviceID, err := h.services.Devices.Register(c.Request.Context(), req.MAC)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRegister, "gateway_register_failed", err, "mac", req.MAC)
		return
	}
	if h.log != nil {
		h.log.Infow("gateway_registered", "mac", deviceID)
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"deviceId": deviceID,
	})
}

// @Summary      Report node status
// @Description  Stores the latest brightness/lux/current per node and refreshes the gateway's liveness.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body  reportRequest  true  "Telemetry batch"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /devices/report [post]
func (h *Handler) reportStatus(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	statuses := make([]smartlight.NodeStatus, 0, len(req.Devices))
	for _, d := range req.Devices {
		statuses = append(statuses, smartlight.NodeStatus{
			DeviceID:   d.DeviceID,
			Brightness: d.Brightness,
			Lux:        d.Lux,
			Current:    d.Current,
		})
	}

	if err := h.services.Devices.Report(c.Request.Context(), req.GwID, statuses); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReport, "report_failed", err, "gw_id", req.GwID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Poll next commands
// @Description  Drains and returns the gateway's queued commands; an empty queue yields an empty list.
// @Tags         devices
// @Produce      json
// @Param        mac  path  string  true  "Gateway MAC"
// @Success      200  {object}  map[string]interface{}  "ok, devices"
// @Failure      500  {object}  map[string]string
// @Router       /devices/{mac}/next-command [get]
func (h *Handler) nextCommand(c *gin.Context) {
	mac := c.Param("mac")

	cmds, err := h.services.Commands.Next(c.Request.Context(), mac)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errNextCommand, "next_command_failed", err, "mac", mac)
		return
	}
	if cmds == nil {
		cmds = []smartlight.DeviceCommand{}
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"devices": cmds,
	})
}

// @Summary      Queue commands
// @Description  Operator/test endpoint to push brightness commands into a gateway's queue.
// @Tags         test
// @Accept       json
// @Produce      json
// @Param        body  body  sendCommandRequest  true  "Commands to queue"
// @Success      200  {object}  map[string]interface{}  "ok, message"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /test/send-command [post]
// @Security     BearerAuth
func (h *Handler) sendCommand(c *gin.Context) {
	var req sendCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	n, err := h.services.Commands.Enqueue(c.Request.Context(), req.GatewayMAC, req.Commands)
	if err != nil {
		// Validation failures from the service read as bad requests.
		if h.log != nil {
			h.log.Infow("send_command_rejected", "err", err, "mac", req.GatewayMAC)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": fmt.Sprintf("Added %d command(s) to queue", n),
	})
}

// @Summary      System status
// @Tags         test
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /test/status [get]
// @Security     BearerAuth
func (h *Handler) testStatus(c *gin.Context) {
	ov, err := h.services.Monitor.Overview(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetOverview, "overview_failed", err)
		return
	}

	macs := make([]string, 0, len(ov.Gateways))
	for _, gw := range ov.Gateways {
		macs = append(macs, gw.MAC)
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":                  true,
		"light":               ov.Light,
		"registered_gateways": macs,
		"node_status":         ov.Nodes,
		"command_queues":      ov.CommandQueues,
	})
}
