package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Accepted values for the state query parameter.
const (
	stateOn  = "on"
	stateOff = "off"
)

const (
	errInvalidState = "state must be 'on' or 'off'"
	errSetLight     = "failed to switch light"
	errGetOverview  = "failed to load status"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// @Summary      Switch the light
// @Description  Sets the global light state and queues brightness commands for every known node. Clients only inspect the status code.
// @Tags         light
// @Produce      json
// @Param        state  query  string  true  "Desired state"  Enums(on,off)
// @Success      200  {object}  map[string]interface{}  "ok, state"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/light [post]
func (h *Handler) setLight(c *gin.Context) {
	var on bool
	switch c.Query("state") {
	case stateOn:
		on = true
	case stateOff:
		on = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidState})
		return
	}

	st, err := h.services.Light.Set(c.Request.Context(), on)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetLight, "light_set_failed", err, "on", on)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"state": st,
	})
}
