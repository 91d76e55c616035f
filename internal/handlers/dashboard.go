package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed dashboard.html
var dashboardHTML []byte

// @Summary      Dashboard
// @Tags         system
// @Produce      html
// @Success      200  {string}  string  "HTML page"
// @Router       / [get]
func (h *Handler) dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}
