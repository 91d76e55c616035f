package handlers

import (
	"smartlight/internal/logger"
	"smartlight/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Dashboard and health
	router.GET("/", h.dashboard)
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// The dashboard toggle's backend contract: one POST, one query parameter.
	router.POST("/api/light", h.setLight)

	// Gateway-facing endpoints (unauthenticated, as the ESP32 firmware expects)
	h.registerDeviceRoutes(router)

	// Operator endpoints (protected)
	h.registerTestRoutes(router)

	// Live overview stream (HTTP upgrade, same port)
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerDeviceRoutes(r *gin.Engine) {
	devices := r.Group("/devices")
	{
		devices.POST("/register", h.registerDevice)
		devices.POST("/report", h.reportStatus)
		devices.GET("/:mac/next-command", h.nextCommand)
	}
}

func (h *Handler) registerTestRoutes(r *gin.Engine) {
	test := r.Group("/test", h.userIdMiddleware)
	{
		test.POST("/send-command", h.sendCommand)
		test.GET("/status", h.testStatus)
		test.GET("/logs", h.getLogs)
	}
}
