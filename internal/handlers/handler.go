package handlers

import (
	"container_monitor/internal/logger"
	"container_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "container_monitor/docs"
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
	router.Use(gin.Recovery(), h.requestIDMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Live dashboard stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.accessLogMiddleware)
	{
		api.POST("/readings", h.postReading)
		h.registerMonitorRoutes(api)
		h.registerThresholdRoutes(api)
		h.registerHistoryRoutes(api)
		h.registerLogRoutes(api)
		h.registerMotionRoutes(api)
	}
}

func (h *Handler) registerMonitorRoutes(api *gin.RouterGroup) {
	monitor := api.Group("/monitor")
	{
		monitor.GET("/state", h.getState)
		monitor.GET("/series", h.getSeries)
	}
}

func (h *Handler) registerThresholdRoutes(api *gin.RouterGroup) {
	api.GET("/thresholds", h.getThresholds)
	// Body example: {"min":2,"max":8}
	api.PUT("/thresholds", h.putThresholds)
	api.DELETE("/thresholds", h.clearThresholds)
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("", h.getHistory)
		history.GET("/live", h.getLiveHistory)
		history.GET("/export", h.exportHistory)
		history.POST("/import", h.importHistory)
		history.DELETE("", h.clearHistory)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
		logs.GET("/export", h.exportLogs)
	}
}

func (h *Handler) registerMotionRoutes(api *gin.RouterGroup) {
	motion := api.Group("/motion")
	{
		motion.GET("", h.getMotion)
		motion.POST("/ack", h.ackMotion)
	}
}
