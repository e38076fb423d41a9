package http

import (
	"github.com/dwarvesf/wallet-tracker/internal/handler"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
	"github.com/gin-gonic/gin"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, logger *logger.Logger) {
	v1 := r.Group("/api/v1")

	runs := v1.Group("/runs")
	{
		runs.GET("", h.RunHandler.List)
		runs.POST("", h.RunHandler.Trigger)
		runs.GET("/latest", h.RunHandler.Latest)
	}

	health := v1.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/external", h.HealthHandler.External)
	}

	// health check
	r.GET("/healthz", h.HealthHandler.Basic)

	// prometheus scrape endpoint
	r.GET("/metrics", h.MetricsHandler.Handler())
}
