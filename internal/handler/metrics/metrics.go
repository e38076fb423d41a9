package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the Prometheus scrape endpoint. A non-empty secret
// turns on bearer-token auth for scrapes.
type MetricsHandler struct {
	registry *prometheus.Registry
	secret   string
}

func New(registry *prometheus.Registry, secret string) *MetricsHandler {
	return &MetricsHandler{
		registry: registry,
		secret:   secret,
	}
}

// Handler returns a Gin handler function for the /metrics endpoint
func (h *MetricsHandler) Handler() gin.HandlerFunc {
	handler := gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	return func(c *gin.Context) {
		if h.secret != "" && c.GetHeader("Authorization") != "Bearer "+h.secret {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		handler(c)
	}
}
