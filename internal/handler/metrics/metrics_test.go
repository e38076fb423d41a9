package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/wallet-tracker/internal/monitoring"
)

func TestMetricsHandler_Handler(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()

	// Register a test metric
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "A test counter for metrics endpoint testing",
	})
	registry.MustRegister(testCounter)
	testCounter.Inc()

	handler := New(registry, "")

	router := gin.New()
	router.GET("/metrics", handler.Handler())

	// Act
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	responseBody := w.Body.String()

	// Check that the response contains Prometheus metrics format
	assert.Contains(t, responseBody, "# HELP test_counter A test counter for metrics endpoint testing")
	assert.Contains(t, responseBody, "# TYPE test_counter counter")
	assert.Contains(t, responseBody, "test_counter 1")

	// Check content type
	contentType := w.Header().Get("Content-Type")
	assert.True(t,
		strings.Contains(contentType, "text/plain") ||
			strings.Contains(contentType, "application/openmetrics-text"),
		"Expected Prometheus metrics content type, got: %s", contentType)
}

func TestMetricsHandler_EmptyRegistry(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	handler := New(registry, "")

	router := gin.New()
	router.GET("/metrics", handler.Handler())

	// Act
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	// Even with empty registry, should return valid response (might be empty but valid)
	contentType := w.Header().Get("Content-Type")
	assert.True(t,
		strings.Contains(contentType, "text/plain") ||
			strings.Contains(contentType, "application/openmetrics-text"),
		"Expected Prometheus metrics content type, got: %s", contentType)
}

func TestMetricsHandler_ServesTrackerMetrics(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	tracked := monitoring.NewMetrics()
	tracked.MustRegister(registry)

	tracked.RecordRun("cron", "completed", 12.5, 42)
	tracked.RecordFetchPage("base", "ok", 0.25)

	handler := New(registry, "")

	router := gin.New()
	router.GET("/metrics", handler.Handler())

	// Act
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	responseBody := w.Body.String()

	assert.Contains(t, responseBody, "wallet_tracker_runs_total{status=\"completed\",trigger=\"cron\"} 1")
	assert.Contains(t, responseBody, "wallet_tracker_transactions_exported 42")
	assert.Contains(t, responseBody, "wallet_tracker_fetch_pages_total{chain=\"base\",status=\"ok\"} 1")
}

func TestMetricsHandler_BearerSecret(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	handler := New(registry, "scrape-secret")

	router := gin.New()
	router.GET("/metrics", handler.Handler())

	// Act: no credentials
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Act: wrong credentials
	req = httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Act: correct credentials
	req = httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("Authorization", "Bearer scrape-secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}
