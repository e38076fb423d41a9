package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/model"
)

func gatherNames(t *testing.T, registry *prometheus.Registry) map[string]float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	found := make(map[string]float64)
	for _, mf := range families {
		value := float64(0)
		metric := mf.GetMetric()[0]
		switch {
		case metric.GetCounter() != nil:
			value = metric.GetCounter().GetValue()
		case metric.GetGauge() != nil:
			value = metric.GetGauge().GetValue()
		case metric.GetHistogram() != nil:
			value = float64(metric.GetHistogram().GetSampleCount())
		}
		found[mf.GetName()] = value
	}

	return found
}

func TestHTTPMetricsMiddleware_RecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := NewMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(metrics))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	found := gatherNames(t, registry)
	assert.Equal(t, float64(1), found["wallet_tracker_http_requests_total"])
	assert.Equal(t, float64(1), found["wallet_tracker_http_request_duration_seconds"])
}

func TestMetrics_RecordRun(t *testing.T) {
	metrics := NewMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	metrics.RecordRun("cron", "completed", 42.5, 120)

	found := gatherNames(t, registry)
	assert.Equal(t, float64(1), found["wallet_tracker_runs_total"])
	assert.Equal(t, float64(1), found["wallet_tracker_run_duration_seconds"])
	assert.Equal(t, float64(120), found["wallet_tracker_transactions_exported"])
	assert.Greater(t, found["wallet_tracker_last_run_timestamp_seconds"], float64(0))
}

type staticFetcher struct {
	page *alchemyrpc.TransfersPage
	err  error
}

func (f *staticFetcher) FetchPage(context.Context, string, model.Chain, string, int) (*alchemyrpc.TransfersPage, error) {
	return f.page, f.err
}

func TestObservedFetcher_RecordsOutcomes(t *testing.T) {
	metrics := NewMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	chain := model.Chain{ID: "ethereum", Name: "Ethereum"}

	ok := NewObservedFetcher(&staticFetcher{page: &alchemyrpc.TransfersPage{}}, metrics)
	_, err := ok.FetchPage(context.Background(), "0xwallet", chain, "", 100)
	require.NoError(t, err)

	failing := NewObservedFetcher(&staticFetcher{err: errors.New("boom")}, metrics)
	_, err = failing.FetchPage(context.Background(), "0xwallet", chain, "", 100)
	require.Error(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "wallet_tracker_fetch_pages_total" {
			continue
		}

		require.Len(t, mf.GetMetric(), 2, "one series per outcome")
		for _, metric := range mf.GetMetric() {
			assert.Equal(t, float64(1), metric.GetCounter().GetValue())
		}
	}
}
