package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/wallet-tracker/internal/aggregator"
	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/controller"
	"github.com/dwarvesf/wallet-tracker/internal/exporter"
	"github.com/dwarvesf/wallet-tracker/internal/exporter/gsheet"
	"github.com/dwarvesf/wallet-tracker/internal/exporter/xlsx"
	"github.com/dwarvesf/wallet-tracker/internal/monitoring"
	"github.com/dwarvesf/wallet-tracker/internal/registry"
	"github.com/dwarvesf/wallet-tracker/internal/store"
	pgstore "github.com/dwarvesf/wallet-tracker/internal/store/postgres"
	"github.com/dwarvesf/wallet-tracker/internal/transport/http"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	if err := appConfig.Validate(); err != nil {
		logger.Fatal("[Init] invalid configuration", map[string]string{
			"error": err.Error(),
		})
	}

	reg, err := registry.New(appConfig.Alchemy.ChainsConfigPath, appConfig.Alchemy.APIKey)
	if err != nil {
		logger.Fatal("[Init] failed to load chains config", map[string]string{
			"error": err.Error(),
			"path":  appConfig.Alchemy.ChainsConfigPath,
		})
	}

	db := pgstore.New(appConfig, logger)
	s := store.New()

	metricsRegistry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics()
	metrics.MustRegister(metricsRegistry)

	fetcher := monitoring.NewObservedFetcher(alchemyrpc.New(logger), metrics)

	agg := aggregator.New(fetcher, reg, appConfig, logger)
	exp := NewExporter(appConfig, logger)
	ctrl := controller.New(agg, exp, s, db, metrics, logger, appConfig)

	c := cron.New()
	if period := appConfig.Tracker.RunPeriod; period != "" {
		_, err := c.AddFunc(period, func() {
			if _, err := ctrl.Trigger("cron"); err != nil {
				logger.Info("[Init][cron] scheduled run skipped", map[string]string{
					"error": err.Error(),
				})
			}
		})
		if err != nil {
			logger.Fatal("[Init] invalid tracker run period", map[string]string{
				"error":  err.Error(),
				"period": period,
			})
		}
		c.Start()
	}

	if appConfig.Tracker.RunOnStart {
		if _, err := ctrl.Trigger("startup"); err != nil {
			logger.Error("[Init] startup run failed to launch", map[string]string{
				"error": err.Error(),
			})
		}
	}

	httpServer := http.NewHttpServer(appConfig, logger, ctrl, fetcher, reg, db, metrics, metricsRegistry)

	if appConfig.ApiServer.Port != "" {
		httpServer.Run(":" + appConfig.ApiServer.Port)
	} else {
		httpServer.Run()
	}
}

// NewExporter picks the export backend from configuration. xlsx is the
// default; gsheet pushes the same rows to a Google Sheets spreadsheet.
func NewExporter(appConfig *config.AppConfig, logger *logger.Logger) exporter.IExporter {
	if appConfig.Exporter.Backend == "gsheet" {
		return gsheet.New(appConfig, logger)
	}

	return xlsx.New(appConfig, logger)
}
