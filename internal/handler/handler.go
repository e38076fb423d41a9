package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/controller"
	"github.com/dwarvesf/wallet-tracker/internal/handler/health"
	"github.com/dwarvesf/wallet-tracker/internal/handler/metrics"
	"github.com/dwarvesf/wallet-tracker/internal/handler/run"
	"github.com/dwarvesf/wallet-tracker/internal/registry"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

type Handler struct {
	RunHandler     run.IHandler
	HealthHandler  health.IHealthHandler
	MetricsHandler *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	ctrl controller.IController,
	fetcher alchemyrpc.IAlchemyRPC,
	reg registry.IRegistry,
	db *gorm.DB,
	metricsRegistry *prometheus.Registry) *Handler {
	return &Handler{
		RunHandler:     run.New(ctrl, logger, appConfig),
		HealthHandler:  health.New(appConfig, logger, db, fetcher, reg),
		MetricsHandler: metrics.New(metricsRegistry, appConfig.ApiServer.MetricsSecret),
	}
}
