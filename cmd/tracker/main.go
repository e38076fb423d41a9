package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dwarvesf/wallet-tracker/internal/aggregator"
	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/controller"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/registry"
	"github.com/dwarvesf/wallet-tracker/internal/server"
	"github.com/dwarvesf/wallet-tracker/internal/store"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

// One-shot mode: run a single aggregation, write the report and exit.
// No database, no metrics, no HTTP server.
func main() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	if err := appConfig.Validate(); err != nil {
		logger.Fatal("[main] invalid configuration", map[string]string{
			"error": err.Error(),
		})
	}

	reg, err := registry.New(appConfig.Alchemy.ChainsConfigPath, appConfig.Alchemy.APIKey)
	if err != nil {
		logger.Fatal("[main] failed to load chains config", map[string]string{
			"error": err.Error(),
			"path":  appConfig.Alchemy.ChainsConfigPath,
		})
	}

	fetcher := alchemyrpc.New(logger)
	agg := aggregator.New(fetcher, reg, appConfig, logger)
	exp := server.NewExporter(appConfig, logger)
	ctrl := controller.New(agg, exp, store.New(), nil, nil, logger, appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := ctrl.Execute(ctx, "cli")
	if err != nil {
		logger.Error("[main][Execute] aggregation run failed", map[string]string{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	if run.Status == model.RunStatusPartial {
		logger.Warn("[main] finished with failed wallet/chain pairs", map[string]string{
			"pairs_failed": strconv.Itoa(run.PairsFailed),
			"pairs_total":  strconv.Itoa(run.PairsTotal),
		})
	}

	logger.Info("[main] aggregation run finished", map[string]string{
		"status":       string(run.Status),
		"transactions": strconv.Itoa(run.Transactions),
		"years":        strconv.Itoa(run.Years),
	})
}
