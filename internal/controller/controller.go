package controller

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/aggregator"
	"github.com/dwarvesf/wallet-tracker/internal/exporter"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/monitoring"
	"github.com/dwarvesf/wallet-tracker/internal/store"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
	"github.com/dwarvesf/wallet-tracker/internal/utils/webhook"
)

var (
	// ErrRunInProgress rejects a trigger while another run is executing. Runs
	// never overlap.
	ErrRunInProgress = errors.New("an aggregation run is already in progress")

	// ErrHistoryUnavailable is returned by history reads when the controller
	// runs without a database (one-shot mode).
	ErrHistoryUnavailable = errors.New("run history is not available without a database")
)

const (
	defaultRunsPageSize = 20
	maxRunsPageSize     = 100
)

type Controller struct {
	aggregator aggregator.IAggregator
	exporter   exporter.IExporter
	store      *store.Store
	db         *gorm.DB
	metrics    *monitoring.Metrics
	logger     *logger.Logger
	config     *config.AppConfig
	webhook    *webhook.Client

	mu      sync.Mutex
	running bool
}

// New wires the run lifecycle. db and metrics may be nil: one-shot runs
// execute the full pipeline but keep no history and export no metrics.
func New(
	aggregator aggregator.IAggregator,
	exporter exporter.IExporter,
	s *store.Store,
	db *gorm.DB,
	metrics *monitoring.Metrics,
	logger *logger.Logger,
	config *config.AppConfig,
) IController {
	return &Controller{
		aggregator: aggregator,
		exporter:   exporter,
		store:      s,
		db:         db,
		metrics:    metrics,
		logger:     logger,
		config:     config,
		webhook:    webhook.New(logger),
	}
}

func (c *Controller) Execute(ctx context.Context, triggeredBy string) (*model.AggregationRun, error) {
	if !c.tryAcquire() {
		return nil, ErrRunInProgress
	}
	defer c.release()

	run := c.begin(triggeredBy)
	c.runOnce(ctx, run)

	if run.Status == model.RunStatusFailed {
		if run.ErrorSummary != "" {
			return run, errors.New(run.ErrorSummary)
		}
		return run, errors.New("aggregation run failed")
	}

	return run, nil
}

func (c *Controller) Trigger(triggeredBy string) (*model.AggregationRun, error) {
	if !c.tryAcquire() {
		return nil, ErrRunInProgress
	}

	run := c.begin(triggeredBy)

	// The caller gets a snapshot: the background goroutine keeps mutating
	// the original until the run finishes.
	snapshot := *run

	go func() {
		defer c.release()
		c.runOnce(context.Background(), run)
	}()

	return &snapshot, nil
}

func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

func (c *Controller) ListRuns(limit int) ([]model.AggregationRun, error) {
	if c.db == nil {
		return nil, ErrHistoryUnavailable
	}

	if limit <= 0 {
		limit = defaultRunsPageSize
	}
	if limit > maxRunsPageSize {
		limit = maxRunsPageSize
	}

	return c.store.AggregationRun.List(c.db, limit)
}

func (c *Controller) LatestRun() (*model.AggregationRun, error) {
	if c.db == nil {
		return nil, ErrHistoryUnavailable
	}

	return c.store.AggregationRun.GetLatest(c.db)
}

// runOnce drives one aggregation to its terminal state. Failures land in the
// run record, never in a half-written history row.
func (c *Controller) runOnce(ctx context.Context, run *model.AggregationRun) {
	report, err := c.aggregator.Run(ctx)
	if err != nil {
		c.logger.Error("[runOnce][Run] aggregation aborted", map[string]string{
			"error": err.Error(),
		})
		c.finalize(run, nil, err)
		return
	}

	if err := c.exporter.Export(ctx, report); err != nil {
		c.logger.Error("[runOnce][Export] report export failed", map[string]string{
			"error": err.Error(),
		})
		c.finalize(run, report, err)
		return
	}

	c.finalize(run, report, nil)

	// Dead-man's-switch ping, only for runs with nothing missing
	if run.Status == model.RunStatusCompleted {
		c.webhook.CallUptimeWebhook(ctx, c.config.Tracker.UptimeWebhookURL)
	}
}

func (c *Controller) tryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return false
	}
	c.running = true

	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}
