package controller

import (
	"context"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IController interface {
	// Execute runs one aggregation synchronously: fetch, merge, export,
	// persist. It returns the finished run record.
	Execute(ctx context.Context, triggeredBy string) (*model.AggregationRun, error)

	// Trigger starts a run in the background and returns the in-flight run
	// record. It fails fast with ErrRunInProgress when another run already
	// holds the slot.
	Trigger(triggeredBy string) (*model.AggregationRun, error)

	// InFlight reports whether a run is currently executing.
	InFlight() bool

	// ListRuns returns recent runs, newest first.
	ListRuns(limit int) ([]model.AggregationRun, error)

	// LatestRun returns the most recent run.
	LatestRun() (*model.AggregationRun, error)
}
