package aggregator

import (
	"context"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IAggregator interface {
	// Run fetches, normalizes and merges transfers for every configured
	// wallet/chain pair. Pair-level failures are recorded inside the report;
	// the returned error is reserved for configuration problems that abort
	// the run before any fetching starts.
	Run(ctx context.Context) (*model.Report, error)
}
