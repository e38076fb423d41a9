package monitoring

import (
	"context"
	"time"

	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/model"
)

// ObservedFetcher wraps the transfer client with per-page metrics. The
// aggregator sees the same interface either way.
type ObservedFetcher struct {
	base    alchemyrpc.IAlchemyRPC
	metrics *Metrics
}

func NewObservedFetcher(base alchemyrpc.IAlchemyRPC, metrics *Metrics) alchemyrpc.IAlchemyRPC {
	return &ObservedFetcher{
		base:    base,
		metrics: metrics,
	}
}

func (f *ObservedFetcher) FetchPage(ctx context.Context, wallet string, chain model.Chain, cursor string, pageSize int) (*alchemyrpc.TransfersPage, error) {
	start := time.Now()

	page, err := f.base.FetchPage(ctx, wallet, chain, cursor, pageSize)

	status := "ok"
	if err != nil {
		status = "error"
	}
	f.metrics.RecordFetchPage(chain.ID, status, time.Since(start).Seconds())

	return page, err
}
