package aggregator

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/normalize"
	"github.com/dwarvesf/wallet-tracker/internal/registry"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

const defaultConcurrency = 4

type aggregator struct {
	fetcher     alchemyrpc.IAlchemyRPC
	registry    registry.IRegistry
	wallets     []string
	concurrency int
	logger      *logger.Logger
}

func New(fetcher alchemyrpc.IAlchemyRPC, reg registry.IRegistry, appConfig *config.AppConfig, logger *logger.Logger) IAggregator {
	concurrency := appConfig.Tracker.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &aggregator{
		fetcher:     fetcher,
		registry:    reg,
		wallets:     appConfig.Tracker.Wallets,
		concurrency: concurrency,
		logger:      logger,
	}
}

// pair is one unit of fetch work: every transfer received by one wallet on
// one chain.
type pair struct {
	wallet string
	chain  model.Chain
}

// pairResult is a pair's locally accumulated outcome. Workers never touch
// shared aggregation state; everything global happens in merge.
type pairResult struct {
	pair         pair
	transactions []model.Transaction
	rawFetched   int
	filteredOut  int
	malformed    int
	state        pageState
	err          error
}

func (a *aggregator) Run(ctx context.Context) (*model.Report, error) {
	if err := a.preflight(); err != nil {
		return nil, err
	}

	pairs := a.pairs()
	a.logger.Info("[Run] starting aggregation", map[string]string{
		"wallets":     strconv.Itoa(len(a.wallets)),
		"chains":      strconv.Itoa(len(a.registry.Chains())),
		"pairs":       strconv.Itoa(len(pairs)),
		"concurrency": strconv.Itoa(a.concurrency),
	})

	results := make([]pairResult, len(pairs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < a.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = a.fetchPair(ctx, pairs[idx])
			}
		}()
	}

	for idx := range pairs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return a.merge(results), nil
}

// preflight validates run inputs before any network work. Failures here are
// configuration errors and abort the run outright.
func (a *aggregator) preflight() error {
	if len(a.wallets) == 0 {
		return errors.New("no wallets configured")
	}

	for _, wallet := range a.wallets {
		if !common.IsHexAddress(wallet) {
			return errors.Errorf("invalid wallet address: %s", wallet)
		}
	}

	if len(a.registry.Chains()) == 0 {
		return errors.New("no chains configured")
	}

	return nil
}

// pairs enumerates wallet x chain in a stable order: wallets as configured,
// chains id-sorted. Merge order, and with it duplicate resolution, follows
// this order on every run.
func (a *aggregator) pairs() []pair {
	chains := a.registry.Chains()

	pairs := make([]pair, 0, len(a.wallets)*len(chains))
	for _, wallet := range a.wallets {
		for _, chain := range chains {
			pairs = append(pairs, pair{wallet: wallet, chain: chain})
		}
	}

	return pairs
}

// fetchPair pages through one pair's transfers and normalizes them into the
// pair's local result. A page request that exhausts its retries fails the
// whole pair; pages fetched before the failure are discarded at merge.
func (a *aggregator) fetchPair(ctx context.Context, p pair) pairResult {
	result := pairResult{pair: p}

	filter, err := a.registry.TokenFilter(p.chain.ID)
	if err != nil {
		result.err = err
		result.state = stateFailed
		return result
	}

	pageSize := a.registry.MaxCount()
	if p.chain.MaxPageSize < pageSize {
		pageSize = p.chain.MaxPageSize
	}

	pg := newPagination(a.registry.MaxCount())
	for pg.active() {
		page, err := a.fetcher.FetchPage(ctx, p.wallet, p.chain, pg.cursor, pageSize)
		if err != nil {
			pg.fail()
			result.err = errors.Wrapf(err, "failed to fetch transfers for %s on %s", p.wallet, p.chain.ID)
			break
		}

		pg.advance(page)

		for _, raw := range page.Transfers {
			tx, err := normalize.Normalize(raw, p.wallet, p.chain, filter)
			if err != nil {
				result.malformed++
				a.logger.Debug("[fetchPair][Normalize] dropping malformed transfer", map[string]string{
					"wallet": p.wallet,
					"chain":  p.chain.ID,
					"reason": err.Error(),
				})
				continue
			}
			if tx == nil {
				result.filteredOut++
				continue
			}

			result.transactions = append(result.transactions, *tx)
		}
	}

	result.rawFetched = pg.fetched
	result.state = pg.state

	if result.err != nil {
		a.logger.Error("[fetchPair] pair failed", map[string]string{
			"wallet": p.wallet,
			"chain":  p.chain.ID,
			"error":  result.err.Error(),
		})
		return result
	}

	a.logger.Info("[fetchPair] pair finished", map[string]string{
		"wallet":     p.wallet,
		"chain":      p.chain.ID,
		"state":      pg.state.String(),
		"rawFetched": strconv.Itoa(pg.fetched),
		"kept":       strconv.Itoa(len(result.transactions)),
	})

	return result
}

// merge folds every pair's local result into the global report. It runs on a
// single goroutine so duplicate resolution is deterministic: the first pair
// in enumeration order keeps the hash, later sightings are dropped.
func (a *aggregator) merge(results []pairResult) *model.Report {
	report := &model.Report{
		Buckets: model.YearBuckets{},
		Status:  model.RunStatusCompleted,
	}
	report.Stats.PairsTotal = len(results)

	seen := make(map[string]struct{})
	var all []model.Transaction

	for _, res := range results {
		if res.err != nil {
			report.FailedPairs = append(report.FailedPairs, model.FailedPair{
				Wallet:  res.pair.wallet,
				ChainID: res.pair.chain.ID,
				Reason:  res.err.Error(),
			})
			continue
		}

		report.Stats.RawFetched += res.rawFetched
		report.Stats.FilteredOut += res.filteredOut
		report.Stats.MalformedDropped += res.malformed
		report.Stats.Normalized += len(res.transactions)

		for _, tx := range res.transactions {
			if _, dup := seen[tx.Hash]; dup {
				report.Stats.DuplicatesDropped++
				continue
			}

			seen[tx.Hash] = struct{}{}
			all = append(all, tx)
		}
	}

	// Chronological order with the hash as tie-breaker keeps report output
	// byte-for-byte identical between runs over the same data.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Hash < all[j].Hash
		}
		return all[i].Timestamp.Before(all[j].Timestamp)
	})

	for _, tx := range all {
		report.Buckets.Add(tx)
	}

	switch {
	case len(report.FailedPairs) == len(results):
		report.Status = model.RunStatusFailed
	case len(report.FailedPairs) > 0:
		report.Status = model.RunStatusPartial
	}

	a.logger.Info("[merge] aggregation finished", map[string]string{
		"status":     string(report.Status),
		"pairs":      strconv.Itoa(report.Stats.PairsTotal),
		"failed":     strconv.Itoa(len(report.FailedPairs)),
		"rawFetched": strconv.Itoa(report.Stats.RawFetched),
		"kept":       strconv.Itoa(report.Buckets.Total()),
		"duplicates": strconv.Itoa(report.Stats.DuplicatesDropped),
	})

	return report
}
