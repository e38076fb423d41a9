package controller

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/store"
)

// begin opens the run record. With a database attached the running row is
// visible to the API immediately, before any fetching starts.
func (c *Controller) begin(triggeredBy string) *model.AggregationRun {
	run := &model.AggregationRun{
		Status:      model.RunStatusRunning,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now().UTC(),
	}

	if c.db != nil {
		if _, err := c.store.AggregationRun.Create(c.db, run); err != nil {
			c.logger.Error("[begin][Create] failed to record run start", map[string]string{
				"error": err.Error(),
			})
		}
	}

	return run
}

// finalize stamps the run with its outcome and persists it together with its
// failed fetches in one transaction.
func (c *Controller) finalize(run *model.AggregationRun, report *model.Report, runErr error) {
	now := time.Now().UTC()
	run.FinishedAt = &now

	var failedFetches []model.FailedFetch
	if report != nil {
		applyReport(run, report)
		for _, pair := range report.FailedPairs {
			failedFetches = append(failedFetches, model.FailedFetch{
				Wallet:  pair.Wallet,
				ChainID: pair.ChainID,
				Reason:  pair.Reason,
			})
		}
	}
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.ErrorSummary = runErr.Error()
	}

	if c.metrics != nil {
		c.metrics.RecordRun(run.TriggeredBy, string(run.Status), now.Sub(run.StartedAt).Seconds(), run.Transactions)
	}

	if c.db == nil {
		run.FailedFetches = failedFetches
		return
	}

	err := store.DoInTx(c.db, func(tx *gorm.DB) error {
		if _, err := c.store.AggregationRun.Update(tx, run); err != nil {
			return err
		}

		for i := range failedFetches {
			failedFetches[i].RunID = run.ID
			if _, err := c.store.FailedFetch.Create(tx, &failedFetches[i]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.logger.Error("[finalize][DoInTx] failed to persist run", map[string]string{
			"error": err.Error(),
		})
	}

	run.FailedFetches = failedFetches
}

func applyReport(run *model.AggregationRun, report *model.Report) {
	run.Status = report.Status
	run.PairsTotal = report.Stats.PairsTotal
	run.PairsFailed = len(report.FailedPairs)
	run.RawFetched = report.Stats.RawFetched
	run.Normalized = report.Stats.Normalized
	run.FilteredOut = report.Stats.FilteredOut
	run.MalformedDropped = report.Stats.MalformedDropped
	run.DuplicatesDropped = report.Stats.DuplicatesDropped
	run.Transactions = report.Buckets.Total()
	run.Years = len(report.Buckets)
}
