package model

import (
	"time"

	"gorm.io/gorm"
)

// AggregationRun is the persisted record of one tracker run, written when the
// run finishes together with its failed fetches in a single transaction.
type AggregationRun struct {
	gorm.Model
	Status            RunStatus  `gorm:"column:status;type:varchar(50);not null"`
	TriggeredBy       string     `gorm:"column:triggered_by;type:varchar(50);not null"`
	StartedAt         time.Time  `gorm:"column:started_at;not null"`
	FinishedAt        *time.Time `gorm:"column:finished_at"`
	PairsTotal        int        `gorm:"column:pairs_total"`
	PairsFailed       int        `gorm:"column:pairs_failed"`
	RawFetched        int        `gorm:"column:raw_fetched"`
	Normalized        int        `gorm:"column:normalized"`
	FilteredOut       int        `gorm:"column:filtered_out"`
	MalformedDropped  int        `gorm:"column:malformed_dropped"`
	DuplicatesDropped int        `gorm:"column:duplicates_dropped"`
	Transactions      int        `gorm:"column:transactions"`
	Years             int        `gorm:"column:years"`
	ErrorSummary      string     `gorm:"column:error_summary;type:text"`

	FailedFetches []FailedFetch `gorm:"foreignKey:RunID"`
}

func (AggregationRun) TableName() string {
	return "aggregation_runs"
}

type FailedFetch struct {
	gorm.Model
	RunID   uint   `gorm:"column:run_id;not null;index"`
	Wallet  string `gorm:"column:wallet;type:varchar(255);not null"`
	ChainID string `gorm:"column:chain_id;type:varchar(100);not null"`
	Reason  string `gorm:"column:reason;type:text"`
}

func (FailedFetch) TableName() string {
	return "failed_fetches"
}
