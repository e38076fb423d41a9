package model

type RunStatus string

const (
	// RunStatusRunning only ever appears on persisted runs that are still in
	// flight; a finished report is never "running".
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// FailedPair identifies one wallet/chain fetch that was abandoned after its
// retry budget ran out. Pages collected for the pair before the failure are
// discarded; the report carries only complete pairs.
type FailedPair struct {
	Wallet  string `json:"wallet"`
	ChainID string `json:"chain_id"`
	Reason  string `json:"reason"`
}

type RunStats struct {
	PairsTotal        int `json:"pairs_total"`
	RawFetched        int `json:"raw_fetched"`
	Normalized        int `json:"normalized"`
	FilteredOut       int `json:"filtered_out"`
	MalformedDropped  int `json:"malformed_dropped"`
	DuplicatesDropped int `json:"duplicates_dropped"`
}

// Report is the outcome of one aggregation run: the year-bucketed
// transactions plus enough detail to tell a clean run from a degraded one.
// Status is never "completed" when FailedPairs is non-empty.
type Report struct {
	Buckets     YearBuckets  `json:"buckets"`
	Status      RunStatus    `json:"status"`
	FailedPairs []FailedPair `json:"failed_pairs,omitempty"`
	Stats       RunStats     `json:"stats"`
}
