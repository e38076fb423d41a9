package model

import (
	"sort"
	"time"
)

type TransactionType string

const (
	Out      TransactionType = "out"
	In       TransactionType = "in"
	Transfer TransactionType = "transfer"
)

// Transaction is the normalized shape every chain-specific transfer record is
// reduced to. Hash is the deduplication key across a whole aggregation run:
// once a hash has been emitted, later occurrences from any wallet/chain pair
// are discarded.
type Transaction struct {
	Hash         string          `json:"hash"`
	Wallet       string          `json:"wallet"`
	ChainID      string          `json:"chain_id"`
	ChainName    string          `json:"chain_name"`
	BlockNumber  uint64          `json:"block_number"`
	Timestamp    time.Time       `json:"timestamp"`
	Year         int             `json:"year"`
	TokenSymbol  string          `json:"token_symbol"`
	Amount       float64         `json:"amount"`
	Counterparty string          `json:"counterparty"`
	Type         TransactionType `json:"type"`
}

// YearBuckets groups transactions by the UTC calendar year they occurred in.
// Buckets are built fresh per aggregation run and discarded after export.
type YearBuckets map[int][]Transaction

func (b YearBuckets) Add(tx Transaction) {
	b[tx.Year] = append(b[tx.Year], tx)
}

// Years returns the bucket keys in ascending order.
func (b YearBuckets) Years() []int {
	years := make([]int, 0, len(b))
	for year := range b {
		years = append(years, year)
	}
	sort.Ints(years)

	return years
}

func (b YearBuckets) Total() int {
	total := 0
	for _, txs := range b {
		total += len(txs)
	}

	return total
}
