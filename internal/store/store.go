package store

import (
	"github.com/dwarvesf/wallet-tracker/internal/store/aggregationrun"
	"github.com/dwarvesf/wallet-tracker/internal/store/failedfetch"
)

type Store struct {
	AggregationRun aggregationrun.IStore
	FailedFetch    failedfetch.IStore
}

func New() *Store {
	return &Store{
		AggregationRun: aggregationrun.New(),
		FailedFetch:    failedfetch.New(),
	}
}
