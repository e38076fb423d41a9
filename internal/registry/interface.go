package registry

import (
	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IRegistry interface {
	// Chains returns every configured chain in a stable (id-sorted) order.
	Chains() []model.Chain

	// Chain resolves a chain id to its configuration.
	Chain(id string) (model.Chain, error)

	// TokenFilter returns the token filter for one chain.
	TokenFilter(chainID string) (TokenFilter, error)

	// MaxCount is the per-pair cap on raw records fetched before pagination
	// stops.
	MaxCount() int
}
