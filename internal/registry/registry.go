package registry

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

var ErrUnknownChain = errors.New("chain is not configured")

const defaultMaxPageSize = 1000

// Registry holds the static chain list and token filter configuration loaded
// from the chains config file. It is populated once at startup and read-only
// afterwards.
type Registry struct {
	chains   []model.Chain
	filters  map[string]TokenFilter
	maxCount int
}

type chainsFile struct {
	MaxCount int                  `json:"max_count"`
	Tokens   map[string]tokenRule `json:"tokens"`
	Chains   map[string]chainEntry `json:"chains"`
}

type tokenRule struct {
	MinAmount float64 `json:"min_amount"`
}

type chainEntry struct {
	Name        string            `json:"name"`
	RPCURL      string            `json:"rpc_url"`
	Tokens      map[string]string `json:"tokens"`
	MaxPageSize int               `json:"max_page_size"`
}

// New reads the chains config file, substitutes the API key into each chain's
// RPC URL and validates the result. Any problem here is fatal: the registry
// is part of the run's pre-flight.
func New(path, apiKey string) (IRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chains config")
	}

	var file chainsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse chains config")
	}

	if len(file.Chains) == 0 {
		return nil, errors.New("chains config has no chains")
	}
	if file.MaxCount <= 0 {
		return nil, errors.New("chains config max_count must be positive")
	}

	ids := make([]string, 0, len(file.Chains))
	for id := range file.Chains {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r := &Registry{
		filters:  make(map[string]TokenFilter, len(ids)),
		maxCount: file.MaxCount,
	}

	for _, id := range ids {
		entry := file.Chains[id]
		if entry.Name == "" {
			return nil, errors.Errorf("chain %s has no name", id)
		}
		if entry.RPCURL == "" {
			return nil, errors.Errorf("chain %s has no rpc_url", id)
		}

		for symbol, contract := range entry.Tokens {
			if !common.IsHexAddress(contract) {
				return nil, errors.Errorf("chain %s token %s has invalid contract address %s", id, symbol, contract)
			}
		}

		maxPageSize := entry.MaxPageSize
		if maxPageSize <= 0 {
			maxPageSize = defaultMaxPageSize
		}

		r.chains = append(r.chains, model.Chain{
			ID:          id,
			Name:        entry.Name,
			RPCURL:      strings.ReplaceAll(entry.RPCURL, "{ALCHEMY_KEY}", apiKey),
			Tokens:      entry.Tokens,
			MaxPageSize: maxPageSize,
		})
		r.filters[id] = newTokenFilter(entry.Tokens, file.Tokens)
	}

	return r, nil
}

// Chains returns every configured chain in a stable (id-sorted) order, so
// pair enumeration is deterministic run to run.
func (r *Registry) Chains() []model.Chain {
	return r.chains
}

// Chain resolves a chain id. Referencing an id with no matching entry is a
// configuration error.
func (r *Registry) Chain(id string) (model.Chain, error) {
	for _, chain := range r.chains {
		if chain.ID == id {
			return chain, nil
		}
	}

	return model.Chain{}, errors.Wrap(ErrUnknownChain, id)
}

func (r *Registry) TokenFilter(chainID string) (TokenFilter, error) {
	filter, ok := r.filters[chainID]
	if !ok {
		return TokenFilter{}, errors.Wrap(ErrUnknownChain, chainID)
	}

	return filter, nil
}

func (r *Registry) MaxCount() int {
	return r.maxCount
}
