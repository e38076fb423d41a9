package model

import (
	"sort"
	"strings"
)

// Chain is one supported network and its API access parameters. Chains are
// built once at startup from configuration and never mutated afterwards.
type Chain struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	RPCURL      string            `json:"rpc_url"`
	Tokens      map[string]string `json:"tokens"`
	MaxPageSize int               `json:"max_page_size"`
}

// ContractAddresses returns the configured token contract addresses in a
// deterministic (symbol-sorted) order, suitable for request building.
func (c Chain) ContractAddresses() []string {
	symbols := make([]string, 0, len(c.Tokens))
	for symbol := range c.Tokens {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	addresses := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		addresses = append(addresses, c.Tokens[symbol])
	}

	return addresses
}

// SymbolForContract resolves a token contract address back to its configured
// symbol. Returns an empty string when the address is not configured for this
// chain.
func (c Chain) SymbolForContract(address string) string {
	for symbol, contract := range c.Tokens {
		if strings.EqualFold(contract, address) {
			return symbol
		}
	}

	return ""
}
