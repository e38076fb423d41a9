package registry

// TokenFilter is the set of token symbols tracked on one chain, together
// with each symbol's minimum amount threshold. A chain configured without
// tokens accepts every symbol.
type TokenFilter struct {
	minAmounts map[string]float64
}

// NewTokenFilter builds a filter from symbol -> minimum amount rules. A nil
// or empty map yields a filter that accepts every symbol.
func NewTokenFilter(minAmounts map[string]float64) TokenFilter {
	if len(minAmounts) == 0 {
		return TokenFilter{}
	}

	rules := make(map[string]float64, len(minAmounts))
	for symbol, minAmount := range minAmounts {
		rules[symbol] = minAmount
	}

	return TokenFilter{minAmounts: rules}
}

func newTokenFilter(chainTokens map[string]string, globalRules map[string]tokenRule) TokenFilter {
	if len(chainTokens) == 0 {
		return TokenFilter{}
	}

	minAmounts := make(map[string]float64, len(chainTokens))
	for symbol := range chainTokens {
		minAmounts[symbol] = globalRules[symbol].MinAmount
	}

	return TokenFilter{minAmounts: minAmounts}
}

// AllowsAll reports whether the filter places no restriction on symbols.
func (f TokenFilter) AllowsAll() bool {
	return f.minAmounts == nil
}

func (f TokenFilter) Allows(symbol string) bool {
	if f.AllowsAll() {
		return true
	}

	_, ok := f.minAmounts[symbol]
	return ok
}

// MinAmount returns the configured minimum amount for a symbol, zero when
// none is set.
func (f TokenFilter) MinAmount(symbol string) float64 {
	return f.minAmounts[symbol]
}
