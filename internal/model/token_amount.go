package model

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// TokenAmount is an ERC-20 amount as reported on chain: the unscaled integer
// value plus the token's decimal count.
type TokenAmount struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

// ParseTokenAmount builds a TokenAmount from the hex quantity strings carried
// in an asset transfer's rawContract block.
func ParseTokenAmount(valueHex, decimalHex string) (*TokenAmount, error) {
	value, err := hexutil.DecodeBig(valueHex)
	if err != nil {
		return nil, errors.Wrap(err, "invalid raw contract value")
	}

	decimal, err := hexutil.DecodeUint64(decimalHex)
	if err != nil {
		return nil, errors.Wrap(err, "invalid raw contract decimal")
	}

	return &TokenAmount{
		Value:   value.String(),
		Decimal: int(decimal),
	}, nil
}

func (t *TokenAmount) ToFloat() float64 {
	num := new(big.Int)
	num.SetString(t.Value, 10)

	floatNum := new(big.Float).SetInt(num)

	divisor := new(big.Float).SetFloat64(math.Pow(10, float64(t.Decimal)))

	floatNum.Quo(floatNum, divisor)

	result, _ := floatNum.Float64()
	return result
}
