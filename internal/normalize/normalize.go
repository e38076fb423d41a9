package normalize

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/registry"
)

// ErrMalformedRecord marks a transfer whose required fields (hash, timestamp,
// amount) are absent or unparsable. Such records are dropped and counted by
// the caller, never fatal to a run.
var ErrMalformedRecord = errors.New("malformed transfer record")

// Normalize reduces one raw Alchemy transfer into the common Transaction
// shape. It returns (nil, nil) when the record is filtered out: the wallet is
// not the receiving party, the token is outside the chain's filter set, or
// the amount is below the token's minimum.
func Normalize(raw alchemyrpc.RawTransfer, wallet string, chain model.Chain, filter registry.TokenFilter) (*model.Transaction, error) {
	if !strings.EqualFold(raw.To, wallet) {
		return nil, nil
	}

	symbol := chain.SymbolForContract(raw.RawContract.Address)
	if symbol == "" {
		symbol = raw.Asset
	}
	if !filter.Allows(symbol) {
		return nil, nil
	}

	if raw.Hash == "" {
		return nil, errors.Wrap(ErrMalformedRecord, "missing hash")
	}

	amount, err := resolveAmount(raw)
	if err != nil {
		return nil, err
	}
	if amount < filter.MinAmount(symbol) {
		return nil, nil
	}

	timestamp, err := resolveTimestamp(raw)
	if err != nil {
		return nil, err
	}

	var blockNumber uint64
	if parsed, err := hexutil.DecodeUint64(raw.BlockNum); err == nil {
		blockNumber = parsed
	}

	return &model.Transaction{
		Hash:         raw.Hash,
		Wallet:       wallet,
		ChainID:      chain.ID,
		ChainName:    chain.Name,
		BlockNumber:  blockNumber,
		Timestamp:    timestamp,
		Year:         timestamp.Year(),
		TokenSymbol:  symbol,
		Amount:       amount,
		Counterparty: raw.From,
		Type:         model.In,
	}, nil
}

// resolveAmount prefers Alchemy's decimal-adjusted value and falls back to
// the unscaled rawContract quantities when the value is null.
func resolveAmount(raw alchemyrpc.RawTransfer) (float64, error) {
	if raw.Value != nil {
		return *raw.Value, nil
	}

	tokenAmount, err := model.ParseTokenAmount(raw.RawContract.Value, raw.RawContract.Decimal)
	if err != nil {
		return 0, errors.Wrap(ErrMalformedRecord, "missing amount")
	}

	return tokenAmount.ToFloat(), nil
}

// resolveTimestamp derives the transfer's UTC timestamp. Year bucketing uses
// UTC calendar years so results do not depend on the caller's timezone.
func resolveTimestamp(raw alchemyrpc.RawTransfer) (time.Time, error) {
	if raw.Metadata == nil || raw.Metadata.BlockTimestamp == "" {
		return time.Time{}, errors.Wrap(ErrMalformedRecord, "missing timestamp")
	}

	timestamp, err := time.Parse(time.RFC3339, raw.Metadata.BlockTimestamp)
	if err != nil {
		return time.Time{}, errors.Wrap(ErrMalformedRecord, "unparsable timestamp")
	}

	return timestamp.UTC(), nil
}
