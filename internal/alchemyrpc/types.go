package alchemyrpc

// RawTransfer mirrors one entry of an alchemy_getAssetTransfers response.
// The shape is Alchemy's own; nothing outside the normalizer should consume
// it directly.
type RawTransfer struct {
	UniqueID    string            `json:"uniqueId"`
	Hash        string            `json:"hash"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Value       *float64          `json:"value"`
	Asset       string            `json:"asset"`
	Category    string            `json:"category"`
	BlockNum    string            `json:"blockNum"`
	RawContract RawContract       `json:"rawContract"`
	Metadata    *TransferMetadata `json:"metadata,omitempty"`
}

// RawContract carries the unscaled on-chain amount as hex quantities.
type RawContract struct {
	Value   string `json:"value"`
	Address string `json:"address"`
	Decimal string `json:"decimal"`
}

type TransferMetadata struct {
	BlockTimestamp string `json:"blockTimestamp"`
}

// TransfersPage is one page of raw transfers plus the cursor for the next
// page. An empty NextCursor means the result set is exhausted.
type TransfersPage struct {
	Transfers  []RawTransfer `json:"transfers"`
	NextCursor string        `json:"next_cursor"`
}

type assetTransfersParams struct {
	FromBlock         string   `json:"fromBlock"`
	ToBlock           string   `json:"toBlock"`
	ToAddress         string   `json:"toAddress"`
	ContractAddresses []string `json:"contractAddresses,omitempty"`
	Category          []string `json:"category"`
	MaxCount          string   `json:"maxCount"`
	Order             string   `json:"order"`
	WithMetadata      bool     `json:"withMetadata"`
	PageKey           string   `json:"pageKey,omitempty"`
}

type assetTransfersResult struct {
	Transfers []RawTransfer `json:"transfers"`
	PageKey   string        `json:"pageKey"`
}

type blockHeader struct {
	Number    string `json:"number"`
	Timestamp string `json:"timestamp"`
}
