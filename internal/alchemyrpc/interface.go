package alchemyrpc

import (
	"context"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IAlchemyRPC interface {
	// FetchPage requests one page of incoming ERC-20 transfers for a wallet
	// on a chain. Pass an empty cursor for the first page; the returned
	// page's NextCursor continues the query. Transfers missing a block
	// timestamp are completed via eth_getBlockByNumber before they are
	// returned.
	FetchPage(ctx context.Context, wallet string, chain model.Chain, cursor string, pageSize int) (*TransfersPage, error)
}
