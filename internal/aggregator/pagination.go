package aggregator

import (
	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
)

// pageState is the pagination lifecycle of one wallet/chain pair.
type pageState int

const (
	// stateFetching means more pages may follow the current cursor.
	stateFetching pageState = iota
	// stateDone means the provider reported no further pages.
	stateDone
	// stateCapReached means the raw-record cap was hit with pages left over.
	stateCapReached
	// stateFailed means a page request exhausted its retries.
	stateFailed
)

func (s pageState) String() string {
	switch s {
	case stateFetching:
		return "fetching"
	case stateDone:
		return "done"
	case stateCapReached:
		return "cap_reached"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// pagination walks one pair's transfer pages. The cap counts raw records as
// returned by the provider, before any filtering, so a pair's page requests
// stay bounded even when every record would be filtered out.
type pagination struct {
	maxCount int
	cursor   string
	fetched  int
	state    pageState
}

func newPagination(maxCount int) *pagination {
	return &pagination{
		maxCount: maxCount,
		state:    stateFetching,
	}
}

// active reports whether another page should be requested.
func (p *pagination) active() bool {
	return p.state == stateFetching
}

// advance consumes one fetched page and moves the state machine. Natural
// exhaustion wins over the cap when both apply to the same page.
func (p *pagination) advance(page *alchemyrpc.TransfersPage) {
	p.fetched += len(page.Transfers)
	p.cursor = page.NextCursor

	switch {
	case page.NextCursor == "":
		p.state = stateDone
	case p.fetched >= p.maxCount:
		p.state = stateCapReached
	default:
		p.state = stateFetching
	}
}

// fail marks the pair's pagination as failed. Terminal.
func (p *pagination) fail() {
	p.state = stateFailed
}
