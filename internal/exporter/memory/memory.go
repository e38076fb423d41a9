package memory

import (
	"context"
	"sync"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

// Exporter records exported reports in memory. It backs tests that need to
// observe what would have been written without touching disk or the network.
type Exporter struct {
	mu      sync.Mutex
	reports []*model.Report
	err     error
}

func New() *Exporter {
	return &Exporter{}
}

// FailWith makes every subsequent Export return err.
func (e *Exporter) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.err = err
}

func (e *Exporter) Export(_ context.Context, report *model.Report) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return e.err
	}

	e.reports = append(e.reports, report)

	return nil
}

// Exported returns every report exported so far, oldest first.
func (e *Exporter) Exported() []*model.Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*model.Report, len(e.reports))
	copy(out, e.reports)

	return out
}
