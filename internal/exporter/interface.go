package exporter

import (
	"context"

	"github.com/dwarvesf/wallet-tracker/internal/model"
)

type IExporter interface {
	// Export writes one run's report to the backend, one sheet per calendar
	// year, oldest year first.
	Export(ctx context.Context, report *model.Report) error
}
