package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/dwarvesf/wallet-tracker/internal/exporter"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

// xlsxExporter writes the report to a local workbook, one sheet per year.
// Each export replaces the file wholesale.
type xlsxExporter struct {
	outputPath string
	logger     *logger.Logger
}

func New(appConfig *config.AppConfig, logger *logger.Logger) exporter.IExporter {
	return &xlsxExporter{
		outputPath: appConfig.Exporter.OutputPath,
		logger:     logger,
	}
}

func (e *xlsxExporter) Export(_ context.Context, report *model.Report) error {
	sheets := exporter.BuildSheets(report.Buckets)

	workbook := excelize.NewFile()
	defer workbook.Close()

	for i, sheet := range sheets {
		name := strconv.Itoa(sheet.Year)

		// A fresh workbook comes with a default "Sheet1"; the first year
		// takes it over, later years get their own sheets.
		if i == 0 {
			if err := workbook.SetSheetName("Sheet1", name); err != nil {
				return errors.Wrapf(err, "failed to rename default sheet to %s", name)
			}
		} else {
			if _, err := workbook.NewSheet(name); err != nil {
				return errors.Wrapf(err, "failed to add sheet %s", name)
			}
		}

		if err := workbook.SetSheetRow(name, "A1", &exporter.ReportHeader); err != nil {
			return errors.Wrapf(err, "failed to write header of sheet %s", name)
		}

		for rowIdx, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return errors.Wrap(err, "failed to compute row coordinate")
			}
			if err := workbook.SetSheetRow(name, cell, &row); err != nil {
				return errors.Wrapf(err, "failed to write row %d of sheet %s", rowIdx+2, name)
			}
		}
	}

	if dir := filepath.Dir(e.outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	if err := workbook.SaveAs(e.outputPath); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}

	e.logger.Info("[Export] workbook written", map[string]string{
		"path":   e.outputPath,
		"sheets": strconv.Itoa(len(sheets)),
		"rows":   strconv.Itoa(report.Buckets.Total()),
	})

	return nil
}
