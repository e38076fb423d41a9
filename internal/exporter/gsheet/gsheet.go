package gsheet

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dwarvesf/wallet-tracker/internal/exporter"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/utils/config"
	"github.com/dwarvesf/wallet-tracker/internal/utils/logger"
)

// gsheetExporter mirrors the report into a Google spreadsheet: one tab per
// year, created on demand and rewritten in full on every export.
type gsheetExporter struct {
	spreadsheetID   string
	credentialsPath string
	logger          *logger.Logger
}

func New(appConfig *config.AppConfig, logger *logger.Logger) exporter.IExporter {
	return &gsheetExporter{
		spreadsheetID:   appConfig.Exporter.SpreadsheetID,
		credentialsPath: appConfig.Exporter.GoogleCredentialsPath,
		logger:          logger,
	}
}

func (e *gsheetExporter) Export(ctx context.Context, report *model.Report) error {
	if e.spreadsheetID == "" {
		return errors.New("gsheet: spreadsheet id is not set")
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsFile(e.credentialsPath))
	if err != nil {
		return errors.Wrap(err, "failed to create sheets service")
	}

	spreadsheet, err := service.Spreadsheets.Get(e.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "failed to load spreadsheet")
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		existing[sheet.Properties.Title] = true
	}

	yearSheets := exporter.BuildSheets(report.Buckets)

	var requests []*sheets.Request
	for _, sheet := range yearSheets {
		if title := strconv.Itoa(sheet.Year); !existing[title] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			})
		}
	}
	if len(requests) > 0 {
		batch := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
		if _, err := service.Spreadsheets.BatchUpdate(e.spreadsheetID, batch).Context(ctx).Do(); err != nil {
			return errors.Wrap(err, "failed to add year sheets")
		}
	}

	for _, sheet := range yearSheets {
		title := strconv.Itoa(sheet.Year)

		// Clear before writing so a shrinking report never leaves stale rows
		// behind.
		if _, err := service.Spreadsheets.Values.Clear(e.spreadsheetID, title, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
			return errors.Wrapf(err, "failed to clear sheet %s", title)
		}

		valueRange := &sheets.ValueRange{Values: sheetValues(sheet)}
		update := service.Spreadsheets.Values.Update(e.spreadsheetID, title+"!A1", valueRange)
		if _, err := update.ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return errors.Wrapf(err, "failed to write sheet %s", title)
		}
	}

	e.logger.Info("[Export] spreadsheet updated", map[string]string{
		"spreadsheetID": e.spreadsheetID,
		"sheets":        strconv.Itoa(len(yearSheets)),
		"rows":          strconv.Itoa(report.Buckets.Total()),
	})

	return nil
}

// sheetValues renders one year sheet as a Sheets value grid, header row
// first.
func sheetValues(sheet exporter.YearSheet) [][]interface{} {
	values := make([][]interface{}, 0, len(sheet.Rows)+1)

	header := make([]interface{}, len(exporter.ReportHeader))
	for i, column := range exporter.ReportHeader {
		header[i] = column
	}
	values = append(values, header)

	for _, row := range sheet.Rows {
		values = append(values, row)
	}

	return values
}
