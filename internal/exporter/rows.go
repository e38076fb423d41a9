package exporter

import (
	"math"

	"github.com/dwarvesf/wallet-tracker/internal/consts"
	"github.com/dwarvesf/wallet-tracker/internal/model"
)

// ReportHeader is the column layout shared by every export backend.
var ReportHeader = []string{"Date", "Wallet", "Chain", "Token", "Amount", "From", "Hash", "Total_USDC"}

// Row is one report line, formatted for a spreadsheet cell grid in the same
// column order as ReportHeader.
type Row []interface{}

// YearSheet is one year's worth of report rows, chronological.
type YearSheet struct {
	Year int
	Rows []Row
}

// BuildSheets renders year buckets into per-year row grids. Amounts display
// rounded but accumulate unrounded: the Total_USDC column is a running sum
// of USDC and USDC.e amounts that restarts at zero on every year sheet;
// other tokens leave the total untouched.
func BuildSheets(buckets model.YearBuckets) []YearSheet {
	sheets := make([]YearSheet, 0, len(buckets))
	for _, year := range buckets.Years() {
		sheet := YearSheet{Year: year}

		var totalUSDC float64
		for _, tx := range buckets[year] {
			if isUSDC(tx.TokenSymbol) {
				totalUSDC += tx.Amount
			}

			sheet.Rows = append(sheet.Rows, Row{
				tx.Timestamp.UTC().Format(consts.DATE_TIME_FORMAT),
				tx.Wallet,
				tx.ChainName,
				tx.TokenSymbol,
				roundAmount(tx.Amount),
				tx.Counterparty,
				tx.Hash,
				roundAmount(totalUSDC),
			})
		}

		sheets = append(sheets, sheet)
	}

	return sheets
}

func isUSDC(symbol string) bool {
	return symbol == consts.USDC_SYMBOL || symbol == consts.USDC_E_SYMBOL
}

func roundAmount(v float64) float64 {
	factor := math.Pow10(consts.REPORT_AMOUNT_PRECISION)
	return math.Round(v*factor) / factor
}
