package consts

const (
	// DATE_TIME_FORMAT is the timestamp layout used in exported reports.
	DATE_TIME_FORMAT = "2006-01-02 15:04:05"

	USDC_SYMBOL   = "USDC"
	USDC_E_SYMBOL = "USDC.e"

	REPORT_AMOUNT_PRECISION = 2
)
