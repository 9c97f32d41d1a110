package dto

// FinnhubInsiderResponse is the envelope of /stock/insider-transactions.
// Error is populated inside a 200 body when the token is bad or the symbol
// is unknown.
type FinnhubInsiderResponse struct {
	Symbol string              `json:"symbol"`
	Data   []FinnhubInsiderRow `json:"data"`
	Error  string              `json:"error,omitempty"`
}

// FinnhubInsiderRow is one raw insider filing row. Every field except the
// dates is optional in practice.
type FinnhubInsiderRow struct {
	Name             string  `json:"name"`
	Share            int64   `json:"share"`
	Change           int64   `json:"change"`
	FilingDate       string  `json:"filingDate"`
	TransactionDate  string  `json:"transactionDate"`
	TransactionCode  string  `json:"transactionCode"`
	TransactionPrice float64 `json:"transactionPrice"`
}
