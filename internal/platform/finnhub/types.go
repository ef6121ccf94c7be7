package finnhub

import "github.com/tradewatch/insiderbot/internal/domain"

// APIInsiderResponse mirrors the insider-transactions response envelope.
type APIInsiderResponse struct {
	Data   []APIInsiderTransaction `json:"data"`
	Symbol string                  `json:"symbol"`
}

// APIInsiderTransaction mirrors one insider-transaction record as returned
// by the API. Change is a pointer so an absent field stays distinguishable
// from an explicit zero.
type APIInsiderTransaction struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name"`
	FilingDate       string   `json:"filingDate"`
	TransactionDate  string   `json:"transactionDate"`
	Change           *float64 `json:"change"`
	TransactionCode  string   `json:"transactionCode"`
	TransactionPrice float64  `json:"transactionPrice"`
	Share            float64  `json:"share"`
}

// ToDomain converts the API record into the domain raw-transaction type.
func (t *APIInsiderTransaction) ToDomain() domain.RawTransaction {
	return domain.RawTransaction{
		Symbol:           t.Symbol,
		Name:             t.Name,
		FilingDate:       t.FilingDate,
		TransactionDate:  t.TransactionDate,
		Change:           t.Change,
		TransactionCode:  t.TransactionCode,
		TransactionPrice: t.TransactionPrice,
		Share:            t.Share,
	}
}
