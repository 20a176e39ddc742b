package dto

type CreateTransactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Notes       string  `json:"notes,omitempty"`
}

// TransactionQuery is the store-level filter for listing transactions.
// Nil pointer fields are not applied.
type TransactionQuery struct {
	Type     *string
	Category *string
	DateFrom *string
	DateTo   *string
	Limit    int
}

type ListTransactionsRequest struct {
	Type     *string
	Category *string
	DateFrom *string
	DateTo   *string
	Limit    int
}
