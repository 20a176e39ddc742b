package dto

type CreateBudgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
}

// BudgetSummary aggregates the month's budgets into overall totals.
type BudgetSummary struct {
	TotalBudgeted   float64 `json:"totalBudgeted"`
	TotalSpent      float64 `json:"totalSpent"`
	TotalRemaining  float64 `json:"totalRemaining"`
	OverallProgress float64 `json:"overallProgress"`
}
