package dto

type CreateRecurringRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Frequency   string  `json:"frequency"`
	StartDate   string  `json:"startDate"`         // YYYY-MM-DD
	EndDate     string  `json:"endDate,omitempty"` // YYYY-MM-DD
}

type SetRecurringActiveRequest struct {
	IsActive bool `json:"isActive"`
}

type ResolveConfirmationRequest struct {
	Confirmed bool `json:"confirmed"`
}

// SweepResult reports one recurrence-engine run.
type SweepResult struct {
	Fired         int      `json:"fired"`
	Confirmations int      `json:"confirmations"` // pending income confirmations created
	Failed        int      `json:"failed"`        // left unadvanced, retried next run
	Errors        []string `json:"errors,omitempty"`
}
