package dto

type CreateGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	TargetDate   string  `json:"targetDate,omitempty"` // YYYY-MM-DD
}

type AddContributionRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"` // YYYY-MM-DD
}
