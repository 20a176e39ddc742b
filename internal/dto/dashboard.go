package dto

import (
	"github.com/granaflow/grana-backend/internal/models"
)

// Next-action kinds, in priority order. Exactly one is returned per summary.
const (
	ActionCreateBudget   = "createBudget"
	ActionCreateGoal     = "createGoal"
	ActionBudgetWarning  = "budgetWarning"
	ActionContributeGoal = "contributeGoal"
	ActionOnTrack        = "onTrack"
)

type NextAction struct {
	Kind     string  `json:"kind"`
	Category string  `json:"category,omitempty"` // set for budgetWarning
	GoalID   string  `json:"goalId,omitempty"`   // set for contributeGoal
	GoalName string  `json:"goalName,omitempty"`
	Progress float64 `json:"progress,omitempty"`
}

// DashboardSummary is the month view: totals, budgets with spending, goals
// and the selected next action. Sources that failed to load contribute
// zero values; Warnings names them.
type DashboardSummary struct {
	Year          int                         `json:"year"`
	Month         int                         `json:"month"`
	TotalIncome   float64                     `json:"totalIncome"`
	TotalExpenses float64                     `json:"totalExpenses"`
	Balance       float64                     `json:"balance"`
	Budgets       []models.BudgetWithSpending `json:"budgets"`
	BudgetSummary BudgetSummary               `json:"budgetSummary"`
	Goals         []models.Goal               `json:"goals"`
	NextAction    NextAction                  `json:"nextAction"`
	Warnings      []string                    `json:"-"`
}
