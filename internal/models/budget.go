package models

import (
	"time"
)

// Budget is a per-category spending limit for one (year, month).
// The (category, year, month) combination is unique per user; the budget
// service checks for duplicates at create time.
type Budget struct {
	BudgetID  string    `firestore:"budgetId" json:"budgetId"`
	Category  string    `firestore:"category" json:"category"`
	Amount    float64   `firestore:"amount" json:"amount"`
	Year      int       `firestore:"year" json:"year"`
	Month     int       `firestore:"month" json:"month"` // 1-12
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// BudgetWithSpending is a Budget enriched with derived figures for the
// budget's month. Never persisted; computed from expense transactions.
type BudgetWithSpending struct {
	Budget
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Progress  float64 `json:"progress"` // percent, unclamped; 0 when Amount is 0
}
