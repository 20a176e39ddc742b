package models

import (
	"time"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

const (
	TransactionSourceManual    = "manual"
	TransactionSourceRecurring = "recurring"
)

type Transaction struct {
	TransactionID string    `firestore:"transactionId" json:"transactionId"`
	Description   string    `firestore:"description" json:"description"`
	Amount        float64   `firestore:"amount" json:"amount"`
	Type          string    `firestore:"type" json:"type"` // "income" or "expense"
	Category      string    `firestore:"category" json:"category"`
	Date          string    `firestore:"date" json:"date"` // YYYY-MM-DD
	Notes         string    `firestore:"notes" json:"notes,omitempty"`
	Source        string    `firestore:"source" json:"source"`
	RecurringID   string    `firestore:"recurringId" json:"recurringId,omitempty"` // set when generated by a recurrence
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
