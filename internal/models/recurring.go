package models

import (
	"time"
)

const (
	FrequencyMonthly    = "monthly"
	FrequencyBimonthly  = "bimonthly"
	FrequencyQuarterly  = "quarterly"
	FrequencySemiannual = "semiannual"
	FrequencyAnnual     = "annual"
)

// RecurringTransaction is a template that periodically generates real
// transactions. NextExecutionDate is advanced by the recurrence engine
// after each firing.
type RecurringTransaction struct {
	RecurringID       string    `firestore:"recurringId" json:"recurringId"`
	Description       string    `firestore:"description" json:"description"`
	Amount            float64   `firestore:"amount" json:"amount"`
	Type              string    `firestore:"type" json:"type"` // "income" or "expense"
	Category          string    `firestore:"category" json:"category"`
	Frequency         string    `firestore:"frequency" json:"frequency"`
	StartDate         string    `firestore:"startDate" json:"startDate"`         // YYYY-MM-DD
	EndDate           string    `firestore:"endDate" json:"endDate,omitempty"`   // YYYY-MM-DD, optional
	IsActive          bool      `firestore:"isActive" json:"isActive"`
	NextExecutionDate string    `firestore:"nextExecutionDate" json:"nextExecutionDate"` // YYYY-MM-DD
	CreatedAt         time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `firestore:"updatedAt" json:"updatedAt"`
}
