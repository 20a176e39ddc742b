package models

import (
	"time"
)

const (
	ConfirmationStatusPending   = "pending"
	ConfirmationStatusConfirmed = "confirmed"
	ConfirmationStatusCancelled = "cancelled"
)

// IncomeConfirmation gates an auto-generated income transaction behind a
// user acknowledgement. Cancelling deletes the linked transaction.
type IncomeConfirmation struct {
	ConfirmationID string     `firestore:"confirmationId" json:"confirmationId"`
	TransactionID  string     `firestore:"transactionId" json:"transactionId"`
	Description    string     `firestore:"description" json:"description"`
	Amount         float64    `firestore:"amount" json:"amount"`
	Status         string     `firestore:"status" json:"status"`
	CreatedAt      time.Time  `firestore:"createdAt" json:"createdAt"`
	ResolvedAt     *time.Time `firestore:"resolvedAt" json:"resolvedAt,omitempty"`
}
