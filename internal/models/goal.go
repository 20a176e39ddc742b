package models

import (
	"time"
)

type Goal struct {
	GoalID        string     `firestore:"goalId" json:"goalId"`
	Name          string     `firestore:"name" json:"name"`
	TargetAmount  float64    `firestore:"targetAmount" json:"targetAmount"`
	CurrentAmount float64    `firestore:"currentAmount" json:"currentAmount"`
	TargetDate    string     `firestore:"targetDate" json:"targetDate,omitempty"` // YYYY-MM-DD, optional
	CelebratedAt  *time.Time `firestore:"celebratedAt" json:"celebratedAt,omitempty"`
	CreatedAt     time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

// GoalContribution is an append-only record; inserting one increments the
// parent goal's CurrentAmount in the same Firestore transaction.
type GoalContribution struct {
	ContributionID string    `firestore:"contributionId" json:"contributionId"`
	GoalID         string    `firestore:"goalId" json:"goalId"`
	Amount         float64   `firestore:"amount" json:"amount"`
	Date           string    `firestore:"date" json:"date"` // YYYY-MM-DD
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
}
