package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/money"
)

type goalStore struct {
	client *firestore.Client
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{client: client}
}

func (s *goalStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("goals")
}

func (s *goalStore) contributions(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("goal_contributions")
}

func (s *goalStore) Create(ctx context.Context, uid string, g *models.Goal) error {
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	_, err := s.collection(uid).Doc(g.GoalID).Create(ctx, g)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create goal", err)
	}
	return nil
}

func (s *goalStore) Get(ctx context.Context, uid, goalID string) (*models.Goal, error) {
	doc, err := s.collection(uid).Doc(goalID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("goal not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get goal", err)
	}
	var g models.Goal
	if err := doc.DataTo(&g); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse goal data", err)
	}
	return &g, nil
}

func (s *goalStore) List(ctx context.Context, uid string) ([]models.Goal, error) {
	docs, err := s.collection(uid).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list goals", err)
	}
	goals := make([]models.Goal, 0, len(docs))
	for _, d := range docs {
		var g models.Goal
		if err := d.DataTo(&g); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse goal data", err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// AddContribution appends a contribution and increments the parent goal's
// CurrentAmount in one Firestore transaction, so no reader observes the
// contribution without the increment. The new total is computed from the
// transactional read; a concurrent contribution makes Firestore retry the
// callback against fresh data, so no increment is ever lost. Returns the
// committed total.
func (s *goalStore) AddContribution(ctx context.Context, uid string, c *models.GoalContribution) (float64, error) {
	goalRef := s.collection(uid).Doc(c.GoalID)
	contribRef := s.contributions(uid).Doc(c.ContributionID)
	now := time.Now()
	c.CreatedAt = now

	var newAmount float64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(goalRef)
		if err != nil {
			return err
		}
		var g models.Goal
		if err := snap.DataTo(&g); err != nil {
			return err
		}
		newAmount = money.Sum([]float64{g.CurrentAmount, c.Amount})
		if err := tx.Create(contribRef, c); err != nil {
			return err
		}
		return tx.Update(goalRef, []firestore.Update{
			{Path: "currentAmount", Value: newAmount},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, errs.NewNotFoundError("goal not found")
		}
		return 0, errs.NewConflictError("contribute", "contribution could not be recorded; retry")
	}
	return newAmount, nil
}

func (s *goalStore) SetCelebrated(ctx context.Context, uid, goalID string, at time.Time) error {
	_, err := s.collection(uid).Doc(goalID).Update(ctx, []firestore.Update{
		{Path: "celebratedAt", Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("goal not found")
		}
		return errs.NewDatabaseError("update", "failed to mark goal celebrated", err)
	}
	return nil
}

func (s *goalStore) Delete(ctx context.Context, uid, goalID string) error {
	if _, err := s.Get(ctx, uid, goalID); err != nil {
		return err
	}
	_, err := s.collection(uid).Doc(goalID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete goal", err)
	}
	return nil
}
