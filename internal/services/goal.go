package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/logger"
)

// celebrationDebounce excludes goals created moments ago from completability,
// so seeded demo goals don't trigger an instant celebration.
const celebrationDebounce = 5 * time.Second

type goalStore interface {
	Create(ctx context.Context, uid string, g *models.Goal) error
	Get(ctx context.Context, uid, goalID string) (*models.Goal, error)
	List(ctx context.Context, uid string) ([]models.Goal, error)
	AddContribution(ctx context.Context, uid string, c *models.GoalContribution) (float64, error)
	SetCelebrated(ctx context.Context, uid, goalID string, at time.Time) error
	Delete(ctx context.Context, uid, goalID string) error
}

type goalService struct {
	store goalStore
	now   func() time.Time
}

func NewGoalService(store goalStore) *goalService {
	return &goalService{store: store, now: time.Now}
}

func (s *goalService) CreateGoal(ctx context.Context, uid string, req dto.CreateGoalRequest) (*models.Goal, error) {
	if err := validateRequired("name", req.Name); err != nil {
		return nil, err
	}
	if err := validateAmount("targetAmount", req.TargetAmount); err != nil {
		return nil, err
	}
	if req.TargetDate != "" {
		if _, err := parseDate("targetDate", req.TargetDate); err != nil {
			return nil, err
		}
	}

	g := &models.Goal{
		GoalID:       uuid.New().String(),
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
	}
	if err := s.store.Create(ctx, uid, g); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("goal created", "name", g.Name, "target", g.TargetAmount)
	return g, nil
}

func (s *goalService) ListGoals(ctx context.Context, uid string) ([]models.Goal, error) {
	return s.store.List(ctx, uid)
}

func (s *goalService) DeleteGoal(ctx context.Context, uid, goalID string) error {
	return s.store.Delete(ctx, uid, goalID)
}

// AddContribution records a contribution and raises the goal's current
// amount; the store applies both in one transaction and reports the
// committed total, so concurrent contributions never overwrite each other.
func (s *goalService) AddContribution(ctx context.Context, uid, goalID string, req dto.AddContributionRequest) (*models.Goal, error) {
	if err := validateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if err := validateEntryDate("date", req.Date, s.now()); err != nil {
		return nil, err
	}

	g, err := s.store.Get(ctx, uid, goalID)
	if err != nil {
		return nil, err
	}

	c := &models.GoalContribution{
		ContributionID: uuid.New().String(),
		GoalID:         goalID,
		Amount:         req.Amount,
		Date:           req.Date,
	}
	newAmount, err := s.store.AddContribution(ctx, uid, c)
	if err != nil {
		return nil, err
	}
	g.CurrentAmount = newAmount
	logger.FromContext(ctx).Info("goal contribution added", "goal", g.Name, "amount", req.Amount)
	return g, nil
}

// Celebrate marks a completed goal's celebration as dismissed, once.
func (s *goalService) Celebrate(ctx context.Context, uid, goalID string) (*models.Goal, error) {
	g, err := s.store.Get(ctx, uid, goalID)
	if err != nil {
		return nil, err
	}
	if !Completable(g, s.now()) {
		return nil, errs.NewValidationError("goal has not reached its target")
	}
	at := s.now()
	if err := s.store.SetCelebrated(ctx, uid, goalID, at); err != nil {
		return nil, err
	}
	g.CelebratedAt = &at
	return g, nil
}

// Completable reports whether the goal's celebration is pending: target
// reached, not yet celebrated, and past the creation debounce.
func Completable(g *models.Goal, now time.Time) bool {
	if g.TargetAmount <= 0 || g.CurrentAmount < g.TargetAmount {
		return false
	}
	if g.CelebratedAt != nil {
		return false
	}
	return now.Sub(g.CreatedAt) >= celebrationDebounce
}
