package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/helpers"
	"github.com/granaflow/grana-backend/pkg/logger"
	"github.com/granaflow/grana-backend/pkg/money"
)

type budgetStore interface {
	Create(ctx context.Context, uid string, b *models.Budget) error
	Get(ctx context.Context, uid, budgetID string) (*models.Budget, error)
	ListForMonth(ctx context.Context, uid string, year, month int) ([]models.Budget, error)
	ExistsForCategoryMonth(ctx context.Context, uid, category string, year, month int) (bool, error)
	Delete(ctx context.Context, uid, budgetID string) error
}

type budgetTransactionStore interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error)
}

type budgetService struct {
	store budgetStore
	txs   budgetTransactionStore
}

func NewBudgetService(store budgetStore, txs budgetTransactionStore) *budgetService {
	return &budgetService{store: store, txs: txs}
}

func (s *budgetService) CreateBudget(ctx context.Context, uid string, req dto.CreateBudgetRequest) (*models.Budget, error) {
	if err := validateRequired("category", req.Category); err != nil {
		return nil, err
	}
	if err := validateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if err := validateYearMonth(req.Year, req.Month); err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsForCategoryMonth(ctx, uid, req.Category, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewAlreadyExistsError(
			fmt.Sprintf("a budget for %q already exists in %d-%02d", req.Category, req.Year, req.Month))
	}

	b := &models.Budget{
		BudgetID: uuid.New().String(),
		Category: req.Category,
		Amount:   req.Amount,
		Year:     req.Year,
		Month:    req.Month,
	}
	if err := s.store.Create(ctx, uid, b); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("budget created", "category", b.Category, "year", b.Year, "month", b.Month)
	return b, nil
}

// ListWithSpending returns the month's budgets enriched with spent,
// remaining and progress computed from that month's expense transactions.
func (s *budgetService) ListWithSpending(ctx context.Context, uid string, year, month int) ([]models.BudgetWithSpending, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	budgets, err := s.store.ListForMonth(ctx, uid, year, month)
	if err != nil {
		return nil, err
	}
	expenses, err := s.monthExpenses(ctx, uid, year, month)
	if err != nil {
		return nil, err
	}
	return ComputeSpending(budgets, expenses), nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, uid, budgetID string) error {
	return s.store.Delete(ctx, uid, budgetID)
}

func (s *budgetService) monthExpenses(ctx context.Context, uid string, year, month int) ([]models.Transaction, error) {
	from, to := monthBounds(year, month)
	return s.txs.Query(ctx, uid, dto.TransactionQuery{
		Type:     helpers.Ptr(models.TransactionTypeExpense),
		DateFrom: &from,
		DateTo:   &to,
	})
}

func monthBounds(year, month int) (from, to string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout)
}

// --- Aggregation ---

// ComputeSpending derives per-budget figures from the month's expense
// transactions. Budgets and expenses must already be scoped to one
// (year, month); expenses in categories without a budget are ignored.
// A zero-amount budget reports progress 0.
func ComputeSpending(budgets []models.Budget, expenses []models.Transaction) []models.BudgetWithSpending {
	byCategory := make(map[string]decimal.Decimal, len(budgets))
	for _, e := range expenses {
		byCategory[e.Category] = byCategory[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make([]models.BudgetWithSpending, len(budgets))
	for i, b := range budgets {
		spent, _ := byCategory[b.Category].Float64()
		out[i] = models.BudgetWithSpending{
			Budget:    b,
			Spent:     spent,
			Remaining: money.Sub(b.Amount, spent),
			Progress:  money.Percent(spent, b.Amount),
		}
	}
	return out
}

// ComputeSummary sums the per-budget figures. An empty input yields all
// zeroes, overall progress included.
func ComputeSummary(budgets []models.BudgetWithSpending) dto.BudgetSummary {
	budgeted := make([]float64, len(budgets))
	spent := make([]float64, len(budgets))
	for i, b := range budgets {
		budgeted[i] = b.Amount
		spent[i] = b.Spent
	}
	totalBudgeted := money.Sum(budgeted)
	totalSpent := money.Sum(spent)
	return dto.BudgetSummary{
		TotalBudgeted:   totalBudgeted,
		TotalSpent:      totalSpent,
		TotalRemaining:  money.Sub(totalBudgeted, totalSpent),
		OverallProgress: money.Percent(totalSpent, totalBudgeted),
	}
}
