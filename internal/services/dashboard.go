package services

import (
	"context"
	"sync"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/logger"
	"github.com/granaflow/grana-backend/pkg/money"
)

// maxReadAttempts bounds the retries wrapped around each dashboard source.
const maxReadAttempts = 2

type dashboardBudgets interface {
	ListWithSpending(ctx context.Context, uid string, year, month int) ([]models.BudgetWithSpending, error)
}

type dashboardGoals interface {
	ListGoals(ctx context.Context, uid string) ([]models.Goal, error)
}

type dashboardTransactions interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error)
}

type dashboardService struct {
	budgets dashboardBudgets
	goals   dashboardGoals
	txs     dashboardTransactions
}

func NewDashboardService(budgets dashboardBudgets, goals dashboardGoals, txs dashboardTransactions) *dashboardService {
	return &dashboardService{budgets: budgets, goals: goals, txs: txs}
}

// GetSummary assembles the month view. The three sources are fetched
// concurrently and independently: a source that fails after its retries
// contributes zero values and a warning instead of failing the summary.
func (s *dashboardService) GetSummary(ctx context.Context, uid string, year, month int) (dto.DashboardSummary, error) {
	if err := validateYearMonth(year, month); err != nil {
		return dto.DashboardSummary{}, err
	}
	log := logger.FromContext(ctx)

	var (
		wg        sync.WaitGroup
		txs       []models.Transaction
		budgets   []models.BudgetWithSpending
		goals     []models.Goal
		txErr     error
		budgetErr error
		goalErr   error
	)
	from, to := monthBounds(year, month)

	wg.Add(3)
	go func() {
		defer wg.Done()
		txs, txErr = withRetry(func() ([]models.Transaction, error) {
			return s.txs.Query(ctx, uid, dto.TransactionQuery{DateFrom: &from, DateTo: &to})
		})
	}()
	go func() {
		defer wg.Done()
		budgets, budgetErr = withRetry(func() ([]models.BudgetWithSpending, error) {
			return s.budgets.ListWithSpending(ctx, uid, year, month)
		})
	}()
	go func() {
		defer wg.Done()
		goals, goalErr = withRetry(func() ([]models.Goal, error) {
			return s.goals.ListGoals(ctx, uid)
		})
	}()
	wg.Wait()

	summary := dto.DashboardSummary{Year: year, Month: month}
	if txErr != nil {
		log.Warn("dashboard transactions unavailable", "error", txErr)
		summary.Warnings = append(summary.Warnings, "transactions unavailable; totals shown as zero")
		txs = nil
	}
	if budgetErr != nil {
		log.Warn("dashboard budgets unavailable", "error", budgetErr)
		summary.Warnings = append(summary.Warnings, "budgets unavailable; budget figures shown as zero")
		budgets = nil
	}
	if goalErr != nil {
		log.Warn("dashboard goals unavailable", "error", goalErr)
		summary.Warnings = append(summary.Warnings, "goals unavailable")
		goals = nil
	}

	var income, expenses []float64
	for _, t := range txs {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = append(income, t.Amount)
		case models.TransactionTypeExpense:
			expenses = append(expenses, t.Amount)
		}
	}
	summary.TotalIncome = money.Sum(income)
	summary.TotalExpenses = money.Sum(expenses)
	summary.Balance = money.Sub(summary.TotalIncome, summary.TotalExpenses)
	summary.Budgets = budgets
	summary.BudgetSummary = ComputeSummary(budgets)
	summary.Goals = goals
	if budgetErr != nil || goalErr != nil {
		// With a source missing we can't tell an empty list from a failed
		// read, so don't recommend onboarding steps the user may have done.
		summary.NextAction = dto.NextAction{Kind: dto.ActionOnTrack}
	} else {
		summary.NextAction = SelectNextAction(len(budgets) > 0, budgets, goals)
	}
	return summary, nil
}

func withRetry[T any](fn func() (T, error)) (T, error) {
	var out T
	var err error
	for attempt := 1; attempt <= maxReadAttempts; attempt++ {
		out, err = fn()
		if err == nil {
			return out, nil
		}
	}
	return out, err
}
