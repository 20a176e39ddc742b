package services

import (
	"context"
	"testing"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/helpers"
)

// --- Fakes ---

type fakeBudgetStore struct {
	budgets   map[string]*models.Budget
	createErr error
	listErr   error
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{budgets: make(map[string]*models.Budget)}
}

func (f *fakeBudgetStore) Create(_ context.Context, _ string, b *models.Budget) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.budgets[b.BudgetID] = b
	return nil
}

func (f *fakeBudgetStore) Get(_ context.Context, _, budgetID string) (*models.Budget, error) {
	b, ok := f.budgets[budgetID]
	if !ok {
		return nil, errs.NewNotFoundError("budget not found")
	}
	return b, nil
}

func (f *fakeBudgetStore) ListForMonth(_ context.Context, _ string, year, month int) ([]models.Budget, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Budget
	for _, b := range f.budgets {
		if b.Year == year && b.Month == month {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBudgetStore) ExistsForCategoryMonth(_ context.Context, _ string, category string, year, month int) (bool, error) {
	for _, b := range f.budgets {
		if b.Category == category && b.Year == year && b.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBudgetStore) Delete(_ context.Context, _, budgetID string) error {
	if _, ok := f.budgets[budgetID]; !ok {
		return errs.NewNotFoundError("budget not found")
	}
	delete(f.budgets, budgetID)
	return nil
}

type fakeTxQuerier struct {
	txs       []models.Transaction
	err       error
	callCount int
	lastQuery dto.TransactionQuery
}

func (f *fakeTxQuerier) Query(_ context.Context, _ string, q dto.TransactionQuery) ([]models.Transaction, error) {
	f.callCount++
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.txs, nil
}

func expense(category string, amount float64) models.Transaction {
	return models.Transaction{Type: models.TransactionTypeExpense, Category: category, Amount: amount}
}

// --- ComputeSpending ---

func TestComputeSpending_SumsOnlyMatchingCategory(t *testing.T) {
	budgets := []models.Budget{{BudgetID: "b1", Category: "Moradia", Amount: 1000}}
	expenses := []models.Transaction{
		expense("Moradia", 850),
		expense("Lazer", 400), // different category, must not leak in
	}

	got := ComputeSpending(budgets, expenses)
	if len(got) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(got))
	}
	b := got[0]
	if b.Spent != 850 {
		t.Errorf("spent = %v, want 850", b.Spent)
	}
	if b.Remaining != 150 {
		t.Errorf("remaining = %v, want 150", b.Remaining)
	}
	if b.Progress != 85 {
		t.Errorf("progress = %v, want 85", b.Progress)
	}
}

func TestComputeSpending_NoExpensesDefaultsToZero(t *testing.T) {
	budgets := []models.Budget{{BudgetID: "b1", Category: "Transporte", Amount: 300}}

	got := ComputeSpending(budgets, nil)
	if got[0].Spent != 0 || got[0].Remaining != 300 || got[0].Progress != 0 {
		t.Errorf("got %+v, want spent=0 remaining=300 progress=0", got[0])
	}
}

func TestComputeSpending_ZeroAmountBudget(t *testing.T) {
	budgets := []models.Budget{{BudgetID: "b1", Category: "Outros", Amount: 0}}
	expenses := []models.Transaction{expense("Outros", 50)}

	got := ComputeSpending(budgets, expenses)
	if got[0].Progress != 0 {
		t.Errorf("progress for zero-amount budget = %v, want 0", got[0].Progress)
	}
	if got[0].Remaining != -50 {
		t.Errorf("remaining = %v, want -50", got[0].Remaining)
	}
}

func TestComputeSpending_ProgressUnclampedOverLimit(t *testing.T) {
	budgets := []models.Budget{{BudgetID: "b1", Category: "Mercado", Amount: 200}}
	expenses := []models.Transaction{expense("Mercado", 250)}

	got := ComputeSpending(budgets, expenses)
	if got[0].Progress != 125 {
		t.Errorf("progress = %v, want 125 (raw value past 100)", got[0].Progress)
	}
}

func TestComputeSpending_ExactDecimalSum(t *testing.T) {
	// 0.1 + 0.2 style sums must not drift.
	budgets := []models.Budget{{BudgetID: "b1", Category: "Café", Amount: 10}}
	expenses := []models.Transaction{
		expense("Café", 0.1),
		expense("Café", 0.2),
	}

	got := ComputeSpending(budgets, expenses)
	if got[0].Spent != 0.3 {
		t.Errorf("spent = %v, want exactly 0.3", got[0].Spent)
	}
}

// --- ComputeSummary ---

func TestComputeSummary_Additive(t *testing.T) {
	budgets := []models.BudgetWithSpending{
		{Budget: models.Budget{Amount: 1000}, Spent: 850},
		{Budget: models.Budget{Amount: 500}, Spent: 150},
	}

	s := ComputeSummary(budgets)
	if s.TotalBudgeted != 1500 {
		t.Errorf("totalBudgeted = %v, want 1500", s.TotalBudgeted)
	}
	if s.TotalSpent != 1000 {
		t.Errorf("totalSpent = %v, want 1000", s.TotalSpent)
	}
	if s.TotalRemaining != 500 {
		t.Errorf("totalRemaining = %v, want 500", s.TotalRemaining)
	}
	if s.OverallProgress != 66.67 {
		t.Errorf("overallProgress = %v, want 66.67", s.OverallProgress)
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(nil)
	if s.TotalBudgeted != 0 || s.TotalSpent != 0 || s.TotalRemaining != 0 || s.OverallProgress != 0 {
		t.Errorf("empty summary not all zero: %+v", s)
	}
}

// --- Budget service ---

func TestCreateBudget_Duplicate(t *testing.T) {
	store := newFakeBudgetStore()
	svc := NewBudgetService(store, &fakeTxQuerier{})

	req := dto.CreateBudgetRequest{Category: "Moradia", Amount: 1000, Year: 2025, Month: 3}
	if _, err := svc.CreateBudget(helpers.TestCtx(), "uid1", req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.CreateBudget(helpers.TestCtx(), "uid1", req)
	if _, ok := err.(*errs.AlreadyExistsError); !ok {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
}

func TestCreateBudget_RejectsBadInput(t *testing.T) {
	svc := NewBudgetService(newFakeBudgetStore(), &fakeTxQuerier{})

	cases := []dto.CreateBudgetRequest{
		{Category: "", Amount: 100, Year: 2025, Month: 3},
		{Category: "Moradia", Amount: -5, Year: 2025, Month: 3},
		{Category: "Moradia", Amount: 100.999, Year: 2025, Month: 3},
		{Category: "Moradia", Amount: 100, Year: 2025, Month: 13},
		{Category: "Moradia", Amount: 100, Year: 1999, Month: 3},
	}
	for i, req := range cases {
		_, err := svc.CreateBudget(helpers.TestCtx(), "uid1", req)
		if _, ok := err.(*errs.ValidationError); !ok {
			t.Errorf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestListWithSpending_QueriesExpensesForMonth(t *testing.T) {
	store := newFakeBudgetStore()
	store.budgets["b1"] = &models.Budget{BudgetID: "b1", Category: "Moradia", Amount: 1000, Year: 2025, Month: 2}
	txq := &fakeTxQuerier{txs: []models.Transaction{expense("Moradia", 400)}}
	svc := NewBudgetService(store, txq)

	got, err := svc.ListWithSpending(helpers.TestCtx(), "uid1", 2025, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Spent != 400 {
		t.Errorf("spent = %v, want 400", got[0].Spent)
	}
	if txq.lastQuery.Type == nil || *txq.lastQuery.Type != models.TransactionTypeExpense {
		t.Errorf("expected expense-only query, got %+v", txq.lastQuery)
	}
	if txq.lastQuery.DateFrom == nil || *txq.lastQuery.DateFrom != "2025-02-01" {
		t.Errorf("dateFrom = %v, want 2025-02-01", txq.lastQuery.DateFrom)
	}
	if txq.lastQuery.DateTo == nil || *txq.lastQuery.DateTo != "2025-02-28" {
		t.Errorf("dateTo = %v, want 2025-02-28", txq.lastQuery.DateTo)
	}
}
