package services

import (
	"context"
	"testing"
	"time"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/helpers"
)

type fakeTransactionStore struct {
	created   []*models.Transaction
	deleted   []string
	lastQuery dto.TransactionQuery
}

func (f *fakeTransactionStore) Create(_ context.Context, _ string, t *models.Transaction) error {
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTransactionStore) Query(_ context.Context, _ string, q dto.TransactionQuery) ([]models.Transaction, error) {
	f.lastQuery = q
	return nil, nil
}

func (f *fakeTransactionStore) Delete(_ context.Context, _, transactionID string) error {
	f.deleted = append(f.deleted, transactionID)
	return nil
}

func validCreateRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Description: "Mercado",
		Amount:      123.45,
		Type:        models.TransactionTypeExpense,
		Category:    "Alimentação",
		Date:        time.Now().AddDate(0, 0, -1).Format(dateLayout),
	}
}

func TestCreateTransaction_DefaultsToManualSource(t *testing.T) {
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store)

	got, err := svc.CreateTransaction(helpers.TestCtx(), "uid1", validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != models.TransactionSourceManual {
		t.Errorf("source = %s, want %s", got.Source, models.TransactionSourceManual)
	}
	if got.TransactionID == "" {
		t.Error("transactionId not assigned")
	}
	if len(store.created) != 1 {
		t.Errorf("stored %d transactions, want 1", len(store.created))
	}
}

func TestCreateTransaction_RejectsBadInput(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionStore{})

	mutate := []func(*dto.CreateTransactionRequest){
		func(r *dto.CreateTransactionRequest) { r.Description = "" },
		func(r *dto.CreateTransactionRequest) { r.Category = "" },
		func(r *dto.CreateTransactionRequest) { r.Type = "transfer" },
		func(r *dto.CreateTransactionRequest) { r.Amount = 0 },
		func(r *dto.CreateTransactionRequest) { r.Amount = -10 },
		func(r *dto.CreateTransactionRequest) { r.Amount = 9.999 },
		func(r *dto.CreateTransactionRequest) { r.Amount = 2_000_000_000 },
		func(r *dto.CreateTransactionRequest) { r.Date = "15/03/2025" },
		func(r *dto.CreateTransactionRequest) {
			r.Date = time.Now().AddDate(0, 0, 2).Format(dateLayout) // future
		},
		func(r *dto.CreateTransactionRequest) {
			r.Date = time.Now().AddDate(-6, 0, 0).Format(dateLayout) // beyond lookback
		},
	}
	for i, m := range mutate {
		req := validCreateRequest()
		m(&req)
		_, err := svc.CreateTransaction(helpers.TestCtx(), "uid1", req)
		if _, ok := err.(*errs.ValidationError); !ok {
			t.Errorf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestListTransactions_ClampsLimit(t *testing.T) {
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store)

	cases := []struct {
		limit int
		want  int
	}{
		{0, maxTransactionPage},
		{-5, maxTransactionPage},
		{50, 50},
		{maxTransactionPage + 1, maxTransactionPage},
	}
	for _, c := range cases {
		if _, err := svc.ListTransactions(helpers.TestCtx(), "uid1", dto.ListTransactionsRequest{Limit: c.limit}); err != nil {
			t.Fatalf("limit %d: unexpected error: %v", c.limit, err)
		}
		if store.lastQuery.Limit != c.want {
			t.Errorf("limit %d: query limit = %d, want %d", c.limit, store.lastQuery.Limit, c.want)
		}
	}
}

func TestListTransactions_RejectsBadFilters(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionStore{})

	cases := []dto.ListTransactionsRequest{
		{Type: helpers.Ptr("transfer")},
		{DateFrom: helpers.Ptr("03-2025")},
		{DateTo: helpers.Ptr("soon")},
	}
	for i, req := range cases {
		_, err := svc.ListTransactions(helpers.TestCtx(), "uid1", req)
		if _, ok := err.(*errs.ValidationError); !ok {
			t.Errorf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestDeleteTransaction_EmptyID(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionStore{})

	err := svc.DeleteTransaction(helpers.TestCtx(), "uid1", "")
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
