package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/helpers"
)

// --- Fakes ---

type firing struct {
	transaction  *models.Transaction
	confirmation *models.IncomeConfirmation
	nextDate     string
}

type fakeRecurringStore struct {
	recs    map[string]*models.RecurringTransaction
	firings []firing
	fireErr error
}

func newFakeRecurringStore() *fakeRecurringStore {
	return &fakeRecurringStore{recs: make(map[string]*models.RecurringTransaction)}
}

func (f *fakeRecurringStore) Create(_ context.Context, _ string, rec *models.RecurringTransaction) error {
	f.recs[rec.RecurringID] = rec
	return nil
}

func (f *fakeRecurringStore) Get(_ context.Context, _, recurringID string) (*models.RecurringTransaction, error) {
	rec, ok := f.recs[recurringID]
	if !ok {
		return nil, errs.NewNotFoundError("recurring transaction not found")
	}
	return rec, nil
}

func (f *fakeRecurringStore) List(_ context.Context, _ string) ([]models.RecurringTransaction, error) {
	var out []models.RecurringTransaction
	for _, rec := range f.recs {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeRecurringStore) ListDue(_ context.Context, _, asOf string) ([]models.RecurringTransaction, error) {
	var out []models.RecurringTransaction
	for _, rec := range f.recs {
		if rec.IsActive && rec.NextExecutionDate <= asOf {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRecurringStore) SetActive(_ context.Context, _, recurringID string, active bool) error {
	rec, ok := f.recs[recurringID]
	if !ok {
		return errs.NewNotFoundError("recurring transaction not found")
	}
	rec.IsActive = active
	return nil
}

func (f *fakeRecurringStore) Delete(_ context.Context, _, recurringID string) error {
	delete(f.recs, recurringID)
	return nil
}

func (f *fakeRecurringStore) Fire(_ context.Context, _ string, t *models.Transaction, conf *models.IncomeConfirmation, recurringID, nextDate string) error {
	if f.fireErr != nil {
		return f.fireErr
	}
	f.firings = append(f.firings, firing{transaction: t, confirmation: conf, nextDate: nextDate})
	f.recs[recurringID].NextExecutionDate = nextDate
	return nil
}

type fakeConfirmationStore struct {
	pending    []models.IncomeConfirmation
	resolved   *models.IncomeConfirmation
	resolveErr error
	lastID     string
	lastChoice bool
}

func (f *fakeConfirmationStore) ListPending(_ context.Context, _ string) ([]models.IncomeConfirmation, error) {
	return f.pending, nil
}

func (f *fakeConfirmationStore) Resolve(_ context.Context, _, confirmationID string, confirmed bool) (*models.IncomeConfirmation, error) {
	f.lastID = confirmationID
	f.lastChoice = confirmed
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.resolved, nil
}

func sweepServiceAt(store *fakeRecurringStore, confs *fakeConfirmationStore, day string) *recurringService {
	svc := NewRecurringService(store, confs)
	asOf, err := time.Parse(dateLayout, day)
	if err != nil {
		panic(err)
	}
	svc.now = func() time.Time { return asOf }
	return svc
}

// --- NextDate ---

func TestNextDate(t *testing.T) {
	cases := []struct {
		date      string
		frequency string
		want      string
	}{
		{"2024-12-15", models.FrequencyMonthly, "2025-01-15"},
		{"2024-11-30", models.FrequencyQuarterly, "2025-02-28"},
		{"2024-01-31", models.FrequencyMonthly, "2024-02-29"}, // leap year
		{"2023-01-31", models.FrequencyMonthly, "2023-02-28"},
		{"2024-03-31", models.FrequencyBimonthly, "2024-05-31"},
		{"2024-08-31", models.FrequencySemiannual, "2025-02-28"},
		{"2024-02-29", models.FrequencyAnnual, "2025-02-28"},
		{"2024-10-01", models.FrequencyQuarterly, "2025-01-01"},
	}
	for _, c := range cases {
		got, err := NextDate(c.date, c.frequency)
		if err != nil {
			t.Errorf("NextDate(%s, %s): unexpected error %v", c.date, c.frequency, err)
			continue
		}
		if got != c.want {
			t.Errorf("NextDate(%s, %s) = %s, want %s", c.date, c.frequency, got, c.want)
		}
	}
}

func TestNextDate_UnknownFrequency(t *testing.T) {
	if _, err := NextDate("2024-01-01", "weekly"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

// --- Due ---

func TestDue(t *testing.T) {
	asOf, _ := time.Parse(dateLayout, "2025-03-10")

	cases := []struct {
		name string
		rec  models.RecurringTransaction
		want bool
	}{
		{"due today", models.RecurringTransaction{IsActive: true, NextExecutionDate: "2025-03-10"}, true},
		{"overdue", models.RecurringTransaction{IsActive: true, NextExecutionDate: "2025-02-01"}, true},
		{"not yet", models.RecurringTransaction{IsActive: true, NextExecutionDate: "2025-03-11"}, false},
		{"inactive", models.RecurringTransaction{IsActive: false, NextExecutionDate: "2025-03-01"}, false},
		{"past end date", models.RecurringTransaction{IsActive: true, NextExecutionDate: "2025-03-01", EndDate: "2025-03-05"}, false},
		{"end date today", models.RecurringTransaction{IsActive: true, NextExecutionDate: "2025-03-10", EndDate: "2025-03-10"}, true},
	}
	for _, c := range cases {
		if got := Due(&c.rec, asOf); got != c.want {
			t.Errorf("%s: Due = %v, want %v", c.name, got, c.want)
		}
	}
}

// --- CreateRecurring ---

func TestCreateRecurring_Defaults(t *testing.T) {
	store := newFakeRecurringStore()
	svc := NewRecurringService(store, &fakeConfirmationStore{})

	rec, err := svc.CreateRecurring(helpers.TestCtx(), "uid1", dto.CreateRecurringRequest{
		Description: "Aluguel",
		Amount:      1500,
		Type:        models.TransactionTypeExpense,
		Category:    "Moradia",
		Frequency:   models.FrequencyMonthly,
		StartDate:   "2025-04-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.IsActive {
		t.Error("new recurrence should be active")
	}
	if rec.NextExecutionDate != "2025-04-01" {
		t.Errorf("nextExecutionDate = %s, want the start date", rec.NextExecutionDate)
	}
}

func TestCreateRecurring_EndBeforeStart(t *testing.T) {
	svc := NewRecurringService(newFakeRecurringStore(), &fakeConfirmationStore{})

	_, err := svc.CreateRecurring(helpers.TestCtx(), "uid1", dto.CreateRecurringRequest{
		Description: "Assinatura",
		Amount:      30,
		Type:        models.TransactionTypeExpense,
		Category:    "Lazer",
		Frequency:   models.FrequencyMonthly,
		StartDate:   "2025-04-01",
		EndDate:     "2025-03-01",
	})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// --- Sweep ---

func TestSweep_FiresDueExpense(t *testing.T) {
	store := newFakeRecurringStore()
	store.recs["r1"] = &models.RecurringTransaction{
		RecurringID:       "r1",
		Description:       "Aluguel",
		Amount:            1500,
		Type:              models.TransactionTypeExpense,
		Category:          "Moradia",
		Frequency:         models.FrequencyMonthly,
		IsActive:          true,
		NextExecutionDate: "2025-03-01",
	}
	svc := sweepServiceAt(store, &fakeConfirmationStore{}, "2025-03-05")

	res, err := svc.Sweep(helpers.TestCtx(), "uid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fired != 1 || res.Confirmations != 0 || res.Failed != 0 {
		t.Fatalf("result = %+v, want 1 fired, no confirmations, no failures", res)
	}
	fired := store.firings[0]
	if fired.transaction.Date != "2025-03-01" {
		t.Errorf("transaction date = %s, want the scheduled date 2025-03-01", fired.transaction.Date)
	}
	if fired.transaction.Source != models.TransactionSourceRecurring {
		t.Errorf("source = %s, want %s", fired.transaction.Source, models.TransactionSourceRecurring)
	}
	if fired.transaction.RecurringID != "r1" {
		t.Errorf("recurringId = %s, want r1", fired.transaction.RecurringID)
	}
	if fired.confirmation != nil {
		t.Error("expense firing must not create a confirmation")
	}
	if fired.nextDate != "2025-04-01" {
		t.Errorf("next date = %s, want 2025-04-01", fired.nextDate)
	}
}

func TestSweep_IncomeGetsPendingConfirmation(t *testing.T) {
	store := newFakeRecurringStore()
	store.recs["r1"] = &models.RecurringTransaction{
		RecurringID:       "r1",
		Description:       "Salário",
		Amount:            8000,
		Type:              models.TransactionTypeIncome,
		Category:          "Salário",
		Frequency:         models.FrequencyMonthly,
		IsActive:          true,
		NextExecutionDate: "2025-03-05",
	}
	svc := sweepServiceAt(store, &fakeConfirmationStore{}, "2025-03-05")

	res, err := svc.Sweep(helpers.TestCtx(), "uid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fired != 1 || res.Confirmations != 1 {
		t.Fatalf("result = %+v, want 1 fired with 1 confirmation", res)
	}
	conf := store.firings[0].confirmation
	if conf == nil {
		t.Fatal("expected a confirmation for the income firing")
	}
	if conf.Status != models.ConfirmationStatusPending {
		t.Errorf("status = %s, want %s", conf.Status, models.ConfirmationStatusPending)
	}
	if conf.TransactionID != store.firings[0].transaction.TransactionID {
		t.Error("confirmation must reference the fired transaction")
	}
}

func TestSweep_SecondRunFiresNothing(t *testing.T) {
	store := newFakeRecurringStore()
	store.recs["r1"] = &models.RecurringTransaction{
		RecurringID:       "r1",
		Description:       "Aluguel",
		Amount:            1500,
		Type:              models.TransactionTypeExpense,
		Category:          "Moradia",
		Frequency:         models.FrequencyMonthly,
		IsActive:          true,
		NextExecutionDate: "2025-03-01",
	}
	svc := sweepServiceAt(store, &fakeConfirmationStore{}, "2025-03-05")

	if _, err := svc.Sweep(helpers.TestCtx(), "uid1"); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	res, err := svc.Sweep(helpers.TestCtx(), "uid1")
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.Fired != 0 {
		t.Errorf("second sweep fired %d, want 0", res.Fired)
	}
	if len(store.firings) != 1 {
		t.Errorf("total firings = %d, want 1", len(store.firings))
	}
}

func TestSweep_FailedFiringDoesNotAdvance(t *testing.T) {
	store := newFakeRecurringStore()
	store.recs["r1"] = &models.RecurringTransaction{
		RecurringID:       "r1",
		Description:       "Aluguel",
		Amount:            1500,
		Type:              models.TransactionTypeExpense,
		Category:          "Moradia",
		Frequency:         models.FrequencyMonthly,
		IsActive:          true,
		NextExecutionDate: "2025-03-01",
	}
	store.fireErr = errors.New("firestore unavailable")
	svc := sweepServiceAt(store, &fakeConfirmationStore{}, "2025-03-05")

	res, err := svc.Sweep(helpers.TestCtx(), "uid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fired != 0 || res.Failed != 1 {
		t.Fatalf("result = %+v, want 0 fired and 1 failed", res)
	}
	if store.recs["r1"].NextExecutionDate != "2025-03-01" {
		t.Errorf("nextExecutionDate advanced to %s despite the failure", store.recs["r1"].NextExecutionDate)
	}

	// Retry once the store recovers.
	store.fireErr = nil
	res, err = svc.Sweep(helpers.TestCtx(), "uid1")
	if err != nil {
		t.Fatalf("retry sweep: %v", err)
	}
	if res.Fired != 1 {
		t.Errorf("retry fired %d, want 1", res.Fired)
	}
}

func TestSweep_DeactivatesExpiredDefinition(t *testing.T) {
	store := newFakeRecurringStore()
	store.recs["r1"] = &models.RecurringTransaction{
		RecurringID:       "r1",
		Description:       "Curso",
		Amount:            200,
		Type:              models.TransactionTypeExpense,
		Category:          "Educação",
		Frequency:         models.FrequencyMonthly,
		IsActive:          true,
		NextExecutionDate: "2025-02-01",
		EndDate:           "2025-02-15",
	}
	svc := sweepServiceAt(store, &fakeConfirmationStore{}, "2025-03-05")

	res, err := svc.Sweep(helpers.TestCtx(), "uid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fired != 0 {
		t.Errorf("fired %d past the end date, want 0", res.Fired)
	}
	if store.recs["r1"].IsActive {
		t.Error("expired definition should be deactivated")
	}
}

// --- Confirmations ---

func TestResolveConfirmation_PassesChoiceThrough(t *testing.T) {
	confs := &fakeConfirmationStore{
		resolved: &models.IncomeConfirmation{ConfirmationID: "c1", Status: models.ConfirmationStatusCancelled},
	}
	svc := NewRecurringService(newFakeRecurringStore(), confs)

	got, err := svc.ResolveConfirmation(helpers.TestCtx(), "uid1", "c1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confs.lastID != "c1" || confs.lastChoice != false {
		t.Errorf("store called with (%s, %v), want (c1, false)", confs.lastID, confs.lastChoice)
	}
	if got.Status != models.ConfirmationStatusCancelled {
		t.Errorf("status = %s, want %s", got.Status, models.ConfirmationStatusCancelled)
	}
}

func TestResolveConfirmation_EmptyID(t *testing.T) {
	svc := NewRecurringService(newFakeRecurringStore(), &fakeConfirmationStore{})

	_, err := svc.ResolveConfirmation(helpers.TestCtx(), "uid1", "", true)
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestResolveConfirmation_NotFoundPropagates(t *testing.T) {
	confs := &fakeConfirmationStore{resolveErr: errs.NewNotFoundError("confirmation not found")}
	svc := NewRecurringService(newFakeRecurringStore(), confs)

	_, err := svc.ResolveConfirmation(helpers.TestCtx(), "uid1", "missing", true)
	if _, ok := err.(*errs.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
