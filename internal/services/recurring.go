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

var frequencyMonths = map[string]int{
	models.FrequencyMonthly:    1,
	models.FrequencyBimonthly:  2,
	models.FrequencyQuarterly:  3,
	models.FrequencySemiannual: 6,
	models.FrequencyAnnual:     12,
}

type recurringRTStore interface {
	Create(ctx context.Context, uid string, rec *models.RecurringTransaction) error
	Get(ctx context.Context, uid, recurringID string) (*models.RecurringTransaction, error)
	List(ctx context.Context, uid string) ([]models.RecurringTransaction, error)
	ListDue(ctx context.Context, uid, asOf string) ([]models.RecurringTransaction, error)
	SetActive(ctx context.Context, uid, recurringID string, active bool) error
	Delete(ctx context.Context, uid, recurringID string) error
	Fire(ctx context.Context, uid string, t *models.Transaction, conf *models.IncomeConfirmation, recurringID, nextDate string) error
}

type confirmationRTStore interface {
	ListPending(ctx context.Context, uid string) ([]models.IncomeConfirmation, error)
	Resolve(ctx context.Context, uid, confirmationID string, confirmed bool) (*models.IncomeConfirmation, error)
}

type recurringService struct {
	store recurringRTStore
	confs confirmationRTStore
	now   func() time.Time
}

func NewRecurringService(store recurringRTStore, confs confirmationRTStore) *recurringService {
	return &recurringService{store: store, confs: confs, now: time.Now}
}

// --- CRUD ---

func (s *recurringService) CreateRecurring(ctx context.Context, uid string, req dto.CreateRecurringRequest) (*models.RecurringTransaction, error) {
	if err := validateRequired("description", req.Description); err != nil {
		return nil, err
	}
	if err := validateRequired("category", req.Category); err != nil {
		return nil, err
	}
	if err := validateTransactionType(req.Type); err != nil {
		return nil, err
	}
	if err := validateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if _, ok := frequencyMonths[req.Frequency]; !ok {
		return nil, errs.NewValidationError("frequency must be one of: monthly, bimonthly, quarterly, semiannual, annual")
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	if req.EndDate != "" {
		end, err := parseDate("endDate", req.EndDate)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, errs.NewValidationError("endDate cannot be before startDate")
		}
	}

	rec := &models.RecurringTransaction{
		RecurringID:       uuid.New().String(),
		Description:       req.Description,
		Amount:            req.Amount,
		Type:              req.Type,
		Category:          req.Category,
		Frequency:         req.Frequency,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		IsActive:          true,
		NextExecutionDate: req.StartDate,
	}
	if err := s.store.Create(ctx, uid, rec); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("recurring transaction created",
		"frequency", rec.Frequency, "type", rec.Type, "category", rec.Category)
	return rec, nil
}

func (s *recurringService) ListRecurring(ctx context.Context, uid string) ([]models.RecurringTransaction, error) {
	return s.store.List(ctx, uid)
}

func (s *recurringService) SetActive(ctx context.Context, uid, recurringID string, active bool) error {
	return s.store.SetActive(ctx, uid, recurringID, active)
}

func (s *recurringService) DeleteRecurring(ctx context.Context, uid, recurringID string) error {
	return s.store.Delete(ctx, uid, recurringID)
}

// --- Engine ---

// Due reports whether rec has an occurrence to fire as of the given day.
// False once asOf passes the end date, even with an overdue execution date.
func Due(rec *models.RecurringTransaction, asOf time.Time) bool {
	if !rec.IsActive {
		return false
	}
	next, err := time.Parse(dateLayout, rec.NextExecutionDate)
	if err != nil || next.After(asOf) {
		return false
	}
	if rec.EndDate != "" {
		end, err := time.Parse(dateLayout, rec.EndDate)
		if err != nil || asOf.After(end) {
			return false
		}
	}
	return true
}

// NextDate adds the frequency's month interval to a YYYY-MM-DD date.
// The day is clamped to the last valid day of the target month, so
// Jan 31 + 1 month is Feb 28 (29 in leap years) and Nov 30 + 3 months
// is Feb 28. Year boundaries roll over.
func NextDate(date, frequency string) (string, error) {
	months, ok := frequencyMonths[frequency]
	if !ok {
		return "", errs.NewValidationError("unknown frequency: " + frequency)
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", errs.NewValidationError("next execution date is not a YYYY-MM-DD date")
	}

	total := int(d.Month()) + months
	year := d.Year() + (total-1)/12
	month := time.Month((total-1)%12 + 1)
	day := d.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout), nil
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Sweep fires every due recurrence once. Income occurrences also get a
// pending confirmation. Each firing is atomic in the store: a failed
// firing leaves the next execution date untouched and is retried on the
// next sweep. Definitions past their end date are deactivated.
func (s *recurringService) Sweep(ctx context.Context, uid string) (dto.SweepResult, error) {
	log := logger.FromContext(ctx)
	asOf := s.now()
	result := dto.SweepResult{}

	due, err := s.store.ListDue(ctx, uid, asOf.Format(dateLayout))
	if err != nil {
		return result, err
	}

	for i := range due {
		rec := &due[i]
		if !Due(rec, asOf) {
			if rec.IsActive && rec.EndDate != "" {
				if err := s.store.SetActive(ctx, uid, rec.RecurringID, false); err != nil {
					log.Warn("failed to deactivate expired recurrence", "recurring_id", rec.RecurringID, "error", err)
				}
			}
			continue
		}

		next, err := NextDate(rec.NextExecutionDate, rec.Frequency)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		t := &models.Transaction{
			TransactionID: uuid.New().String(),
			Description:   rec.Description,
			Amount:        rec.Amount,
			Type:          rec.Type,
			Category:      rec.Category,
			Date:          rec.NextExecutionDate,
			Source:        models.TransactionSourceRecurring,
			RecurringID:   rec.RecurringID,
		}
		var conf *models.IncomeConfirmation
		if rec.Type == models.TransactionTypeIncome {
			conf = &models.IncomeConfirmation{
				ConfirmationID: uuid.New().String(),
				TransactionID:  t.TransactionID,
				Description:    rec.Description,
				Amount:         rec.Amount,
				Status:         models.ConfirmationStatusPending,
			}
		}

		if err := s.store.Fire(ctx, uid, t, conf, rec.RecurringID, next); err != nil {
			log.Warn("recurrence firing failed",
				"recurring_id", rec.RecurringID, "error", err)
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Fired++
		if conf != nil {
			result.Confirmations++
		}
	}

	log.Info("recurrence sweep finished",
		"fired", result.Fired, "confirmations", result.Confirmations, "failed", result.Failed)
	return result, nil
}

// --- Confirmations ---

func (s *recurringService) ListPendingConfirmations(ctx context.Context, uid string) ([]models.IncomeConfirmation, error) {
	return s.confs.ListPending(ctx, uid)
}

func (s *recurringService) ResolveConfirmation(ctx context.Context, uid, confirmationID string, confirmed bool) (*models.IncomeConfirmation, error) {
	if confirmationID == "" {
		return nil, errs.NewValidationError("confirmationId is required")
	}
	c, err := s.confs.Resolve(ctx, uid, confirmationID, confirmed)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("income confirmation resolved",
		"confirmation_id", confirmationID, "status", c.Status)
	return c, nil
}
