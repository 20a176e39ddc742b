package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/pkg/money"
)

const dateLayout = "2006-01-02"

// lookbackYears bounds how far in the past a manual date may fall.
const lookbackYears = 5

func validateAmount(field string, amount float64) error {
	if !money.Validate(amount) {
		return errs.NewValidationError(fmt.Sprintf("%s must be a positive amount with at most 2 decimal places", field))
	}
	return nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValidationError(field + " is required")
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errs.NewValidationError(field + " must be a YYYY-MM-DD date")
	}
	return d, nil
}

// validateEntryDate enforces the lookback window for user-entered dates:
// not in the future, not older than lookbackYears.
func validateEntryDate(field, value string, now time.Time) error {
	d, err := parseDate(field, value)
	if err != nil {
		return err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return errs.NewValidationError(field + " cannot be in the future")
	}
	if d.Before(today.AddDate(-lookbackYears, 0, 0)) {
		return errs.NewValidationError(fmt.Sprintf("%s cannot be more than %d years in the past", field, lookbackYears))
	}
	return nil
}

func validateTransactionType(t string) error {
	switch t {
	case "income", "expense":
		return nil
	}
	return errs.NewValidationError(`type must be "income" or "expense"`)
}

func validateYearMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return errs.NewValidationError("year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return errs.NewValidationError("month must be between 1 and 12")
	}
	return nil
}
