// Package money centralizes monetary validation and arithmetic. Amounts are
// stored as float64 for Firestore compatibility; all validation and summing
// go through decimals so two-place precision holds exactly.
package money

import (
	"github.com/shopspring/decimal"
)

// MaxAmount bounds any single monetary value the API accepts.
const MaxAmount = 1_000_000_000

// Validate reports whether amount is a usable monetary value: strictly
// positive, at most two fractional digits, and within MaxAmount.
func Validate(amount float64) bool {
	d := decimal.NewFromFloat(amount)
	if !d.IsPositive() {
		return false
	}
	if d.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return false
	}
	return d.Equal(d.Round(2))
}

// Sum adds amounts exactly and returns the float64 rendering of the total.
func Sum(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}

// Sub computes a - b at two-place precision.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return f
}

// Percent computes part/whole*100 rounded half-up to two places.
// Returns 0 when whole is not positive, never NaN or Inf.
func Percent(part, whole float64) float64 {
	w := decimal.NewFromFloat(whole)
	if !w.IsPositive() {
		return 0
	}
	p := decimal.NewFromFloat(part)
	f, _ := p.Div(w).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}
