package money

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		amount float64
		want   bool
	}{
		{100, true},
		{0.01, true},
		{123.45, true},
		{MaxAmount, true},
		{0, false},
		{-1, false},
		{9.999, false},
		{MaxAmount + 0.01, false},
	}
	for _, c := range cases {
		if got := Validate(c.amount); got != c.want {
			t.Errorf("Validate(%v) = %v, want %v", c.amount, got, c.want)
		}
	}
}

func TestSumExact(t *testing.T) {
	// Naive float addition gives 0.30000000000000004 here.
	if got := Sum([]float64{0.1, 0.2}); got != 0.3 {
		t.Errorf("Sum = %v, want exactly 0.3", got)
	}
	if got := Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %v, want 0", got)
	}
}

func TestSub(t *testing.T) {
	if got := Sub(1000, 850); got != 150 {
		t.Errorf("Sub = %v, want 150", got)
	}
	if got := Sub(0.3, 0.1); got != 0.2 {
		t.Errorf("Sub = %v, want exactly 0.2", got)
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		part, whole, want float64
	}{
		{850, 1000, 85},
		{1000, 1500, 66.67},
		{250, 200, 125},
		{0, 1000, 0},
		{100, 0, 0},
		{100, -5, 0},
	}
	for _, c := range cases {
		if got := Percent(c.part, c.whole); got != c.want {
			t.Errorf("Percent(%v, %v) = %v, want %v", c.part, c.whole, got, c.want)
		}
	}
}
