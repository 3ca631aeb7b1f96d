// Package pricing computes stacked percentage discounts. Everything here is
// pure: inputs are never mutated and no I/O is performed.
package pricing

import (
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Quote is the itemized result of stacking the student and event discounts.
// StudentSavings + EventSavings always equals BasePrice - FinalPrice.
type Quote struct {
	BasePrice         decimal.Decimal     `json:"base_price"`
	StudentPercentage decimal.NullDecimal `json:"student_percentage"`
	EventPercentage   decimal.NullDecimal `json:"event_percentage"`
	StudentSavings    decimal.Decimal     `json:"student_savings"`
	EventSavings      decimal.Decimal     `json:"event_savings"`
	TotalSavings      decimal.Decimal     `json:"total_savings"`
	FinalPrice        decimal.Decimal     `json:"final_price"`
}

// ValidatePercentage accepts an absent value or one in [0,100].
func ValidatePercentage(p decimal.NullDecimal) error {
	if !p.Valid {
		return nil
	}
	if p.Decimal.IsNegative() || p.Decimal.GreaterThan(hundred) {
		return ErrInvalidDiscountRange
	}
	return nil
}

// Breakdown applies the student discount to the base price, then the event
// discount to what remains. Each amount is rounded to cents as it is computed.
func Breakdown(base decimal.Decimal, studentPct, eventPct decimal.NullDecimal) (Quote, error) {
	if err := ValidatePercentage(studentPct); err != nil {
		return Quote{}, err
	}
	if err := ValidatePercentage(eventPct); err != nil {
		return Quote{}, err
	}

	base = Round(base)
	studentSavings := savings(base, studentPct)
	afterStudent := base.Sub(studentSavings)
	eventSavings := savings(afterStudent, eventPct)
	final := afterStudent.Sub(eventSavings)

	return Quote{
		BasePrice:         base,
		StudentPercentage: studentPct,
		EventPercentage:   eventPct,
		StudentSavings:    studentSavings,
		EventSavings:      eventSavings,
		TotalSavings:      studentSavings.Add(eventSavings),
		FinalPrice:        final,
	}, nil
}

// FinalPrice is the one-shot form base*(1-s/100)*(1-e/100), rounded once.
func FinalPrice(base decimal.Decimal, studentPct, eventPct decimal.NullDecimal) (decimal.Decimal, error) {
	if err := ValidatePercentage(studentPct); err != nil {
		return decimal.Zero, err
	}
	if err := ValidatePercentage(eventPct); err != nil {
		return decimal.Zero, err
	}
	return Round(base.Mul(factor(studentPct)).Mul(factor(eventPct))), nil
}

// LineTotal is unit * quantity, rounded to cents.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unit.Mul(decimal.NewFromInt(int64(quantity))))
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

func savings(amount decimal.Decimal, pct decimal.NullDecimal) decimal.Decimal {
	if !pct.Valid || pct.Decimal.IsZero() {
		return decimal.Zero
	}
	return Round(amount.Mul(pct.Decimal).Div(hundred))
}

func factor(pct decimal.NullDecimal) decimal.Decimal {
	if !pct.Valid {
		return one
	}
	return one.Sub(pct.Decimal.Div(hundred))
}

// Percent is a convenience constructor for a present percentage.
func Percent(v decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: v, Valid: true}
}

// NoDiscount is the absent percentage.
var NoDiscount = decimal.NullDecimal{}
