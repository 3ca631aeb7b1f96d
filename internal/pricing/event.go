package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventDiscount is a storewide, time-boxed percentage discount.
type EventDiscount struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ActiveAt reports whether the discount is enabled and now lies within
// [StartDate, EndDate], both ends inclusive.
func (e EventDiscount) ActiveAt(now time.Time) bool {
	if !e.Active {
		return false
	}
	return !now.Before(e.StartDate) && !now.After(e.EndDate)
}

// SelectEventDiscount picks the highest-percentage discount active at now.
// Equal percentages resolve to the lowest ID so concurrent readers agree.
func SelectEventDiscount(events []EventDiscount, now time.Time) *EventDiscount {
	var best *EventDiscount
	for i := range events {
		e := events[i]
		if !e.ActiveAt(now) {
			continue
		}
		if best == nil ||
			e.Percentage.GreaterThan(best.Percentage) ||
			(e.Percentage.Equal(best.Percentage) && e.ID < best.ID) {
			chosen := e
			best = &chosen
		}
	}
	return best
}

// Percent returns the discount as an optional percentage; nil means none.
func (e *EventDiscount) Percent() decimal.NullDecimal {
	if e == nil {
		return NoDiscount
	}
	return Percent(e.Percentage)
}
