package discount

import (
	"time"

	"studentdeal-be/internal/pricing"

	"github.com/shopspring/decimal"
)

type EventDiscount = pricing.EventDiscount

type CreateInput struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Active     *bool           `json:"active"`
}

type ListResult struct {
	Items []EventDiscount `json:"items"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
