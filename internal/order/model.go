package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studentdeal-be/internal/product"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the full status graph. DELIVERED and CANCELLED are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", ErrUnknownStatus.WithMessage(fmt.Sprintf("unknown order status %q", s))
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID             int64           `json:"id"`
	OrderNumber    string          `json:"order_number"`
	UserID         uint            `json:"user_id"`
	Status         Status          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	PlacedAt       time.Time       `json:"placed_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// OrderItem is written once at placement and never updated.
type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Snapshot        Snapshot        `json:"product_snapshot"`
}

// Snapshot freezes the product display fields at purchase time.
type Snapshot struct {
	Name       string             `json:"name"`
	Properties product.Properties `json:"properties"`
	Images     []string           `json:"images"`
}

func (s Snapshot) Value() (driver.Value, error) {
	if s.Properties == nil {
		s.Properties = product.Properties{}
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	return json.Marshal(s)
}

func (s *Snapshot) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*s = Snapshot{}
		return nil
	default:
		return fmt.Errorf("snapshot: unsupported type %T", src)
	}
	return json.Unmarshal(raw, s)
}

type ListFilter struct {
	UserID *uint
	Status *Status
}

type ListResult struct {
	Items []Order `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// checkoutLine is a locked cart item joined to its product row.
type checkoutLine struct {
	CartItemID int64
	ProductID  int64
	Quantity   int
	Name       string
	BasePrice  decimal.Decimal
	Stock      int
	Active     bool
	Properties product.Properties
	Images     []string
}
