package cart

import (
	"fmt"
	"time"

	"studentdeal-be/internal/auth"

	"github.com/shopspring/decimal"
)

// Scope selects a cart: exactly one of UserID or SessionID is set. User and
// session carts are disjoint; nothing merges them on login.
type Scope struct {
	UserID    uint
	SessionID string
}

func UserScope(userID uint) Scope { return Scope{UserID: userID} }

func SessionScope(sessionID string) Scope { return Scope{SessionID: sessionID} }

// ScopeFor resolves the cart scope from the caller identity. An authenticated
// identity always selects the user cart.
func ScopeFor(id auth.Identity) (Scope, error) {
	if id.IsAuthenticated() {
		return UserScope(id.UserID), nil
	}
	if id.SessionID != "" {
		return SessionScope(id.SessionID), nil
	}
	return Scope{}, ErrNoScope
}

func (s Scope) IsUser() bool { return s.UserID > 0 }

func (s Scope) Valid() bool {
	return (s.UserID > 0) != (s.SessionID != "")
}

func (s Scope) String() string {
	if s.IsUser() {
		return fmt.Sprintf("user:%d", s.UserID)
	}
	return "session:" + s.SessionID
}

// Owns reports whether a cart row with the given owner columns belongs to s.
func (s Scope) Owns(userID *uint, sessionID *string) bool {
	if s.IsUser() {
		return userID != nil && *userID == s.UserID
	}
	return sessionID != nil && *sessionID == s.SessionID
}

type Cart struct {
	ID        int64      `json:"id"`
	UserID    *uint      `json:"user_id,omitempty"`
	SessionID *string    `json:"session_id,omitempty"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Product is the live product row, present when items are listed.
	Product *ItemProduct `json:"product,omitempty"`
}

type ItemProduct struct {
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	Stock     int             `json:"stock"`
	Active    bool            `json:"active"`
	Images    []string        `json:"images"`
}

// ItemOwner is a cart item joined to its cart's owner columns.
type ItemOwner struct {
	Item      CartItem
	UserID    *uint
	SessionID *string
}

type ProductStock struct {
	Active bool
	Stock  int
}

type Totals struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	Cart   *Cart  `json:"cart"`
	Totals Totals `json:"totals"`
}
