package cart

import (
	"context"

	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	GetOrCreate(ctx context.Context, scope Scope) (*Cart, error)
	GetCart(ctx context.Context, scope Scope) (*Summary, error)
	AddItem(ctx context.Context, scope Scope, productID int64, quantity int) (*CartItem, error)
	UpdateItem(ctx context.Context, scope Scope, itemID int64, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, scope Scope, itemID int64) error
	Clear(ctx context.Context, scope Scope) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrCreate(ctx context.Context, scope Scope) (*Cart, error) {
	if !scope.Valid() {
		return nil, ErrNoScope
	}

	c, err := s.repo.GetOrCreate(ctx, scope)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	return c, nil
}

// GetCart loads the scope's cart with live product data and its totals.
func (s *service) GetCart(ctx context.Context, scope Scope) (*Summary, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCart"),
		zap.String("scope", scope.String()),
	)

	c, err := s.GetOrCreate(ctx, scope)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup {
			log.Error("duplicate product rows in cart",
				zap.Int64("cart_id", c.ID),
				zap.Int64("product_id", it.ProductID),
			)
			return nil, ErrDuplicateCartItem
		}
		seen[it.ProductID] = struct{}{}
	}

	c.Items = items
	return &Summary{Cart: c, Totals: ComputeTotals(c)}, nil
}

func (s *service) AddItem(ctx context.Context, scope Scope, productID int64, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("scope", scope.String()),
		zap.Int64("product_id", productID),
	)

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if productID <= 0 {
		return nil, ErrProductNotFound
	}

	c, err := s.GetOrCreate(ctx, scope)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.AddItem(ctx, c.ID, productID, quantity)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if item != nil {
		return item, nil
	}

	// The guarded upsert wrote nothing: find out which guard failed.
	ps, err := s.repo.GetProductStock(ctx, productID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if ps == nil || !ps.Active {
		return nil, ErrProductNotFound
	}

	log.Info("add rejected, insufficient stock", zap.Int("stock", ps.Stock))
	return nil, ErrOutOfStock
}

func (s *service) UpdateItem(ctx context.Context, scope Scope, itemID int64, quantity int) (*CartItem, error) {
	if !scope.Valid() {
		return nil, ErrNoScope
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	owner, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if owner == nil {
		return nil, ErrCartItemNotFound
	}
	if !scope.Owns(owner.UserID, owner.SessionID) {
		return nil, ErrForeignCartItem
	}

	item, err := s.repo.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if item != nil {
		return item, nil
	}

	ps, err := s.repo.GetProductStock(ctx, owner.Item.ProductID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	switch {
	case ps == nil || !ps.Active:
		return nil, ErrProductNotFound
	case ps.Stock >= quantity:
		// stock suffices, so the row was removed after GetItem
		return nil, ErrCartItemNotFound
	}

	logger.FromCtx(ctx).Info("update rejected, insufficient stock",
		zap.String("layer", "service"),
		zap.String("method", "UpdateItem"),
		zap.Int64("cart_item_id", itemID),
		zap.Int("stock", ps.Stock),
	)
	return nil, ErrOutOfStock
}

// RemoveItem succeeds when the item is already gone.
func (s *service) RemoveItem(ctx context.Context, scope Scope, itemID int64) error {
	if !scope.Valid() {
		return ErrNoScope
	}

	owner, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return ErrStorage.WithCause(err)
	}
	if owner == nil {
		return nil
	}
	if !scope.Owns(owner.UserID, owner.SessionID) {
		return ErrForeignCartItem
	}

	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return ErrStorage.WithCause(err)
	}
	return nil
}

// Clear empties the scope's cart; a scope without a cart is already clear.
func (s *service) Clear(ctx context.Context, scope Scope) error {
	if !scope.Valid() {
		return ErrNoScope
	}

	c, err := s.repo.FindCart(ctx, scope)
	if err != nil {
		return ErrStorage.WithCause(err)
	}
	if c == nil {
		return nil
	}

	if err := s.repo.ClearCart(ctx, c.ID); err != nil {
		return ErrStorage.WithCause(err)
	}
	return nil
}

// ComputeTotals sums quantities and live base prices. Items without loaded
// product data count toward ItemCount only.
func ComputeTotals(c *Cart) Totals {
	totals := Totals{Subtotal: decimal.Zero}
	if c == nil {
		return totals
	}
	for _, it := range c.Items {
		totals.ItemCount += it.Quantity
		if it.Product != nil {
			totals.Subtotal = totals.Subtotal.Add(pricing.LineTotal(it.Product.BasePrice, it.Quantity))
		}
	}
	totals.Subtotal = pricing.Round(totals.Subtotal)
	return totals
}
