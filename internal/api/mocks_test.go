package api

import (
	"context"
	"time"

	"studentdeal-be/internal/auth"
	"studentdeal-be/internal/cart"
	"studentdeal-be/internal/discount"
	"studentdeal-be/internal/order"
	"studentdeal-be/internal/product"
	"studentdeal-be/internal/quote"
	"studentdeal-be/internal/verification"

	"github.com/stretchr/testify/mock"
)

type MockCartService struct{ mock.Mock }

func (m *MockCartService) GetOrCreate(ctx context.Context, scope cart.Scope) (*cart.Cart, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, scope cart.Scope) (*cart.Summary, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Summary), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, scope cart.Scope, productID int64, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, scope, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, scope cart.Scope, itemID int64, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, scope, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, scope cart.Scope, itemID int64) error {
	return m.Called(ctx, scope, itemID).Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, scope cart.Scope) error {
	return m.Called(ctx, scope).Error(0)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID uint) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID int64, caller auth.Identity) (*order.Order, error) {
	args := m.Called(ctx, orderID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, userID uint, page, limit int) (*order.ListResult, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ListResult), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, status *order.Status, page, limit int) (*order.ListResult, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ListResult), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID int64, next order.Status) (*order.Order, error) {
	args := m.Called(ctx, orderID, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockVerificationService struct{ mock.Mock }

func (m *MockVerificationService) Submit(ctx context.Context, userID uint, method, payload string) (*verification.Verification, error) {
	args := m.Called(ctx, userID, method, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Verification), args.Error(1)
}

func (m *MockVerificationService) Decide(ctx context.Context, adminID uint, verificationID int64, decision string, notes *string) (*verification.Verification, error) {
	args := m.Called(ctx, adminID, verificationID, decision, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Verification), args.Error(1)
}

func (m *MockVerificationService) IsEligible(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVerificationService) GetMine(ctx context.Context, userID uint) (*verification.Verification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Verification), args.Error(1)
}

func (m *MockVerificationService) ListPending(ctx context.Context, page, limit int) (*verification.ListResult, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.ListResult), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) GetProduct(ctx context.Context, id int64, includeInactive bool) (*product.Product, error) {
	args := m.Called(ctx, id, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, in product.CreateInput) (*product.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id int64, in product.UpdateInput) (*product.Product, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockDiscountService struct{ mock.Mock }

func (m *MockDiscountService) Create(ctx context.Context, in discount.CreateInput) (*discount.EventDiscount, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.EventDiscount), args.Error(1)
}

func (m *MockDiscountService) SetActive(ctx context.Context, id int64, active bool) (*discount.EventDiscount, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.EventDiscount), args.Error(1)
}

func (m *MockDiscountService) List(ctx context.Context, page, limit int) (*discount.ListResult, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.ListResult), args.Error(1)
}

func (m *MockDiscountService) Active(ctx context.Context, now time.Time) (*discount.EventDiscount, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.EventDiscount), args.Error(1)
}

type MockQuoteService struct{ mock.Mock }

func (m *MockQuoteService) ProductQuote(ctx context.Context, productID int64, caller auth.Identity) (*quote.ProductQuote, error) {
	args := m.Called(ctx, productID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.ProductQuote), args.Error(1)
}
