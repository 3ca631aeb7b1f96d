package cart

import (
	"context"
	"errors"
	"testing"

	"studentdeal-be/internal/apperr"
	"studentdeal-be/internal/auth"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreate(ctx context.Context, scope Scope) (*Cart, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) FindCart(ctx context.Context, scope Scope) (*Cart, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) ListItems(ctx context.Context, cartID int64) ([]CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CartItem), args.Error(1)
}

func (m *MockRepository) AddItem(ctx context.Context, cartID, productID int64, quantity int) (*CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) GetProductStock(ctx context.Context, productID int64) (*ProductStock, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProductStock), args.Error(1)
}

func (m *MockRepository) GetItem(ctx context.Context, itemID int64) (*ItemOwner, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemOwner), args.Error(1)
}

func (m *MockRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error) {
	args := m.Called(ctx, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) RemoveItem(ctx context.Context, itemID int64) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockRepository) ClearCart(ctx context.Context, cartID int64) error {
	return m.Called(ctx, cartID).Error(0)
}

func uintPtr(v uint) *uint { return &v }
func strPtr(v string) *string { return &v }
func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestScopeFor(t *testing.T) {
	s, err := ScopeFor(auth.Identity{UserID: 4, SessionID: "sess"})
	require.NoError(t, err)
	assert.Equal(t, UserScope(4), s)

	s, err = ScopeFor(auth.Identity{SessionID: "sess"})
	require.NoError(t, err)
	assert.Equal(t, SessionScope("sess"), s)

	_, err = ScopeFor(auth.Identity{})
	assert.ErrorIs(t, err, ErrNoScope)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestScopeOwns(t *testing.T) {
	assert.True(t, UserScope(1).Owns(uintPtr(1), nil))
	assert.False(t, UserScope(1).Owns(uintPtr(2), nil))
	assert.False(t, UserScope(1).Owns(nil, strPtr("1")))
	assert.True(t, SessionScope("a").Owns(nil, strPtr("a")))
	assert.False(t, SessionScope("a").Owns(uintPtr(1), nil))
	assert.False(t, Scope{UserID: 1, SessionID: "a"}.Valid())
	assert.False(t, Scope{}.Valid())
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	scope := UserScope(1)
	cart := &Cart{ID: 10}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreate", ctx, scope).Return(cart, nil)
		repo.On("AddItem", ctx, int64(10), int64(100), 2).
			Return(&CartItem{ID: 1, CartID: 10, ProductID: 100, Quantity: 2}, nil)

		item, err := svc.AddItem(ctx, scope, 100, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("Second add increments the same row", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreate", ctx, scope).Return(cart, nil)
		repo.On("AddItem", ctx, int64(10), int64(100), 2).
			Return(&CartItem{ID: 1, ProductID: 100, Quantity: 2}, nil).Once()
		repo.On("AddItem", ctx, int64(10), int64(100), 3).
			Return(&CartItem{ID: 1, ProductID: 100, Quantity: 5}, nil).Once()

		first, err := svc.AddItem(ctx, scope, 100, 2)
		require.NoError(t, err)
		second, err := svc.AddItem(ctx, scope, 100, 3)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 5, second.Quantity)
	})

	t.Run("Out of stock", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreate", ctx, scope).Return(cart, nil)
		repo.On("AddItem", ctx, int64(10), int64(100), 9).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(100)).Return(&ProductStock{Active: true, Stock: 3}, nil)

		_, err := svc.AddItem(ctx, scope, 100, 9)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("Inactive product", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreate", ctx, scope).Return(cart, nil)
		repo.On("AddItem", ctx, int64(10), int64(100), 1).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(100)).Return(&ProductStock{Active: false, Stock: 3}, nil)

		_, err := svc.AddItem(ctx, scope, 100, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Missing product", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreate", ctx, scope).Return(cart, nil)
		repo.On("AddItem", ctx, int64(10), int64(404), 1).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(404)).Return(nil, nil)

		_, err := svc.AddItem(ctx, scope, 404, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		repo := new(MockRepository)
		_, err := NewService(repo).AddItem(ctx, scope, 100, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		repo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	})

	t.Run("No scope", func(t *testing.T) {
		_, err := NewService(new(MockRepository)).AddItem(ctx, Scope{}, 100, 1)
		assert.ErrorIs(t, err, ErrNoScope)
	})

	t.Run("Storage error is translated", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetOrCreate", ctx, scope).Return(nil, errors.New("pq: connection refused"))

		_, err := svc.AddItem(ctx, scope, 100, 1)
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	scope := SessionScope("sess-1")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetItem", ctx, int64(1)).Return(&ItemOwner{SessionID: strPtr("sess-1")}, nil)
		repo.On("UpdateItemQuantity", ctx, int64(1), 3).Return(&CartItem{ID: 1, Quantity: 3}, nil)

		item, err := svc.UpdateItem(ctx, scope, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("Not Found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(nil, nil)

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 3)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("Other scope", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(&ItemOwner{UserID: uintPtr(7)}, nil)

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 3)
		assert.ErrorIs(t, err, ErrForeignCartItem)
		repo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	owned := &ItemOwner{Item: CartItem{ID: 1, ProductID: 4}, SessionID: strPtr("sess-1")}

	t.Run("Above stock", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(owned, nil)
		repo.On("UpdateItemQuantity", ctx, int64(1), 50).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(4)).Return(&ProductStock{Active: true, Stock: 10}, nil)

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 50)
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("Deactivated product", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(owned, nil)
		repo.On("UpdateItemQuantity", ctx, int64(1), 2).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(4)).Return(&ProductStock{Active: false, Stock: 10}, nil)

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 2)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("Deleted product", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(owned, nil)
		repo.On("UpdateItemQuantity", ctx, int64(1), 2).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(4)).Return(nil, nil)

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 2)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Item removed concurrently", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(owned, nil)
		repo.On("UpdateItemQuantity", ctx, int64(1), 2).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(4)).Return(&ProductStock{Active: true, Stock: 10}, nil)

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 2)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("Stock lookup failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(1)).Return(owned, nil)
		repo.On("UpdateItemQuantity", ctx, int64(1), 2).Return(nil, nil)
		repo.On("GetProductStock", ctx, int64(4)).Return(nil, errors.New("db down"))

		_, err := NewService(repo).UpdateItem(ctx, scope, 1, 2)
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("Zero quantity", func(t *testing.T) {
		_, err := NewService(new(MockRepository)).UpdateItem(ctx, scope, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	scope := UserScope(1)

	t.Run("Absent item is success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(5)).Return(nil, nil)

		assert.NoError(t, NewService(repo).RemoveItem(ctx, scope, 5))
		repo.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything)
	})

	t.Run("Own item", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(5)).Return(&ItemOwner{UserID: uintPtr(1)}, nil)
		repo.On("RemoveItem", ctx, int64(5)).Return(nil)

		assert.NoError(t, NewService(repo).RemoveItem(ctx, scope, 5))
		repo.AssertExpectations(t)
	})

	t.Run("Other scope", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetItem", ctx, int64(5)).Return(&ItemOwner{SessionID: strPtr("someone")}, nil)

		assert.ErrorIs(t, NewService(repo).RemoveItem(ctx, scope, 5), ErrForeignCartItem)
	})
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()
	scope := UserScope(1)

	t.Run("No cart yet", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindCart", ctx, scope).Return(nil, nil)

		assert.NoError(t, NewService(repo).Clear(ctx, scope))
		repo.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
	})

	t.Run("Clears items", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindCart", ctx, scope).Return(&Cart{ID: 10}, nil)
		repo.On("ClearCart", ctx, int64(10)).Return(nil)

		svc := NewService(repo)
		assert.NoError(t, svc.Clear(ctx, scope))
		assert.NoError(t, svc.Clear(ctx, scope))
	})
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()
	scope := UserScope(1)

	t.Run("Totals use live prices", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrCreate", ctx, scope).Return(&Cart{ID: 10}, nil)
		repo.On("ListItems", ctx, int64(10)).Return([]CartItem{
			{ID: 1, ProductID: 100, Quantity: 2, Product: &ItemProduct{BasePrice: price("100.00")}},
			{ID: 2, ProductID: 101, Quantity: 3, Product: &ItemProduct{BasePrice: price("0.99")}},
		}, nil)

		sum, err := NewService(repo).GetCart(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, 5, sum.Totals.ItemCount)
		assert.True(t, sum.Totals.Subtotal.Equal(price("202.97")), sum.Totals.Subtotal.String())
		assert.Len(t, sum.Cart.Items, 2)
	})

	t.Run("Empty cart", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrCreate", ctx, scope).Return(&Cart{ID: 10}, nil)
		repo.On("ListItems", ctx, int64(10)).Return([]CartItem{}, nil)

		sum, err := NewService(repo).GetCart(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, 0, sum.Totals.ItemCount)
		assert.True(t, sum.Totals.Subtotal.IsZero())
	})

	t.Run("Duplicate product rows are an invariant violation", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrCreate", ctx, scope).Return(&Cart{ID: 10}, nil)
		repo.On("ListItems", ctx, int64(10)).Return([]CartItem{
			{ID: 1, ProductID: 100, Quantity: 1},
			{ID: 2, ProductID: 100, Quantity: 1},
		}, nil)

		_, err := NewService(repo).GetCart(ctx, scope)
		assert.ErrorIs(t, err, ErrDuplicateCartItem)
		assert.Equal(t, apperr.KindInvariant, apperr.KindOf(err))
	})
}

func TestComputeTotals_Nil(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Equal(t, 0, totals.ItemCount)
	assert.True(t, totals.Subtotal.IsZero())
}
