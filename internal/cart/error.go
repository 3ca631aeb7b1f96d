package cart

import "studentdeal-be/internal/apperr"

var (
	ErrNoScope = apperr.New(apperr.KindUnauthorized, "cart_scope_required", "a user token or cart session is required")

	ErrInvalidQuantity = apperr.New(apperr.KindValidation, "invalid_quantity", "quantity must be at least 1")

	ErrProductNotFound  = apperr.New(apperr.KindNotFound, "product_not_found", "product not found")
	ErrCartItemNotFound = apperr.New(apperr.KindNotFound, "cart_item_not_found", "cart item not found")
	ErrForeignCartItem  = apperr.New(apperr.KindForbidden, "cart_item_forbidden", "cart item belongs to another cart")
	ErrOutOfStock       = apperr.New(apperr.KindConflict, "out_of_stock", "not enough stock for the requested quantity")

	ErrDuplicateCartItem = apperr.New(apperr.KindInvariant, "duplicate_cart_item", "cart holds more than one row for a product")

	ErrStorage = apperr.New(apperr.KindInternal, "cart_storage_error", "failed to access cart")
)
