package order

import "studentdeal-be/internal/apperr"

var (
	ErrGuestCheckout = apperr.New(apperr.KindUnauthorized, "guest_checkout", "sign in to place an order")

	ErrEmptyCart  = apperr.New(apperr.KindValidation, "empty_cart", "cart is empty")
	ErrOutOfStock = apperr.New(apperr.KindConflict, "out_of_stock", "not enough stock to place the order")

	ErrDuplicateOrderNumber = apperr.New(apperr.KindConflict, "duplicate_order_number", "order number already in use")

	ErrOrderNotFound = apperr.New(apperr.KindNotFound, "order_not_found", "order not found")
	ErrForbidden     = apperr.New(apperr.KindForbidden, "order_forbidden", "cannot access another user's order")

	ErrUnknownStatus           = apperr.New(apperr.KindValidation, "unknown_order_status", "unknown order status")
	ErrInvalidStatusTransition = apperr.New(apperr.KindConflict, "invalid_status_transition", "order status transition not allowed")

	ErrStorage = apperr.New(apperr.KindInternal, "order_storage_error", "failed to access orders")
)
