package discount

import "studentdeal-be/internal/apperr"

var (
	ErrEventDiscountNotFound = apperr.New(apperr.KindNotFound, "event_discount_not_found", "event discount not found")
	ErrInvalidEventDiscount  = apperr.New(apperr.KindValidation, "invalid_event_discount", "invalid event discount")
	ErrInvalidDateRange      = apperr.New(apperr.KindValidation, "invalid_date_range", "end date must be after start date")

	ErrStorage = apperr.New(apperr.KindInternal, "discount_storage_error", "failed to access event discounts")
)
