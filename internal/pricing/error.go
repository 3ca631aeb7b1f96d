package pricing

import "studentdeal-be/internal/apperr"

var ErrInvalidDiscountRange = apperr.New(apperr.KindValidation, "invalid_discount_range", "discount percentage must be between 0 and 100")
