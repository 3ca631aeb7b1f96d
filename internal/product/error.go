package product

import "studentdeal-be/internal/apperr"

var (
	ErrProductNotFound = apperr.New(apperr.KindNotFound, "product_not_found", "product not found")
	ErrInvalidProduct  = apperr.New(apperr.KindValidation, "invalid_product", "invalid product input")
	ErrEmptyUpdate     = apperr.New(apperr.KindValidation, "empty_update", "no fields to update")

	ErrStorage = apperr.New(apperr.KindInternal, "product_storage_error", "failed to access products")
)
