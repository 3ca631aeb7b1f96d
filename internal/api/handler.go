// Package api is the gin HTTP surface over the commerce services.
package api

import (
	"database/sql"
	"net/http"

	"studentdeal-be/internal/apperr"
	"studentdeal-be/internal/cart"
	"studentdeal-be/internal/discount"
	"studentdeal-be/internal/metrics"
	"studentdeal-be/internal/middleware"
	"studentdeal-be/internal/order"
	"studentdeal-be/internal/product"
	"studentdeal-be/internal/quote"
	"studentdeal-be/internal/utils"
	"studentdeal-be/internal/verification"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidBody = apperr.New(apperr.KindValidation, "invalid_body", "request body is invalid")
	ErrInvalidID   = apperr.New(apperr.KindValidation, "invalid_id", "path id must be a positive integer")
)

type Handler struct {
	DB              *sql.DB
	CartSvc         cart.Service
	OrderSvc        order.Service
	VerificationSvc verification.Service
	ProductSvc      product.Service
	DiscountSvc     discount.Service
	QuoteSvc        quote.Service
	MetricsRegistry *metrics.Registry

	// SecureCookies marks the guest session cookie Secure.
	SecureCookies bool
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ToInt64(c.Param(name))
	if err != nil {
		middleware.AbortWithError(c, ErrInvalidID)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.AbortWithError(c, ErrInvalidBody.WithMessage("request body is invalid: "+err.Error()))
		return false
	}
	return true
}

func page(c *gin.Context) (int, int) {
	return utils.ParsePage(c.Query("page"), c.Query("limit"))
}

func okJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}
