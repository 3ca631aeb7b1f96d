package api

import (
	"studentdeal-be/internal/middleware"
	"studentdeal-be/internal/product"

	"github.com/gin-gonic/gin"
)

// GetProduct returns the product priced for the caller.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	q, err := h.QuoteSvc.ProductQuote(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, q)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in product.CreateInput
	if !bindJSON(c, &in) {
		return
	}

	p, err := h.ProductSvc.CreateProduct(c.Request.Context(), in)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	created(c, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in product.UpdateInput
	if !bindJSON(c, &in) {
		return
	}

	p, err := h.ProductSvc.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, p)
}
