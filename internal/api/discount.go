package api

import (
	"studentdeal-be/internal/discount"
	"studentdeal-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *Handler) CreateEventDiscount(c *gin.Context) {
	var in discount.CreateInput
	if !bindJSON(c, &in) {
		return
	}

	e, err := h.DiscountSvc.Create(c.Request.Context(), in)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	created(c, e)
}

func (h *Handler) ListEventDiscounts(c *gin.Context) {
	p, limit := page(c)

	res, err := h.DiscountSvc.List(c.Request.Context(), p, limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, res)
}

func (h *Handler) SetEventDiscountActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.DiscountSvc.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, e)
}
