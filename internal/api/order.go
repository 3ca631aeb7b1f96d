package api

import (
	"studentdeal-be/internal/middleware"
	"studentdeal-be/internal/order"

	"github.com/gin-gonic/gin"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	o, err := h.OrderSvc.PlaceOrder(c.Request.Context(), middleware.Caller(c).UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	created(c, o)
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	p, limit := page(c)

	res, err := h.OrderSvc.ListMyOrders(c.Request.Context(), middleware.Caller(c).UserID, p, limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, res)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.OrderSvc.GetOrder(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, o)
}

// ListOrders is the admin view; ?status= filters by lifecycle state.
func (h *Handler) ListOrders(c *gin.Context) {
	var status *order.Status
	if raw := c.Query("status"); raw != "" {
		st, err := order.ParseStatus(raw)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		status = &st
	}

	p, limit := page(c)
	res, err := h.OrderSvc.ListOrders(c.Request.Context(), status, p, limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, res)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	o, err := h.OrderSvc.UpdateStatus(c.Request.Context(), id, next)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, o)
}
