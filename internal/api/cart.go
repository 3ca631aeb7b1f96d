package api

import (
	"net/http"

	"studentdeal-be/internal/auth"
	"studentdeal-be/internal/cart"
	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// scope resolves the cart owner of the caller, aborting with 401 when the
// request carries neither a user nor a guest session.
func scope(c *gin.Context) (cart.Scope, bool) {
	s, err := cart.ScopeFor(middleware.Caller(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return cart.Scope{}, false
	}
	return s, true
}

// CreateSession issues a fresh guest cart session id.
func (h *Handler) CreateSession(c *gin.Context) {
	sessionID := uuid.NewString()

	if _, err := h.CartSvc.GetOrCreate(c.Request.Context(), cart.SessionScope(sessionID)); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	created(c, gin.H{"session_id": sessionID})
}

func (h *Handler) GetCart(c *gin.Context) {
	s, ok := scope(c)
	if !ok {
		return
	}

	summary, err := h.CartSvc.GetCart(c.Request.Context(), s)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, summary)
}

func (h *Handler) AddCartItem(c *gin.Context) {
	s, ok := scope(c)
	if !ok {
		return
	}

	var req addItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.CartSvc.AddItem(c.Request.Context(), s, req.ProductID, req.Quantity)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.FromCtx(c.Request.Context()).Info("cart item added",
		zap.String("scope", s.String()),
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", item.Quantity),
	)
	created(c, item)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	s, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.CartSvc.UpdateItem(c.Request.Context(), s, id, req.Quantity)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, item)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	s, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.CartSvc.RemoveItem(c.Request.Context(), s, id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, gin.H{"removed": id})
}

func (h *Handler) ClearCart(c *gin.Context) {
	s, ok := scope(c)
	if !ok {
		return
	}

	if err := h.CartSvc.Clear(c.Request.Context(), s); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, gin.H{"cleared": true})
}
