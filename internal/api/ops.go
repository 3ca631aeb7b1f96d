package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"studentdeal-be/internal/apperr"
	"studentdeal-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

var ErrInternalKey = apperr.New(apperr.KindForbidden, "internal_key_required", "internal key required")

// Health pings the database when one is configured.
func (h *Handler) Health(c *gin.Context) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Metrics(c *gin.Context) {
	if h.MetricsRegistry == nil {
		okJSON(c, []any{})
		return
	}
	okJSON(c, h.MetricsRegistry.Snapshot())
}

// RequireInternalKey guards operational endpoints. An empty key locks them.
func RequireInternalKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(middleware.InternalAuthHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			middleware.AbortWithError(c, ErrInternalKey)
			return
		}
		c.Next()
	}
}
