package api

import (
	"time"

	"studentdeal-be/internal/middleware"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	JWTSecret   string
	InternalKey string
	Limiter     *middleware.RateLimiter

	// Redis enables the shared checkout throttle when set.
	Redis              *rd.Client
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
}

// NewRouter registers every route on a fresh engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Authenticate(cfg.JWTSecret))
	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Middleware())
	}

	r.GET("/health", h.Health)
	r.GET("/internal/metrics", RequireInternalKey(cfg.InternalKey), h.Metrics)

	api := r.Group("/api")

	api.GET("/products/:id", h.GetProduct)

	api.POST("/cart/session", h.CreateSession)
	api.GET("/cart", h.GetCart)
	api.DELETE("/cart", h.ClearCart)
	api.POST("/cart/items", h.AddCartItem)
	api.PATCH("/cart/items/:id", h.UpdateCartItem)
	api.DELETE("/cart/items/:id", h.RemoveCartItem)

	checkout := []gin.HandlerFunc{middleware.RequireAuth()}
	if cfg.Redis != nil {
		checkout = append(checkout, middleware.RedisRateLimit(cfg.Redis, "checkout", cfg.CheckoutRateLimit, cfg.CheckoutRateWindow))
	}
	api.POST("/orders", append(checkout, h.PlaceOrder)...)

	user := api.Group("", middleware.RequireAuth())
	user.GET("/orders", h.ListMyOrders)
	user.GET("/orders/:id", h.GetOrder)
	user.POST("/verifications", h.SubmitVerification)
	user.GET("/verifications/me", h.GetMyVerification)

	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.GET("/orders", h.ListOrders)
	admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	admin.GET("/verifications", h.ListPendingVerifications)
	admin.POST("/verifications/:id/decision", h.DecideVerification)
	admin.POST("/products", h.CreateProduct)
	admin.PATCH("/products/:id", h.UpdateProduct)
	admin.POST("/event-discounts", h.CreateEventDiscount)
	admin.GET("/event-discounts", h.ListEventDiscounts)
	admin.PATCH("/event-discounts/:id/active", h.SetEventDiscountActive)

	return r
}
