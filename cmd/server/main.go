package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studentdeal-be/internal/api"
	"studentdeal-be/internal/cart"
	"studentdeal-be/internal/config"
	"studentdeal-be/internal/db"
	"studentdeal-be/internal/discount"
	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/metrics"
	"studentdeal-be/internal/middleware"
	"studentdeal-be/internal/order"
	"studentdeal-be/internal/product"
	"studentdeal-be/internal/quote"
	"studentdeal-be/internal/verification"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 3 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

// overridable in tests
var (
	initDBFunc    = db.InitDB
	initRedisFunc = newRedis
	serveFunc     = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database := initDBFunc(cfg)
	defer database.Close()

	rdb := initRedisFunc(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.InternalAuthKey)
	go limiter.Cleanup(ctx, limiterCleanupInterval, limiterMaxIdle)

	router := newServer(cfg, database, rdb, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.L().Info("http server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
	return serveFunc(ctx, srv)
}

// newServer wires repositories, services and routes.
func newServer(cfg *config.Config, database *sql.DB, rdb *rd.Client, limiter *middleware.RateLimiter) *gin.Engine {
	reg := metrics.NewRegistry()

	productSvc := product.NewService(product.NewRepository(database))
	discountSvc := discount.NewService(discount.NewRepository(database))

	var cache verification.EligibilityCache
	if rdb != nil {
		cache = verification.NewRedisCache(rdb, cfg.EligibilityCacheTTL)
	}
	verificationSvc := verification.NewService(verification.NewRepository(database), cache)

	h := &api.Handler{
		DB:              database,
		CartSvc:         cart.NewService(cart.NewRepository(database)),
		OrderSvc:        order.NewService(order.NewRepository(database), reg),
		VerificationSvc: verificationSvc,
		ProductSvc:      productSvc,
		DiscountSvc:     discountSvc,
		QuoteSvc:        quote.NewService(productSvc, discountSvc, verificationSvc),
		MetricsRegistry: reg,
		SecureCookies:   cfg.IsProduction(),
	}

	return api.NewRouter(h, api.RouterConfig{
		JWTSecret:          cfg.JWTSecret,
		InternalKey:        cfg.InternalAuthKey,
		Limiter:            limiter,
		Redis:              rdb,
		CheckoutRateLimit:  cfg.CheckoutRateLimit,
		CheckoutRateWindow: cfg.CheckoutRateWindow,
	})
}

// newRedis returns nil when Redis is not configured or unreachable; the
// server then runs without the eligibility cache and shared throttle.
func newRedis(cfg *config.Config) *rd.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.L().Warn("redis unavailable, continuing without it", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}

	logger.L().Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return rdb
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
