package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBSSLMode       string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxIdle   time.Duration
	JWTSecret       string
	InternalAuthKey string

	// Empty RedisAddr disables the eligibility cache.
	RedisAddr           string
	RedisDB             int
	EligibilityCacheTTL time.Duration

	// Distributed checkout throttle, applied only when Redis is configured.
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		InternalAuthKey: os.Getenv("INTERNAL_SECRET_KEY"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}
	idleSec, err := getEnvInt("DB_CONN_MAX_IDLE_SEC", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_IDLE_SEC: %w", err)
	}
	cfg.DBConnMaxIdle = time.Duration(idleSec) * time.Second

	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	ttlSec, err := getEnvInt("ELIGIBILITY_CACHE_TTL_SEC", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid ELIGIBILITY_CACHE_TTL_SEC: %w", err)
	}
	if ttlSec <= 0 {
		return nil, fmt.Errorf("ELIGIBILITY_CACHE_TTL_SEC must be > 0")
	}
	cfg.EligibilityCacheTTL = time.Duration(ttlSec) * time.Second

	if cfg.CheckoutRateLimit, err = getEnvInt("CHECKOUT_RATE_LIMIT", 5); err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	windowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if cfg.CheckoutRateLimit <= 0 || windowSec <= 0 {
		return nil, fmt.Errorf("CHECKOUT_RATE_LIMIT and CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(windowSec) * time.Second

	if cfg.DBHost == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("DB_HOST and DB_NAME must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
