package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"studentdeal-be/internal/auth"
	"studentdeal-be/internal/metrics"
	"studentdeal-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router       *gin.Engine
	carts        *MockCartService
	orders       *MockOrderService
	verification *MockVerificationService
	products     *MockProductService
	discounts    *MockDiscountService
	quotes       *MockQuoteService
	metrics      *metrics.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		carts:        new(MockCartService),
		orders:       new(MockOrderService),
		verification: new(MockVerificationService),
		products:     new(MockProductService),
		discounts:    new(MockDiscountService),
		quotes:       new(MockQuoteService),
		metrics:      metrics.NewRegistry(),
	}
	h.router = NewRouter(&Handler{
		CartSvc:         h.carts,
		OrderSvc:        h.orders,
		VerificationSvc: h.verification,
		ProductSvc:      h.products,
		DiscountSvc:     h.discounts,
		QuoteSvc:        h.quotes,
		MetricsRegistry: h.metrics,
	}, RouterConfig{
		JWTSecret:   testSecret,
		InternalKey: "ops-key",
		Limiter:     middleware.NewRateLimiter("ops-key"),
	})
	return h
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	session string
	header  map[string]string
}

func (h *harness) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(r.body))
	}
	req := httptest.NewRequest(r.method, r.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.session != "" {
		req.Header.Set(auth.SessionHeader, r.session)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, userID uint, role auth.Role) string {
	t.Helper()
	tok, err := auth.GenerateJWT(testSecret, userID, role, "", time.Hour)
	require.NoError(t, err)
	return tok
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error middleware.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Code
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Data
}
