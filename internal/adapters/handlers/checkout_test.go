package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/services"
	"brew-and-board/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	decision domain.RateLimitDecision
}

func (s *stubLimiter) Check(key, profile string) domain.RateLimitDecision { return s.decision }
func (s *stubLimiter) Close()                                             {}

type stubPricing struct {
	pricing domain.OrderPricing
	err     error
}

func (s *stubPricing) ValidateAndPrice(_ context.Context, _ int, _ []domain.OrderItemRequest, _, _ float64) (domain.OrderPricing, error) {
	return s.pricing, s.err
}

type stubCheckout struct {
	cred *domain.CheckoutCredential
	err  error
}

func (s *stubCheckout) CreateCheckout(_ context.Context, _ int, _ []domain.OrderItemRequest, _, _ float64) (*domain.CheckoutCredential, error) {
	return s.cred, s.err
}
func (s *stubCheckout) Consume(token string) (*domain.CheckoutCredential, error) {
	return nil, domain.ErrCredentialUnknown
}
func (s *stubCheckout) Invalidate(token string) {}

func allowAll() *stubLimiter {
	return &stubLimiter{decision: domain.RateLimitDecision{Allowed: true, Remaining: 99}}
}

func newHandler(pricing *stubPricing, checkout *stubCheckout, limiter *stubLimiter) *CheckoutHandler {
	return NewCheckoutHandler(pricing, checkout, nil, limiter, logger.NewLogger("test"))
}

func TestWithRateLimitDenies(t *testing.T) {
	h := newHandler(&stubPricing{}, &stubCheckout{}, &stubLimiter{
		decision: domain.RateLimitDecision{Allowed: false, RetryAfter: 30 * time.Minute},
	})

	called := false
	wrapped := h.WithRateLimit(services.ProfileAuth, func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	wrapped(rec, req)

	assert.False(t, called, "denied requests never reach the handler")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1800", rec.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1800), body["retry_after_seconds"])
}

func TestWithRateLimitAllows(t *testing.T) {
	h := newHandler(&stubPricing{}, &stubCheckout{}, allowAll())

	called := false
	wrapped := h.WithRateLimit(services.ProfileAPI, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	wrapped(rec, httptest.NewRequest(http.MethodGet, "/orders/price", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostCheckoutValidationFailure(t *testing.T) {
	h := newHandler(&stubPricing{}, &stubCheckout{
		err: &domain.ValidationFailedError{Errors: []string{
			`item "Phantom Pastry" not found`,
			"minimum order of $20.00 not met (current: $16.00)",
		}},
	}, allowAll())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"vendor_id":1,"items":[]}`))
	h.PostCheckout(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Errors, 2, "all validation problems surface at once")
}

func TestPostCheckoutSuccess(t *testing.T) {
	expires := time.Now().Add(30 * time.Minute).UTC()
	h := newHandler(&stubPricing{}, &stubCheckout{
		cred: &domain.CheckoutCredential{
			Token:     "tok_abc123",
			Pricing:   domain.OrderPricing{Total: decimal.NewFromFloat(86.38)},
			ExpiresAt: expires,
		},
	}, allowAll())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout",
		strings.NewReader(`{"vendor_id":1,"items":[{"menu_item_id":11,"name":"Charcuterie Board","quantity":2}],"gratuity_percent":18}`))
	h.PostCheckout(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tok_abc123", body["token"])
	assert.Equal(t, "86.38", body["total"])
}

func TestPostCheckoutBadJSON(t *testing.T) {
	h := newHandler(&stubPricing{}, &stubCheckout{}, allowAll())

	rec := httptest.NewRecorder()
	h.PostCheckout(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostPriceReturnsErrorsAsData(t *testing.T) {
	h := newHandler(&stubPricing{
		pricing: domain.OrderPricing{
			Subtotal: decimal.NewFromFloat(16.00),
			Errors:   []string{"minimum order of $20.00 not met (current: $16.00)"},
		},
	}, &stubCheckout{}, allowAll())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/price", strings.NewReader(`{"vendor_id":1,"items":[]}`))
	h.PostPrice(rec, req)

	// Pricing problems are data for the caller, not an HTTP failure.
	assert.Equal(t, http.StatusOK, rec.Code)

	var body domain.OrderPricing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Errors, 1)
}

func TestPostGratuitySplit(t *testing.T) {
	h := newHandler(&stubPricing{}, &stubCheckout{}, allowAll())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/gratuity/split", strings.NewReader(`{"amount":1200}`))
	h.PostGratuitySplit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var split domain.GratuitySplit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &split))
	assert.Equal(t, int64(500), split.DriverTip)
	assert.Equal(t, int64(700), split.InternalTip)
}
