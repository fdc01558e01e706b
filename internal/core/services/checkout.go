package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/ports"
	"brew-and-board/pkg/logger"
)

const (
	checkoutTokenBytes = 32 // 256 bits of entropy
	checkoutTTL        = 30 * time.Minute
)

// CheckoutIssuer mints single-use, expiring checkout credentials bound to a
// pricing the engine has validated with zero errors. Credentials live only
// in process memory; a restart loses them, which is the same accepted
// tradeoff the rate limiter makes.
type CheckoutIssuer struct {
	engine    ports.PricingServiceInterface
	publisher ports.EventPublisherInterface // may be nil
	logger    *logger.Logger

	mu          sync.Mutex
	credentials map[string]*domain.CheckoutCredential

	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

var _ ports.CheckoutServiceInterface = (*CheckoutIssuer)(nil)

func NewCheckoutIssuer(engine ports.PricingServiceInterface, publisher ports.EventPublisherInterface, log *logger.Logger) *CheckoutIssuer {
	ci := &CheckoutIssuer{
		engine:      engine,
		publisher:   publisher,
		logger:      log,
		credentials: make(map[string]*domain.CheckoutCredential),
		now:         time.Now,
		done:        make(chan struct{}),
	}
	go ci.sweepLoop()
	return ci
}

// CreateCheckout prices the cart and, only if the error list is empty,
// mints a credential. Any validation error returns *ValidationFailedError
// with no side effect at all.
func (ci *CheckoutIssuer) CreateCheckout(ctx context.Context, vendorID int, items []domain.OrderItemRequest, distanceMiles, gratuityPercent float64) (*domain.CheckoutCredential, error) {
	pricing, err := ci.engine.ValidateAndPrice(ctx, vendorID, items, distanceMiles, gratuityPercent)
	if err != nil {
		return nil, err
	}
	if len(pricing.Errors) > 0 {
		return nil, &domain.ValidationFailedError{Errors: pricing.Errors}
	}

	token, err := newCheckoutToken()
	if err != nil {
		return nil, err
	}
	cred := &domain.CheckoutCredential{
		Token:     token,
		Pricing:   pricing,
		ExpiresAt: ci.now().Add(checkoutTTL),
	}

	ci.mu.Lock()
	ci.credentials[token] = cred
	ci.mu.Unlock()

	ci.logger.Info("", "checkout_issued", "Checkout credential issued", map[string]interface{}{
		"vendor_id": vendorID, "total": pricing.Total.StringFixed(2),
	})

	if ci.publisher != nil {
		msg := domain.CheckoutIssuedMessage{
			TokenPrefix: token[:8],
			VendorID:    vendorID,
			Total:       pricing.Total,
			ExpiresAt:   cred.ExpiresAt,
		}
		if err := ci.publisher.PublishCheckoutIssued(ctx, msg); err != nil {
			// Event delivery is best-effort; the credential stands.
			ci.logger.Warn("", "event_publish_failed", "Could not publish checkout.issued", map[string]interface{}{"error": err.Error()})
		}
	}

	return cred, nil
}

// Consume hands the credential to the payment collaborator exactly once.
func (ci *CheckoutIssuer) Consume(token string) (*domain.CheckoutCredential, error) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	cred, ok := ci.credentials[token]
	if !ok {
		return nil, domain.ErrCredentialUnknown
	}
	delete(ci.credentials, token)
	if ci.now().After(cred.ExpiresAt) {
		return nil, domain.ErrCredentialExpired
	}
	return cred, nil
}

// Invalidate revokes a credential regardless of its state.
func (ci *CheckoutIssuer) Invalidate(token string) {
	ci.mu.Lock()
	delete(ci.credentials, token)
	ci.mu.Unlock()
}

// Close stops the expiry sweeper.
func (ci *CheckoutIssuer) Close() {
	ci.closeOnce.Do(func() { close(ci.done) })
}

func (ci *CheckoutIssuer) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ci.sweep()
		case <-ci.done:
			return
		}
	}
}

func (ci *CheckoutIssuer) sweep() {
	now := ci.now()
	ci.mu.Lock()
	defer ci.mu.Unlock()
	for token, cred := range ci.credentials {
		if now.After(cred.ExpiresAt) {
			delete(ci.credentials, token)
		}
	}
}

func newCheckoutToken() (string, error) {
	buf := make([]byte, checkoutTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate checkout token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
