package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/ports"
	"brew-and-board/internal/core/services"
	"brew-and-board/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutHandler struct {
	pricing  ports.PricingServiceInterface
	checkout ports.CheckoutServiceInterface
	recon    *services.ReconciliationChecker
	limiter  ports.RateLimiterInterface
	logger   *logger.Logger
}

func NewCheckoutHandler(pricing ports.PricingServiceInterface, checkout ports.CheckoutServiceInterface, recon *services.ReconciliationChecker, limiter ports.RateLimiterInterface, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{pricing: pricing, checkout: checkout, recon: recon, limiter: limiter, logger: log}
}

type itemRequest struct {
	MenuItemID *int     `json:"menu_item_id"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	Price      *float64 `json:"price"`
	Notes      string   `json:"notes"`
}

type priceRequest struct {
	VendorID        int           `json:"vendor_id"`
	Items           []itemRequest `json:"items"`
	DistanceMiles   float64       `json:"distance_miles"`
	GratuityPercent float64       `json:"gratuity_percent"`
}

func (pr priceRequest) domainItems() []domain.OrderItemRequest {
	items := make([]domain.OrderItemRequest, 0, len(pr.Items))
	for _, it := range pr.Items {
		item := domain.OrderItemRequest{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
		}
		if it.Price != nil {
			p := decimal.NewFromFloat(*it.Price)
			item.Price = &p
		}
		items = append(items, item)
	}
	return items
}

// POST /orders/price
func (h *CheckoutHandler) PostPrice(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := r.Context()
	h.logger.Info(requestID, "request_received", "Pricing request received", map[string]interface{}{"endpoint": r.URL.Path})

	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Cannot decode the pricing request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	pricing, err := h.pricing.ValidateAndPrice(ctx, req.VendorID, req.domainItems(), req.DistanceMiles, req.GratuityPercent)
	if err != nil {
		h.logger.Error(requestID, "pricing_failed", "Catalog lookup failed", err, map[string]interface{}{"vendor_id": req.VendorID})
		http.Error(w, "could not price the order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Errors inside the pricing are data for the caller, not a failure.
	services.WriteJSON(w, pricing, http.StatusOK)
}

// POST /checkout
func (h *CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := r.Context()
	h.logger.Info(requestID, "request_received", "Checkout request received", map[string]interface{}{"endpoint": r.URL.Path})

	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Cannot decode the checkout request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	cred, err := h.checkout.CreateCheckout(ctx, req.VendorID, req.domainItems(), req.DistanceMiles, req.GratuityPercent)
	var validationErr *domain.ValidationFailedError
	if errors.As(err, &validationErr) {
		services.WriteJSON(w, map[string]interface{}{"errors": validationErr.Errors}, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error(requestID, "checkout_failed", "Could not create checkout", err, map[string]interface{}{"vendor_id": req.VendorID})
		http.Error(w, "could not create checkout: "+err.Error(), http.StatusInternalServerError)
		return
	}

	services.WriteJSON(w, map[string]interface{}{
		"token":      cred.Token,
		"expires_at": cred.ExpiresAt,
		"total":      cred.Pricing.Total,
	}, http.StatusCreated)
}

// DELETE /checkout/{token}
func (h *CheckoutHandler) DeleteCheckout(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	h.checkout.Invalidate(token)
	w.WriteHeader(http.StatusNoContent)
}

// GET /orders/{order_id}/reconcile
func (h *CheckoutHandler) GetReconcile(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := r.Context()

	orderID, err := strconv.Atoi(r.PathValue("order_id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	result, err := h.recon.Reconcile(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		http.Error(w, "order was not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error(requestID, "reconcile_failed", "Reconciliation query failed", err, map[string]interface{}{"order_id": orderID})
		http.Error(w, "could not reconcile the order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	services.WriteJSON(w, result, http.StatusOK)
}

// POST /gratuity/split
func (h *CheckoutHandler) PostGratuitySplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Cannot decode the gratuity request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	services.WriteJSON(w, services.SplitGratuity(req.Amount), http.StatusOK)
}

func (h *CheckoutHandler) Stop(ctx context.Context, server *http.Server, cleanup func()) {
	<-ctx.Done()
	if cleanup != nil {
		cleanup()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %+v", err)
	}
	log.Println("shutting down gracefully...")
}
