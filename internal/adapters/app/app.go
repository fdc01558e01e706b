package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"brew-and-board/internal/adapters/db/repository"
	"brew-and-board/internal/adapters/handlers"
	"brew-and-board/internal/adapters/rabbitmq"
	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/services"
	"brew-and-board/pkg/config"
	"brew-and-board/pkg/logger"

	"github.com/shopspring/decimal"
)

func pricingConfig(cfg *config.Config) services.PricingConfig {
	return services.PricingConfig{
		TaxRate:               decimal.NewFromFloat(cfg.Pricing.TaxRate),
		ServiceFeeRate:        decimal.NewFromFloat(cfg.Pricing.ServiceFeeRate),
		FreeDeliveryThreshold: decimal.NewFromFloat(cfg.Pricing.FreeDeliveryThreshold),
		DeliveryBaseFee:       decimal.NewFromFloat(cfg.Pricing.DeliveryBaseFee),
		DeliveryPerMileFee:    decimal.NewFromFloat(cfg.Pricing.DeliveryPerMileFee),
		DeliveryFeeCap:        decimal.NewFromFloat(cfg.Pricing.DeliveryFeeCap),
		DefaultDistanceMiles:  cfg.Pricing.DefaultDistanceMiles,
	}
}

func rateLimitProfiles(cfg *config.Config) map[string]services.RateLimitProfile {
	return map[string]services.RateLimitProfile{
		services.ProfileAuth: {
			Window:      time.Duration(cfg.RateLimit.AuthWindowSec) * time.Second,
			MaxAttempts: cfg.RateLimit.AuthMax,
			Block:       time.Duration(cfg.RateLimit.AuthBlockSec) * time.Second,
		},
		services.ProfileAPI: {
			Window:      time.Duration(cfg.RateLimit.APIWindowSec) * time.Second,
			MaxAttempts: cfg.RateLimit.APIMax,
			Block:       time.Duration(cfg.RateLimit.APIBlockSec) * time.Second,
		},
	}
}

func Checkout(ctx context.Context, logger *logger.Logger, repo *repository.Repository, cfg *config.Config, flags services.Flags, stop context.CancelFunc) {
	// Initializing rabbitmq for checkout events
	checkoutRabbit, err := rabbitmq.NewCheckoutRabbit(*cfg, logger)
	if err != nil {
		fmt.Printf("cannot connect to rabbitmq: %v\n", err)
		os.Exit(1)
	}
	logger.Info("", "rabbitmq_connected", "Connected to RabbitMQ exchange checkout_topic", map[string]interface{}{"duration_ms": checkoutRabbit.DurationMs})

	// Initializing the core services
	limiter := services.NewRateLimiter(rateLimitProfiles(cfg), logger)
	engine := services.NewPricingEngine(repo, pricingConfig(cfg))
	issuer := services.NewCheckoutIssuer(engine, checkoutRabbit, logger)
	recon := services.NewReconciliationChecker(engine, repo, logger)

	handler := handlers.NewCheckoutHandler(engine, issuer, recon, limiter, logger)

	// Initializing Mux
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders/price", handler.WithRateLimit(services.ProfileAPI, handler.PostPrice))
	mux.HandleFunc("POST /checkout", handler.WithRateLimit(services.ProfileAPI, handler.PostCheckout))
	mux.HandleFunc("DELETE /checkout/{token}", handler.WithRateLimit(services.ProfileAPI, handler.DeleteCheckout))
	mux.HandleFunc("GET /orders/{order_id}/reconcile", handler.WithRateLimit(services.ProfileAPI, handler.GetReconcile))
	mux.HandleFunc("POST /gratuity/split", handler.WithRateLimit(services.ProfileAPI, handler.PostGratuitySplit))

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", flags.Checkout.Port),
		Handler: mux,
	}
	// Starting server
	go func() {
		logger.Info("", "service_started", "Checkout service started on port"+server.Addr, map[string]interface{}{"details": map[string]interface{}{"port": flags.Checkout.Port}})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stop()
			fmt.Printf("cannot start server: %v\n", err)
			os.Exit(1)
		}
	}()

	handler.Stop(ctx, &server, func() {
		limiter.Close()
		issuer.Close()
		checkoutRabbit.Close()
		repo.Close()
	})
}

func ReconcileAudit(ctx context.Context, logger *logger.Logger, repo *repository.Repository, cfg *config.Config, flags services.Flags) {
	// Initializing rabbitmq for mismatch alerts
	checkoutRabbit, err := rabbitmq.NewCheckoutRabbit(*cfg, logger)
	if err != nil {
		fmt.Printf("cannot connect to rabbitmq: %v\n", err)
		os.Exit(1)
	}
	defer checkoutRabbit.Close()
	logger.Info("", "rabbitmq_connected", "Connected to RabbitMQ exchange checkout_topic", map[string]interface{}{"duration_ms": checkoutRabbit.DurationMs})

	engine := services.NewPricingEngine(repo, pricingConfig(cfg))
	recon := services.NewReconciliationChecker(engine, repo, logger)

	ids := []int{flags.Audit.OrderID}
	if flags.Audit.OrderID == 0 {
		ids, err = repo.ListRecentOrderIDs(ctx, flags.Audit.Limit)
		if err != nil {
			logger.Error("", "audit_failed", "Could not list recent orders", err, nil)
			os.Exit(1)
		}
	}

	mismatches := 0
	for _, id := range ids {
		result, err := recon.Reconcile(ctx, id)
		if err != nil {
			logger.Error("", "audit_order_failed", "Could not reconcile order", err, map[string]interface{}{"order_id": id})
			continue
		}
		if !result.Valid {
			mismatches++
			alert := domainAlert(result)
			if err := checkoutRabbit.PublishReconciliationAlert(ctx, alert); err != nil {
				logger.Warn("", "event_publish_failed", "Could not publish reconciliation.alert", map[string]interface{}{"order_id": id, "error": err.Error()})
			}
		}
	}

	logger.Info("", "audit_completed", "Reconciliation audit finished", map[string]interface{}{
		"orders_checked": len(ids), "mismatches": mismatches,
	})
}

func domainAlert(result domain.ReconciliationResult) domain.ReconciliationAlertMessage {
	return domain.ReconciliationAlertMessage{
		OrderID:         result.OrderID,
		StoredTotal:     result.StoredTotal,
		CalculatedTotal: result.CalculatedTotal,
		Difference:      result.Difference,
		CheckedAt:       time.Now().UTC(),
	}
}
