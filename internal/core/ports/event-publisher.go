package ports

import (
	"context"

	"brew-and-board/internal/core/domain"
)

type EventPublisherInterface interface {
	PublishCheckoutIssued(ctx context.Context, msg domain.CheckoutIssuedMessage) error
	PublishReconciliationAlert(ctx context.Context, msg domain.ReconciliationAlertMessage) error
}
