package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/ports"
	"brew-and-board/pkg/config"
	"brew-and-board/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

type CheckoutRabbit struct {
	mu         sync.Mutex // guards Conn and Ch across reconnects
	Conn       *amqp.Connection
	Ch         *amqp.Channel
	DurationMs time.Duration
	url        string
	logger     *logger.Logger
}

var _ ports.EventPublisherInterface = (*CheckoutRabbit)(nil)

func NewCheckoutRabbit(cfg config.Config, log *logger.Logger) (*CheckoutRabbit, error) {
	r := &CheckoutRabbit{
		url:    fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port),
		logger: log,
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	// Watch for close signals
	go r.handleReconnect(5 * time.Second)
	return r, nil
}

func (r *CheckoutRabbit) connect() error {
	start := time.Now()
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := SetupCheckoutChannel(ch); err != nil {
		conn.Close()
		return err
	}

	r.mu.Lock()
	r.Conn = conn
	r.Ch = ch
	r.DurationMs = time.Since(start)
	r.mu.Unlock()

	return nil
}

func (r *CheckoutRabbit) channel() *amqp.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Ch
}

func (r *CheckoutRabbit) connection() *amqp.Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Conn
}

func SetupCheckoutChannel(ch *amqp.Channel) error {
	// --- Declare Exchanges ---
	if err := ch.ExchangeDeclare(
		"checkout_topic", // name
		"topic",          // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // args
	); err != nil {
		return err
	}

	return nil
}

func (r *CheckoutRabbit) handleReconnect(backoff time.Duration) {
	errs := make(chan *amqp.Error)
	r.connection().NotifyClose(errs)
	for e := range errs {
		r.logger.Warn("", "rabbitmq_disconnected", "RabbitMQ connection closed, reconnecting", map[string]interface{}{"reason": e.Error()})
		// Retry with backoff
		for {
			time.Sleep(backoff)
			if err := r.connect(); err != nil {
				r.logger.Warn("", "rabbitmq_reconnect_failed", "Reconnect attempt failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Restart notify channel
			errs = make(chan *amqp.Error)
			r.connection().NotifyClose(errs)
			r.logger.Info("", "rabbitmq_reconnected", "Reconnected to RabbitMQ", nil)
			break
		}
	}
}

func (r *CheckoutRabbit) PublishCheckoutIssued(ctx context.Context, msg domain.CheckoutIssuedMessage) error {
	return r.publish(ctx, "checkout.issued", msg)
}

func (r *CheckoutRabbit) PublishReconciliationAlert(ctx context.Context, msg domain.ReconciliationAlertMessage) error {
	return r.publish(ctx, "reconciliation.alert", msg)
}

func (r *CheckoutRabbit) publish(ctx context.Context, routingKey string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", routingKey, err)
	}

	// Publish to exchange
	err = r.channel().PublishWithContext(
		ctx,              // context
		"checkout_topic", // exchange
		routingKey,       // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // make message persistent
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s message: %w", routingKey, err)
	}

	return nil
}

func (r *CheckoutRabbit) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}
