package notify

import (
	"context"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Item mirrors an order line for mail rendering.
type Item struct {
	Name     string
	Quantity int
	Price    float64
}

type OrderConfirmation struct {
	CustomerName  string
	CustomerEmail string
	OrderNumber   string
	Total         float64
	Items         []Item
}

type OrderShipped struct {
	CustomerName          string
	CustomerEmail         string
	OrderNumber           string
	TrackingNumber        string
	Carrier               string
	EstimatedDeliveryDate *time.Time
}

// ContactMessage notifies the store admin about a new contact-form entry.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Sink sends order milestone and contact mails. Sends are best-effort:
// callers detach them from the request and only log failures.
type Sink interface {
	SendOrderConfirmation(ctx context.Context, m OrderConfirmation) error
	SendOrderShipped(ctx context.Context, m OrderShipped) error
	SendContactMessage(ctx context.Context, m ContactMessage) error
}

// LogSink is the fallback when no SMTP transport is configured.
type LogSink struct{}

func (LogSink) SendOrderConfirmation(ctx context.Context, m OrderConfirmation) error {
	logger.FromCtx(ctx).Info("order confirmation (log sink)",
		zap.String("order_number", m.OrderNumber),
		zap.String("to", m.CustomerEmail),
	)
	return nil
}

func (LogSink) SendOrderShipped(ctx context.Context, m OrderShipped) error {
	logger.FromCtx(ctx).Info("order shipped (log sink)",
		zap.String("order_number", m.OrderNumber),
		zap.String("to", m.CustomerEmail),
		zap.String("tracking_number", m.TrackingNumber),
	)
	return nil
}

func (LogSink) SendContactMessage(ctx context.Context, m ContactMessage) error {
	logger.FromCtx(ctx).Info("contact message (log sink)",
		zap.String("from", m.Email),
		zap.String("subject", m.Subject),
	)
	return nil
}
