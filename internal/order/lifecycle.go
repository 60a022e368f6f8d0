package order

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TransitionPolicy decides whether an order may move between two statuses.
// The store intentionally allows any transition (admins routinely jump or
// rewind statuses); a stricter graph can be plugged in without touching
// callers.
type TransitionPolicy func(from, to OrderStatus) bool

func AllowAnyTransition(from, to OrderStatus) bool { return true }

// Engine gates and applies every post-creation mutation to an order. Each
// operation is a single-row update; the row's atomicity is the only
// concurrency control. UpdatedAt always carries the timestamp the database
// stored, not a locally computed one.
type Engine struct {
	repo   Repository
	policy TransitionPolicy
	now    func() time.Time
}

type EngineOption func(*Engine)

func WithTransitionPolicy(p TransitionPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(repo Repository, opts ...EngineOption) *Engine {
	e := &Engine{
		repo:   repo,
		policy: AllowAnyTransition,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) SetStatus(ctx context.Context, o *Order, status OrderStatus) error {
	if !ValidOrderStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !e.policy(o.Status, status) {
		return fmt.Errorf("%w: transition %s -> %s not allowed", ErrInvalidStatus, o.Status, status)
	}

	updatedAt, err := e.repo.UpdateStatus(ctx, o.ID, status)
	if err != nil {
		return err
	}

	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (e *Engine) SetPaymentStatus(ctx context.Context, o *Order, status PaymentStatus) error {
	if !ValidPaymentStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}

	updatedAt, err := e.repo.UpdatePaymentStatus(ctx, o.ID, status)
	if err != nil {
		return err
	}

	o.PaymentStatus = status
	o.UpdatedAt = updatedAt
	return nil
}

func (e *Engine) AddTracking(ctx context.Context, o *Order, input TrackingInput) error {
	if strings.TrimSpace(input.TrackingNumber) == "" {
		return fmt.Errorf("%w: trackingNumber", ErrMissingField)
	}
	if strings.TrimSpace(input.Carrier) == "" {
		return fmt.Errorf("%w: carrier", ErrMissingField)
	}

	var eta *time.Time
	if input.EstimatedDeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", input.EstimatedDeliveryDate)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, input.EstimatedDeliveryDate)
		}
		eta = &parsed
	}

	updatedAt, err := e.repo.UpdateTracking(ctx, o.ID, input.TrackingNumber, input.Carrier, eta)
	if err != nil {
		return err
	}

	o.TrackingNumber = &input.TrackingNumber
	o.Carrier = &input.Carrier
	o.EstimatedDeliveryDate = eta
	o.UpdatedAt = updatedAt
	return nil
}

// MarkDelivered stamps delivered_at with the current time. Re-invocation
// overwrites the timestamp; there is no guard against double delivery.
func (e *Engine) MarkDelivered(ctx context.Context, o *Order) error {
	deliveredAt := e.now()

	updatedAt, err := e.repo.MarkDelivered(ctx, o.ID, deliveredAt)
	if err != nil {
		return err
	}

	o.Status = StatusDelivered
	o.DeliveredAt = &deliveredAt
	o.UpdatedAt = updatedAt
	return nil
}

// Cancel sets the order CANCELLED and forces the payment status to REFUNDED
// regardless of its prior value, matching the storefront's behavior.
func (e *Engine) Cancel(ctx context.Context, o *Order) error {
	updatedAt, err := e.repo.Cancel(ctx, o.ID)
	if err != nil {
		return err
	}

	o.Status = StatusCancelled
	o.PaymentStatus = PaymentRefunded
	o.UpdatedAt = updatedAt
	return nil
}

func (e *Engine) SetAdminNotes(ctx context.Context, o *Order, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return fmt.Errorf("%w: notes", ErrMissingField)
	}

	updatedAt, err := e.repo.UpdateNotes(ctx, o.ID, notes)
	if err != nil {
		return err
	}

	o.AdminNotes = &notes
	o.UpdatedAt = updatedAt
	return nil
}
