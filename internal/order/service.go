package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/notify"
	"storefront-be/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const numberRetries = 3

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
	List(ctx context.Context, filter *Filter) ([]*Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (*Order, error)
	AddTracking(ctx context.Context, id uuid.UUID, input TrackingInput) (*Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*Order, error)
}

type service struct {
	repo           Repository
	engine         *Engine
	users          user.Repository
	sink           notify.Sink
	defaultCountry string
}

func NewService(repo Repository, engine *Engine, users user.Repository, sink notify.Sink, defaultCountry string) Service {
	return &service{
		repo:           repo,
		engine:         engine,
		users:          users,
		sink:           sink,
		defaultCountry: defaultCountry,
	}
}

// Create validates and persists a new order. The order number is regenerated
// on a unique-index collision, up to numberRetries attempts. The confirmation
// mail is dispatched after commit and never fails the creation.
func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx)

	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customerName", ErrMissingField)
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, fmt.Errorf("%w: customerEmail", ErrMissingField)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: items", ErrMissingField)
	}
	if input.Total == nil {
		return nil, fmt.Errorf("%w: total", ErrMissingField)
	}

	paymentStatus := PaymentPending
	if input.PaymentStatus != nil {
		if !ValidPaymentStatus(*input.PaymentStatus) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, *input.PaymentStatus)
		}
		paymentStatus = *input.PaymentStatus
	}

	shipping := input.ShippingAddress
	if shipping.Country == "" {
		shipping.Country = s.defaultCountry
	}

	o := &Order{
		ID:     uuid.New(),
		UserID: input.UserID,

		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,

		ShippingAddress: shipping,
		BillingAddress:  input.BillingAddress,

		Items: input.Items,

		Subtotal:     nonNegative(input.Subtotal),
		ShippingCost: nonNegative(input.ShippingCost),
		Tax:          nonNegative(input.Tax),
		Total:        nonNegative(input.Total),

		Status:        StatusPending,
		PaymentStatus: paymentStatus,

		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
	}

	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		o.OrderNumber = GenerateOrderNumber()
		err = s.repo.Insert(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			return nil, err
		}
		log.Warn("order number collision, regenerating",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt+1),
		)
	}
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, func(ctx context.Context) error {
		return s.sink.SendOrderConfirmation(ctx, confirmationFor(o))
	})

	return o, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	return s.withUser(ctx, o), nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil || o == nil {
		return o, err
	}
	return s.withUser(ctx, o), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) List(ctx context.Context, filter *Filter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error) {
	return s.mutate(ctx, id, func(o *Order) error {
		return s.engine.SetStatus(ctx, o, status)
	})
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (*Order, error) {
	return s.mutate(ctx, id, func(o *Order) error {
		return s.engine.SetPaymentStatus(ctx, o, status)
	})
}

// AddTracking records fulfillment metadata and dispatches the shipped mail.
func (s *service) AddTracking(ctx context.Context, id uuid.UUID, input TrackingInput) (*Order, error) {
	o, err := s.mutate(ctx, id, func(o *Order) error {
		return s.engine.AddTracking(ctx, o, input)
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, func(ctx context.Context) error {
		return s.sink.SendOrderShipped(ctx, shippedFor(o))
	})

	return o, nil
}

func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.mutate(ctx, id, func(o *Order) error {
		return s.engine.MarkDelivered(ctx, o)
	})
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.mutate(ctx, id, func(o *Order) error {
		return s.engine.Cancel(ctx, o)
	})
}

func (s *service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*Order, error) {
	return s.mutate(ctx, id, func(o *Order) error {
		return s.engine.SetAdminNotes(ctx, o, notes)
	})
}

// mutate loads the order and applies one lifecycle operation to it.
func (s *service) mutate(ctx context.Context, id uuid.UUID, op func(*Order) error) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if err := op(o); err != nil {
		return nil, err
	}
	return o, nil
}

// withUser resolves the owning user's public fields; a lookup failure only
// degrades the response, it never fails the read.
func (s *service) withUser(ctx context.Context, o *Order) *Order {
	if o.UserID == nil {
		return o
	}

	u, err := s.users.FindPublicByID(ctx, *o.UserID)
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to resolve order user",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
		return o
	}
	o.User = u
	return o
}

// dispatch runs a notification send detached from the request so a flaky mail
// transport never blocks order persistence. Failures are logged, never
// propagated.
func (s *service) dispatch(ctx context.Context, send func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := send(detached); err != nil {
			logger.FromCtx(detached).Error("notification send failed", zap.Error(err))
		}
	}()
}

func confirmationFor(o *Order) notify.OrderConfirmation {
	items := make([]notify.Item, len(o.Items))
	for i, it := range o.Items {
		items[i] = notify.Item{Name: it.ProductName, Quantity: it.Quantity, Price: it.Price}
	}
	return notify.OrderConfirmation{
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		OrderNumber:   o.OrderNumber,
		Total:         o.Total,
		Items:         items,
	}
}

func shippedFor(o *Order) notify.OrderShipped {
	m := notify.OrderShipped{
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		OrderNumber:   o.OrderNumber,
	}
	if o.TrackingNumber != nil {
		m.TrackingNumber = *o.TrackingNumber
	}
	if o.Carrier != nil {
		m.Carrier = *o.Carrier
	}
	m.EstimatedDeliveryDate = o.EstimatedDeliveryDate
	return m
}

func nonNegative(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
