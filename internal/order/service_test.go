package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront-be/internal/notify"
	"storefront-be/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter *Filter) ([]*Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (time.Time, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (time.Time, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRepository) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber, carrier string, eta *time.Time) (time.Time, error) {
	args := m.Called(ctx, id, trackingNumber, carrier, eta)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRepository) MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) (time.Time, error) {
	args := m.Called(ctx, id, deliveredAt)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, id uuid.UUID) (time.Time, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (time.Time, error) {
	args := m.Called(ctx, id, notes)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, name, email, password string, role user.Role) (user.User, error) {
	args := m.Called(ctx, name, email, password, role)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) FindPublicByID(ctx context.Context, id uuid.UUID) (*user.PublicUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.PublicUser), args.Error(1)
}

type MockSink struct {
	mock.Mock
	confirmed chan notify.OrderConfirmation
	shipped   chan notify.OrderShipped
}

func NewMockSink() *MockSink {
	return &MockSink{
		confirmed: make(chan notify.OrderConfirmation, 1),
		shipped:   make(chan notify.OrderShipped, 1),
	}
}

func (m *MockSink) SendOrderConfirmation(ctx context.Context, msg notify.OrderConfirmation) error {
	args := m.Called(ctx, msg)
	m.confirmed <- msg
	return args.Error(0)
}

func (m *MockSink) SendOrderShipped(ctx context.Context, msg notify.OrderShipped) error {
	args := m.Called(ctx, msg)
	m.shipped <- msg
	return args.Error(0)
}

func (m *MockSink) SendContactMessage(ctx context.Context, msg notify.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newTestService(repo *MockRepository, users *MockUserRepository, sink *MockSink) Service {
	return NewService(repo, NewEngine(repo), users, sink, "Nigeria")
}

func validInput() CreateInput {
	total := 200.0
	return CreateInput{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "08030000000",
		Items: []Item{
			{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: 100},
		},
		Total: &total,
	}
}

// --- Create ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		repo.On("Insert", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
		sink.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Once()

		o, err := svc.Create(ctx, validInput())
		require.NoError(t, err)

		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, PaymentPending, o.PaymentStatus)
		assert.Equal(t, 0.0, o.Subtotal, "subtotal defaults to zero when omitted")
		assert.Equal(t, 200.0, o.Total)
		assert.Equal(t, "Nigeria", o.ShippingAddress.Country, "country defaults when absent")
		assert.NotEmpty(t, o.OrderNumber)

		select {
		case msg := <-sink.confirmed:
			assert.Equal(t, o.OrderNumber, msg.OrderNumber)
			assert.Equal(t, "Jane Doe", msg.CustomerName)
			assert.Equal(t, 200.0, msg.Total)
			require.Len(t, msg.Items, 1)
			assert.Equal(t, "Widget", msg.Items[0].Name)
		case <-time.After(time.Second):
			t.Fatal("confirmation was not dispatched")
		}

		repo.AssertExpectations(t)
	})

	t.Run("CallerSuppliedPaymentStatus", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
		sink.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Maybe()

		input := validInput()
		completed := PaymentCompleted
		input.PaymentStatus = &completed

		o, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, PaymentCompleted, o.PaymentStatus)
	})

	t.Run("InvalidPaymentStatus", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockUserRepository), NewMockSink())

		input := validInput()
		bad := PaymentStatus("SETTLED")
		input.PaymentStatus = &bad

		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockUserRepository), NewMockSink())

		cases := map[string]func(*CreateInput){
			"name":  func(i *CreateInput) { i.CustomerName = "" },
			"email": func(i *CreateInput) { i.CustomerEmail = "  " },
			"items": func(i *CreateInput) { i.Items = nil },
			"total": func(i *CreateInput) { i.Total = nil },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				input := validInput()
				mutate(&input)

				_, err := svc.Create(ctx, input)
				assert.ErrorIs(t, err, ErrMissingField)
			})
		}
	})

	t.Run("NegativeMoneyCoercedToZero", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
		sink.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Maybe()

		input := validInput()
		negative := -5.0
		input.Tax = &negative

		o, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, o.Tax)
	})

	t.Run("DuplicateNumberRetried", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		var numbers []string
		repo.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				numbers = append(numbers, args.Get(1).(*Order).OrderNumber)
			}).
			Return(ErrDuplicateOrderNumber).Once()
		repo.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				numbers = append(numbers, args.Get(1).(*Order).OrderNumber)
			}).
			Return(nil).Once()
		sink.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Maybe()

		_, err := svc.Create(ctx, validInput())
		require.NoError(t, err)

		require.Len(t, numbers, 2)
		assert.NotEqual(t, numbers[0], numbers[1], "a fresh number must be generated on collision")
	})

	t.Run("WrappedDuplicateStillRetried", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		repo.On("Insert", mock.Anything, mock.Anything).
			Return(fmt.Errorf("insert order: %w", ErrDuplicateOrderNumber)).Once()
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
		sink.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil).Maybe()

		_, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateNumberExhaustsRetries", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockUserRepository), NewMockSink())

		repo.On("Insert", mock.Anything, mock.Anything).Return(ErrDuplicateOrderNumber).Times(numberRetries)

		_, err := svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, ErrDuplicateOrderNumber)
		repo.AssertExpectations(t)
	})

	t.Run("SinkFailureDoesNotFailCreation", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
		sink.On("SendOrderConfirmation", mock.Anything, mock.Anything).
			Return(errors.New("smtp: connection refused")).Once()

		o, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.NotNil(t, o)

		select {
		case <-sink.confirmed:
		case <-time.After(time.Second):
			t.Fatal("confirmation was not attempted")
		}
	})
}

// --- Reads ---

func TestService_GetByNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFoundReturnsNil", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockUserRepository), NewMockSink())

		repo.On("GetByNumber", mock.Anything, "ORD-404").Return(nil, nil).Once()

		o, err := svc.GetByNumber(ctx, "ORD-404")
		assert.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("ResolvesOwningUser", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserRepository)
		svc := newTestService(repo, users, NewMockSink())

		userID := uuid.New()
		repo.On("GetByNumber", mock.Anything, "ORD-1").
			Return(&Order{ID: uuid.New(), OrderNumber: "ORD-1", UserID: &userID}, nil).Once()
		users.On("FindPublicByID", mock.Anything, userID).
			Return(&user.PublicUser{ID: userID, Email: "jane@example.com", Name: "Jane Doe"}, nil).Once()

		o, err := svc.GetByNumber(ctx, "ORD-1")
		require.NoError(t, err)
		require.NotNil(t, o.User)
		assert.Equal(t, "jane@example.com", o.User.Email)
	})

	t.Run("UserLookupFailureDegrades", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserRepository)
		svc := newTestService(repo, users, NewMockSink())

		userID := uuid.New()
		repo.On("GetByNumber", mock.Anything, "ORD-2").
			Return(&Order{ID: uuid.New(), OrderNumber: "ORD-2", UserID: &userID}, nil).Once()
		users.On("FindPublicByID", mock.Anything, userID).
			Return(nil, errors.New("db down")).Once()

		o, err := svc.GetByNumber(ctx, "ORD-2")
		require.NoError(t, err)
		assert.Nil(t, o.User)
	})
}

// --- Mutations ---

func TestService_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdateStatusNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockUserRepository), NewMockSink())

		repo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil).Once()

		_, err := svc.UpdateStatus(ctx, uuid.New(), StatusConfirmed)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("UpdateStatusApplied", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockUserRepository), NewMockSink())

		id := uuid.New()
		storedAt := time.Now()
		repo.On("GetByID", mock.Anything, id).
			Return(&Order{ID: id, Status: StatusPending}, nil).Once()
		repo.On("UpdateStatus", mock.Anything, id, StatusConfirmed).Return(storedAt, nil).Once()

		o, err := svc.UpdateStatus(ctx, id, StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.Equal(t, storedAt, o.UpdatedAt, "response must carry the stored updated_at")
	})

	t.Run("AddTrackingDispatchesShippedMail", func(t *testing.T) {
		repo := new(MockRepository)
		sink := NewMockSink()
		svc := newTestService(repo, new(MockUserRepository), sink)

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).
			Return(&Order{ID: id, OrderNumber: "ORD-7", CustomerName: "Jane Doe", CustomerEmail: "jane@example.com"}, nil).Once()
		repo.On("UpdateTracking", mock.Anything, id, "TRK1", "DHL", (*time.Time)(nil)).Return(time.Now(), nil).Once()
		sink.On("SendOrderShipped", mock.Anything, mock.Anything).Return(nil).Once()

		o, err := svc.AddTracking(ctx, id, TrackingInput{TrackingNumber: "TRK1", Carrier: "DHL"})
		require.NoError(t, err)
		require.NotNil(t, o.TrackingNumber)
		assert.Equal(t, "TRK1", *o.TrackingNumber)

		select {
		case msg := <-sink.shipped:
			assert.Equal(t, "ORD-7", msg.OrderNumber)
			assert.Equal(t, "TRK1", msg.TrackingNumber)
			assert.Equal(t, "DHL", msg.Carrier)
		case <-time.After(time.Second):
			t.Fatal("shipped mail was not dispatched")
		}
	})

	t.Run("CancelForcesRefund", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockUserRepository), NewMockSink())

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).
			Return(&Order{ID: id, Status: StatusPending, PaymentStatus: PaymentPending}, nil).Once()
		repo.On("Cancel", mock.Anything, id).Return(time.Now(), nil).Once()

		o, err := svc.Cancel(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, PaymentRefunded, o.PaymentStatus, "cancellation refunds even an unpaid order")
	})
}
