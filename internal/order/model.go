package order

import (
	"time"

	"storefront-be/internal/user"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Item is a value snapshot taken at order time. Product edits or deletions
// never alter historical orders.
type Item struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID          uuid.UUID
	OrderNumber string
	UserID      *uuid.UUID

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingAddress Address
	BillingAddress  *Address

	Items []Item

	Subtotal     float64
	ShippingCost float64
	Tax          float64
	Total        float64

	Status        OrderStatus
	PaymentStatus PaymentStatus

	TrackingNumber        *string
	Carrier               *string
	EstimatedDeliveryDate *time.Time
	DeliveredAt           *time.Time

	AdminNotes    *string
	PaymentMethod *string
	TransactionID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// User carries the owning user's public fields, resolved on reads.
	User *user.PublicUser
}

// CreateInput is the payload accepted on order creation. Money fields other
// than Total default to zero when omitted.
type CreateInput struct {
	UserID *uuid.UUID

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingAddress Address
	BillingAddress  *Address

	Items []Item

	Subtotal     *float64
	ShippingCost *float64
	Tax          *float64
	Total        *float64

	PaymentStatus *PaymentStatus
	PaymentMethod *string
	TransactionID *string
}

// TrackingInput carries fulfillment metadata for AddTracking. The estimated
// delivery date, when present, must be a calendar date (2006-01-02).
type TrackingInput struct {
	TrackingNumber        string
	Carrier               string
	EstimatedDeliveryDate string
}

type Filter struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	Search        *string
}
