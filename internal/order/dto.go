package order

import (
	"time"

	"storefront-be/internal/user"
)

type createRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	ShippingAddress Address  `json:"shippingAddress"`
	BillingAddress  *Address `json:"billingAddress"`

	Items []Item `json:"items"`

	Subtotal     *float64 `json:"subtotal"`
	ShippingCost *float64 `json:"shippingCost"`
	Tax          *float64 `json:"tax"`
	Total        *float64 `json:"total"`

	PaymentStatus *PaymentStatus `json:"paymentStatus"`
	PaymentMethod *string        `json:"paymentMethod"`
	TransactionID *string        `json:"transactionId"`
}

type statusRequest struct {
	OrderStatus OrderStatus `json:"orderStatus"`
}

type paymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

type trackingRequest struct {
	TrackingNumber        string `json:"trackingNumber"`
	Carrier               string `json:"carrier"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type OrderResponse struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	UserID      *string `json:"userId,omitempty"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`

	ShippingAddress Address  `json:"shippingAddress"`
	BillingAddress  *Address `json:"billingAddress,omitempty"`

	Items []Item `json:"items"`

	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`

	OrderStatus   OrderStatus   `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	TrackingNumber        *string `json:"trackingNumber,omitempty"`
	Carrier               *string `json:"carrier,omitempty"`
	EstimatedDeliveryDate *string `json:"estimatedDeliveryDate,omitempty"`
	DeliveredAt           *string `json:"deliveredAt,omitempty"`

	AdminNotes    *string `json:"adminNotes,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	TransactionID *string `json:"transactionId,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	User *user.PublicUser `json:"user,omitempty"`
}

func toResponse(o *Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Items:           o.Items,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		Total:           o.Total,
		OrderStatus:     o.Status,
		PaymentStatus:   o.PaymentStatus,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
		AdminNotes:      o.AdminNotes,
		PaymentMethod:   o.PaymentMethod,
		TransactionID:   o.TransactionID,
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       o.UpdatedAt.UTC().Format(time.RFC3339),
		User:            o.User,
	}

	if o.UserID != nil {
		id := o.UserID.String()
		resp.UserID = &id
	}
	if o.EstimatedDeliveryDate != nil {
		eta := o.EstimatedDeliveryDate.Format("2006-01-02")
		resp.EstimatedDeliveryDate = &eta
	}
	if o.DeliveredAt != nil {
		deliveredAt := o.DeliveredAt.UTC().Format(time.RFC3339)
		resp.DeliveredAt = &deliveredAt
	}

	return resp
}

func toResponseList(orders []*Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toResponse(o)
	}
	return out
}
