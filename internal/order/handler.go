package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-be/internal/transport"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Create accepts guest and registered-user checkouts; an authenticated
// principal becomes the owning user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := CreateInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Items:           req.Items,
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingCost,
		Tax:             req.Tax,
		Total:           req.Total,
		PaymentStatus:   req.PaymentStatus,
		PaymentMethod:   req.PaymentMethod,
		TransactionID:   req.TransactionID,
	}

	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		input.UserID = &userID
	}

	o, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusCreated, "Order created successfully", toResponse(o))
}

// GetByNumber serves guest tracking by the human-shareable order number.
func (h *Handler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	o, err := h.svc.GetByNumber(r.Context(), orderNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if o == nil {
		transport.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	transport.JSON(w, http.StatusOK, "Order retrieved successfully", toResponse(o))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		transport.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	orders, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Orders retrieved successfully", toResponseList(orders))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := &Filter{}

	if v := r.URL.Query().Get("status"); v != "" {
		status := OrderStatus(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("paymentStatus"); v != "" {
		status := PaymentStatus(v)
		filter.PaymentStatus = &status
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = &v
	}

	orders, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Orders retrieved successfully", toResponseList(orders))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if o == nil {
		transport.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	transport.JSON(w, http.StatusOK, "Order retrieved successfully", toResponse(o))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), id, req.OrderStatus)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Order status updated successfully", toResponse(o))
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req paymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.svc.UpdatePaymentStatus(r.Context(), id, req.PaymentStatus)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Payment status updated successfully", toResponse(o))
}

func (h *Handler) AddTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req trackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.svc.AddTracking(r.Context(), id, TrackingInput{
		TrackingNumber:        req.TrackingNumber,
		Carrier:               req.Carrier,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Tracking information added successfully", toResponse(o))
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.MarkDelivered(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Order marked as delivered", toResponse(o))
}

func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.svc.UpdateNotes(r.Context(), id, req.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Admin notes updated successfully", toResponse(o))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Order cancelled successfully", toResponse(o))
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid order id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPaymentStatus),
		errors.Is(err, ErrInvalidDate):
		transport.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOrderNotFound):
		transport.Error(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrDuplicateOrderNumber):
		transport.Error(w, http.StatusConflict, "Could not allocate a unique order number")
	default:
		transport.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
