package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"storefront-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

func toResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.svc.Create(r.Context(), CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusCreated, "Message sent successfully", toResponse(m))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = toResponse(m)
	}
	transport.JSON(w, http.StatusOK, "Messages retrieved successfully", out)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	m, err := h.svc.MarkRead(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Message marked as read", toResponse(m))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	transport.JSON(w, http.StatusOK, "Message deleted successfully", nil)
}

func (h *Handler) messageID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid message id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingField):
		transport.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrMessageNotFound):
		transport.Error(w, http.StatusNotFound, "Message not found")
	default:
		transport.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
