package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-be/internal/transport"
	"storefront-be/internal/utils"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		transport.Error(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	token, u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			transport.Error(w, http.StatusConflict, err.Error())
			return
		}
		transport.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	transport.JSON(w, http.StatusCreated, "User registered successfully", authResponse{
		Token: token,
		User:  u.Public(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false)
}

// AdminLogin behaves like Login but only issues tokens to admin accounts.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		transport.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			transport.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		transport.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if adminOnly && u.Role != RoleAdmin {
		transport.Error(w, http.StatusForbidden, "Access denied. Admin account required.")
		return
	}

	transport.JSON(w, http.StatusOK, "Login successful", authResponse{
		Token: token,
		User:  u.Public(),
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	email := utils.GetUserEmailFromContext(r.Context())
	if email == "" {
		transport.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	u, err := h.svc.Profile(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			transport.Error(w, http.StatusNotFound, err.Error())
			return
		}
		transport.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	transport.JSON(w, http.StatusOK, "Profile retrieved successfully", u.Public())
}
