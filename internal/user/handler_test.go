package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-be/internal/transport"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, password string) (string, User, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Get(1).(User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(User), args.Error(2)
}

func (m *MockUserService) Profile(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func TestHandler_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewHandler(svc)

		u := User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Role: RoleUser}
		svc.On("Register", mock.Anything, "Jane Doe", "jane@example.com", "s3cret").
			Return("token-123", u, nil).Once()

		body := `{"name":"Jane Doe","email":"jane@example.com","password":"s3cret"}`
		req := httptest.NewRequest("POST", "/users/register", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.Register(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp transport.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "token-123", data["token"])
	})

	t.Run("Missing fields", func(t *testing.T) {
		h := NewHandler(new(MockUserService))

		req := httptest.NewRequest("POST", "/users/register", bytes.NewBufferString(`{"email":"jane@example.com"}`))
		w := httptest.NewRecorder()

		h.Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Duplicate email maps to 409", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewHandler(svc)

		svc.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", User{}, ErrEmailExists).Once()

		body := `{"name":"Jane Doe","email":"jane@example.com","password":"s3cret"}`
		req := httptest.NewRequest("POST", "/users/register", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.Register(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	t.Run("Bad credentials map to 401", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewHandler(svc)

		svc.On("Login", mock.Anything, "jane@example.com", "wrong").
			Return("", User{}, ErrInvalidCredentials).Once()

		body := `{"email":"jane@example.com","password":"wrong"}`
		req := httptest.NewRequest("POST", "/users/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Admin login rejects plain users", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewHandler(svc)

		u := User{ID: uuid.New(), Email: "jane@example.com", Role: RoleUser}
		svc.On("Login", mock.Anything, "jane@example.com", "s3cret").
			Return("token-123", u, nil).Once()

		body := `{"email":"jane@example.com","password":"s3cret"}`
		req := httptest.NewRequest("POST", "/admin/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.AdminLogin(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin login issues token to admins", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewHandler(svc)

		u := User{ID: uuid.New(), Email: "admin@example.com", Role: RoleAdmin}
		svc.On("Login", mock.Anything, "admin@example.com", "s3cret").
			Return("token-123", u, nil).Once()

		body := `{"email":"admin@example.com","password":"s3cret"}`
		req := httptest.NewRequest("POST", "/admin/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.AdminLogin(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_Profile(t *testing.T) {
	t.Run("Anonymous rejected", func(t *testing.T) {
		h := NewHandler(new(MockUserService))

		req := httptest.NewRequest("GET", "/users/profile", nil)
		w := httptest.NewRecorder()

		h.Profile(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Returns public fields", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewHandler(svc)

		u := User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Password: "hashed", Role: RoleUser}
		svc.On("Profile", mock.Anything, "jane@example.com").Return(u, nil).Once()

		req := httptest.NewRequest("GET", "/users/profile", nil)
		ctx := utils.SetUserContext(req.Context(), u.ID, "jane@example.com", string(RoleUser))
		w := httptest.NewRecorder()

		h.Profile(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hashed")
	})
}
