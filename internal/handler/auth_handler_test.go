package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"task_tracker/internal/model"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password, role string) (*model.User, string, error) {
	args := m.Called(ctx, name, email, password, role)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func setupAuthHandlerRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	NewAuthHandler(svc).RegisterAuthRoutes(api)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, "Alice", "a@x.com", "secret1", "").
		Return(&model.User{ID: 1, Name: "Alice", Email: "a@x.com", PasswordHash: "hashed", Role: model.RoleUser}, "tok123", nil)

	router := setupAuthHandlerRouter(svc)
	w := postJSON(router, "/api/auth/register", `{"name":"Alice","email":"a@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		AccessToken string          `json:"access_token"`
		User        json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok123", resp.AccessToken)
	// The hash never appears in the response
	assert.NotContains(t, string(resp.User), "hashed")
	assert.NotContains(t, strings.ToLower(string(resp.User)), "password")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, "Bob", "a@x.com", "secret2", "").
		Return(nil, "", service.ErrEmailAlreadyExists)

	router := setupAuthHandlerRouter(svc)
	w := postJSON(router, "/api/auth/register", `{"name":"Bob","email":"a@x.com","password":"secret2"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	svc := new(mockAuthService)
	router := setupAuthHandlerRouter(svc)

	cases := map[string]string{
		"short password": `{"name":"Alice","email":"a@x.com","password":"abc"}`,
		"bad email":      `{"name":"Alice","email":"not-an-email","password":"secret1"}`,
		"missing name":   `{"email":"a@x.com","password":"secret1"}`,
		"bad role":       `{"name":"Alice","email":"a@x.com","password":"secret1","role":"root"}`,
		"long name":      `{"name":"` + strings.Repeat("a", 51) + `","email":"a@x.com","password":"secret1"}`,
	}
	for name, body := range cases {
		w := postJSON(router, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "a@x.com", "secret1").
		Return(&model.User{ID: 1, Name: "Alice", Email: "a@x.com", Role: model.RoleUser}, "tok123", nil)

	router := setupAuthHandlerRouter(svc)
	w := postJSON(router, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"tok123"`)
}

func TestAuthHandler_Login_InvalidCredentials_SameResponse(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "a@x.com", "wrong").
		Return(nil, "", service.ErrInvalidCredentials)
	svc.On("Login", mock.Anything, "nobody@x.com", "whatever").
		Return(nil, "", service.ErrInvalidCredentials)

	router := setupAuthHandlerRouter(svc)
	wrongPassword := postJSON(router, "/api/auth/login", `{"email":"a@x.com","password":"wrong"}`)
	unknownEmail := postJSON(router, "/api/auth/login", `{"email":"nobody@x.com","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical body for both failure modes
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
