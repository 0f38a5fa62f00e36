package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"job-board-backend/config"
	"job-board-backend/internal/delivery/http/middleware"
	v1 "job-board-backend/internal/delivery/http/v1"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthUC struct {
	mock.Mock
}

func (m *MockAuthUC) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*domain.AuthResult)
	return result, args.Error(1)
}
func (m *MockAuthUC) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, password)
	result, _ := args.Get(0).(*domain.AuthResult)
	return result, args.Error(1)
}
func (m *MockAuthUC) SendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *MockAuthUC) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, code)
	result, _ := args.Get(0).(*domain.AuthResult)
	return result, args.Error(1)
}
func (m *MockAuthUC) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}
func (m *MockAuthUC) RefreshToken(ctx context.Context, token string) (*domain.AuthResult, error) {
	args := m.Called(ctx, token)
	result, _ := args.Get(0).(*domain.AuthResult)
	return result, args.Error(1)
}

func newAuthRouter(uc domain.AuthUsecase) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	group := r.Group("/v1")
	noLimit := func(c *gin.Context) { c.Next() }
	v1.NewAuthHandler(group, group, noLimit, uc, &config.Config{JWTExpiry: time.Hour})
	return r
}

func postRefresh(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh-token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("Success sets the new cookie", func(t *testing.T) {
		uc := new(MockAuthUC)
		uc.On("RefreshToken", mock.Anything, "old.token").
			Return(&domain.AuthResult{Token: "new.token", User: &domain.User{ID: "user-1"}}, nil)

		w := postRefresh(newAuthRouter(uc), `{"token":"old.token"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"new.token"`)
		assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.AuthCookie+"=new.token")
		uc.AssertExpectations(t)
	})

	t.Run("Missing token", func(t *testing.T) {
		uc := new(MockAuthUC)

		w := postRefresh(newAuthRouter(uc), `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "ValidationError", body.Error.Kind)
		assert.Equal(t, []string{"token: Token is required"}, body.Error.Errors)
		assert.Empty(t, uc.Calls)
	})

	t.Run("Invalid token", func(t *testing.T) {
		uc := new(MockAuthUC)
		uc.On("RefreshToken", mock.Anything, "forged").Return(nil, apperror.Unauthorized("Invalid token"))

		w := postRefresh(newAuthRouter(uc), `{"token":"forged"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})
}
