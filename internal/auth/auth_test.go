package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserResolver struct {
	mock.Mock
}

func (m *MockUserResolver) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthContext(t *testing.T, header string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/bookings", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c, w
}

func TestMiddleware_MissingHeader(t *testing.T) {
	users := &MockUserResolver{}
	c, w := newAuthContext(t, "")

	Middleware(users)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.True(t, c.IsAborted())
}

func TestMiddleware_UnknownToken(t *testing.T) {
	users := &MockUserResolver{}
	c, w := newAuthContext(t, "Bearer nope")

	users.On("GetByToken", c.Request.Context(), "nope").Return(nil, domain.ErrUserNotFound).Once()

	Middleware(users)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	users := &MockUserResolver{}
	c, w := newAuthContext(t, "Bearer secret")

	user := &domain.User{ID: "user-1", Scopes: []string{domain.ScopeWrite}}
	users.On("GetByToken", c.Request.Context(), "secret").Return(user, nil).Once()

	Middleware(users)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.IsAborted())
	assert.Equal(t, user, UserFrom(c))
}

func TestRequireWriteScope(t *testing.T) {
	c, w := newAuthContext(t, "")
	c.Set(IdentityKey, &domain.User{ID: "user-1", Scopes: []string{"read"}})

	RequireWriteScope()(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, c.IsAborted())

	c, w = newAuthContext(t, "")
	c.Set(IdentityKey, &domain.User{ID: "user-1", Scopes: []string{domain.ScopeWrite}})

	RequireWriteScope()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.IsAborted())
}
