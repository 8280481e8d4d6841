package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/internal/domain"
	"github.com/ovchar/trainbook/internal/httpx"
)

// IdentityKey is where the middleware stores the authenticated user in the
// request context.
const IdentityKey = "auth.user"

type UserResolver interface {
	GetByToken(ctx context.Context, token string) (*domain.User, error)
}

// Middleware resolves the bearer token to a user and makes the identity
// available to handlers; there is no session or other global request state.
func Middleware(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Unauthorized(c, "Authentication required")
			return
		}

		user, err := users.GetByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				httpx.Unauthorized(c, "Authentication required")
				return
			}
			httpx.Internal(c)
			return
		}

		c.Set(IdentityKey, user)
		c.Next()
	}
}

func RequireWriteScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFrom(c)
		if user == nil {
			httpx.Unauthorized(c, "Authentication required")
			return
		}
		if !user.HasScope(domain.ScopeWrite) {
			httpx.Forbidden(c, "Write scope required")
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user, or nil outside the middleware.
func UserFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
