package middleware

import (
	"strings"

	"authd/internal/model"
	"authd/internal/service"

	"github.com/gin-gonic/gin"
)

const userContextKey = "authd/user"

// AuthMiddleware resolves a bearer access token into the authenticated user
// and stores it on the request context. Requests without a valid token pass
// through unauthenticated; handlers decide whether that is acceptable.
type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

func (m *AuthMiddleware) Init() error {
	return nil
}

func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)

		if token != "" {
			user, err := m.auth.GetUserByToken(token)
			if err == nil {
				c.Set(userContextKey, user)
			}
		}

		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// GetUser returns the authenticated user stored by the middleware, or nil.
func GetUser(c *gin.Context) *model.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}

	user, ok := value.(*model.User)
	if !ok {
		return nil
	}

	return user
}
