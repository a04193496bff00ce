package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/frontdesk-api/internal/handler"
	"github.com/clinicdesk/frontdesk-api/internal/service/auth"
)

const (
	ContextStaffID  = "staffID"
	ContextUsername = "staffUsername"

	cookieName = "token"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// ExtractToken pulls the staff token from the Authorization header or,
// failing that, the session cookie.
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// Authenticate verifies the staff token from either the bearer header or
// the session cookie and sets staff info in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return m.authenticate(ExtractToken)
}

// AuthenticateBearer accepts only the Authorization header form. The doctor
// routes require it.
func (m *AuthMiddleware) AuthenticateBearer() gin.HandlerFunc {
	return m.authenticate(func(c *gin.Context) string {
		header := c.GetHeader("Authorization")
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	})
}

func (m *AuthMiddleware) authenticate(extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extract(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("no token provided, authorization denied"))
			c.Abort()
			return
		}

		claims, err := m.authService.Validate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextStaffID, claims.StaffID.String())
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
