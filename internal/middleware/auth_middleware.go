package middleware

import (
	"strings"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/logger"
	"quiz-tube/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	AccessTokenCookie   = "access_token"
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected requires a valid access token, taken from the access_token cookie or, failing
// that, the Authorization header. The token's user_id is stored under UserIDKey.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return domain.NewUnauthorizedError("access token is missing")
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.Error(err), zap.String("path", c.Path()))
			return domain.NewError(domain.ErrUnauthorized, "invalid access token", err)
		}

		if claims.TokenType != service.TokenTypeAccess {
			return domain.NewUnauthorizedError("invalid token type: expected access, got " + claims.TokenType)
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	if cookie := strings.TrimSpace(c.Cookies(AccessTokenCookie)); cookie != "" {
		return cookie
	}
	authHeader := c.Get(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerSchema) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
}

// UserID returns the authenticated user set by Protected, or "".
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}
