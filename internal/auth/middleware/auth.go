package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/beststarli/double-token-demo/internal/auth/service"
	autherror "github.com/beststarli/double-token-demo/internal/errors"
	"github.com/beststarli/double-token-demo/pkg/constant"
)

const (
	localsUserIDKey = "auth_user_id"
	localsEmailKey  = "auth_email"
)

// RequireAuth guards a route with an access token check. The check is pure
// signature + expiry; it deliberately never touches the refresh token ledger,
// so no database round trip happens on protected calls.
//
// Expired tokens get a distinct 401 reason so clients know to refresh
// instead of re-login; every other verification failure is a 403.
func RequireAuth(tokenService service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": autherror.ErrMissingAuthHeader.Error(),
			})
		}

		claims, err := tokenService.VerifyAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": autherror.ErrAccessTokenExpired.Error(),
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": autherror.ErrAccessTokenInvalid.Error(),
			})
		}

		c.Locals(localsUserIDKey, claims.UserID)
		c.Locals(localsEmailKey, claims.Email)

		return c.Next()
	}
}

// bearerToken enforces the exact two-part "Bearer <token>" shape.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != constant.BearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// UserIDFromContext returns the authenticated user's id set by RequireAuth.
func UserIDFromContext(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(localsUserIDKey).(string)
	return id, ok
}

// EmailFromContext returns the authenticated user's email set by RequireAuth.
func EmailFromContext(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals(localsEmailKey).(string)
	return email, ok
}
