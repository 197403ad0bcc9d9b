// Package middleware provides authentication, logging, tracing and metrics middleware.
package middleware

import (
	"context"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader is the header clients send the identity token in.
const TokenHeader = "x-auth-token"

// TokenVerifier resolves a token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RevocationChecker reports users whose tokens are no longer honoured.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, userID string) bool
}

// AuthRequired rejects requests without a valid token and stores the caller's
// user id in fiber locals ("userID") and in the user context (UserIDKey).
// revocations may be nil.
func AuthRequired(verifier TokenVerifier, revocations RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			observability.AuthFailures.WithLabelValues("missing_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("No token, authorization denied"))
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			observability.AuthFailures.WithLabelValues("invalid_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token is not valid"))
		}

		if revocations != nil && revocations.IsRevoked(c.UserContext(), userID) {
			observability.AuthFailures.WithLabelValues("revoked").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token is not valid"))
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

		return c.Next()
	}
}

// extractToken reads x-auth-token, falling back to "Authorization: Bearer <token>".
func extractToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
