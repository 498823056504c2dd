// Package middleware provides the HTTP middleware chain: identity, logging,
// tracing and rate limiting.
package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const identityLocal = "identity"

// TokenDecoder is the part of the token codec the middleware needs.
type TokenDecoder interface {
	Decode(token string) (auth.Claims, error)
}

// Identity resolves the bearer token into a request identity. It never
// rejects a request: a missing or invalid token leaves the request anonymous
// and the failure is logged. Routes that need a caller use RequireAuth.
func Identity(decoder TokenDecoder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := auth.Anonymous

		if token, present := bearerToken(c.Get(fiber.HeaderAuthorization)); present {
			claims, err := decoder.Decode(token)
			if err != nil {
				outcome := tokenOutcome(err)
				observability.TokenValidations.WithLabelValues(outcome).Inc()
				Logger.WarnContext(c.UserContext(), "ignoring invalid bearer token",
					slog.String("reason", outcome),
					slog.String("error", err.Error()),
					slog.String("path", c.Path()),
				)
			} else {
				observability.TokenValidations.WithLabelValues("valid").Inc()
				id = claims.Identity()
				c.Locals("userID", id.SubjectID)
			}
		}

		c.Locals(identityLocal, id)
		c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. present is
// true whenever a header was sent, so malformed headers are logged too.
func bearerToken(header string) (token string, present bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(value), true
}

func tokenOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

// CurrentIdentity returns the identity resolved for the request.
func CurrentIdentity(c *fiber.Ctx) auth.Identity {
	if id, ok := c.Locals(identityLocal).(auth.Identity); ok {
		return id
	}
	return auth.Anonymous
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentIdentity(c).Authenticated() {
			return models.RespondWithAppError(c, models.NewUnauthorizedError("Authentication required"))
		}
		return c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and callers without role with 403.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := CurrentIdentity(c)
		if !id.Authenticated() {
			return models.RespondWithAppError(c, models.NewUnauthorizedError("Authentication required"))
		}
		if id.Role != role {
			return models.RespondWithAppError(c, models.NewForbiddenError("Insufficient permissions"))
		}
		return c.Next()
	}
}
