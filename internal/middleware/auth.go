package middleware

import (
	"context"
	"errors"
	"strings"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const (
	localOperatorID   = "operator_id"
	localOperatorUser = "operator_username"
	localOperatorName = "operator_name"
)

// Authenticator resolves a bearer token to an operator.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Operator, error)
}

// RequireAuth validates the bearer token and stores the operator in the context.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		operator, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrOperatorInactive):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingToken):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			Logger(c).Error().Err(err).Msg("authenticate request")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		c.Locals(localOperatorID, operator.ID)
		c.Locals(localOperatorUser, operator.Username)
		c.Locals(localOperatorName, operator.FullName)

		return c.Next()
	}
}

// ActorFrom returns the operator set by RequireAuth, or service.System on
// unauthenticated routes.
func ActorFrom(c *fiber.Ctx) service.Actor {
	username, ok := c.Locals(localOperatorUser).(string)
	if !ok || username == "" {
		return service.System
	}
	id, _ := c.Locals(localOperatorID).(uint)
	name, _ := c.Locals(localOperatorName).(string)
	return service.Actor{ID: id, Username: username, Name: name}
}
