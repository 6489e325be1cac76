package handler

import (
	"errors"
	"strconv"
	"strings"

	"motoparts-inventory/internal/middleware"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto its HTTP status and body.
func respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrEmptyItems):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	// checked before ErrTransactionAborted: a missing product aborts the unit of work too
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundMessage(err)})
	case errors.Is(err, service.ErrInvalidReference):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": service.ErrConflict.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrOperatorInactive),
		errors.Is(err, service.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTransactionAborted):
		middleware.Logger(c).Error().Err(err).Msg("unit of work aborted")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": service.ErrTransactionAborted.Error()})
	}

	middleware.Logger(c).Error().Err(err).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

func notFoundMessage(err error) string {
	for _, target := range []error{service.ErrTransactionNotFound, service.ErrProductNotFound, service.ErrReferenceNotFound} {
		if errors.Is(err, target) {
			return capitalize(target.Error())
		}
	}
	return "Not found"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var errInvalidJSON = fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// ErrorHandler renders errors returned from handlers (fiber.Error included)
// in the same {"error": ...} shape as respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return respondError(c, err)
}
