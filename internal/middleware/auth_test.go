package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]error

func (s stubAuth) Authenticate(ctx context.Context, token string) (*model.Operator, error) {
	if err, ok := s[token]; ok {
		return nil, err
	}
	o := &model.Operator{Username: "admin", FullName: "Shop Operator"}
	o.ID = 7
	return o, nil
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	auth := stubAuth{
		"expired": service.ErrSessionExpired,
		"forged":  jwt.ErrInvalidToken,
	}
	app.Get("/me", RequireAuth(auth), func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		return c.JSON(fiber.Map{"id": actor.ID, "username": actor.Username, "name": actor.Name})
	})
	return app
}

func call(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app := newAuthApp()

	cases := map[string]int{
		"":               fiber.StatusUnauthorized,
		"Token abc":      fiber.StatusUnauthorized,
		"Bearer":         fiber.StatusUnauthorized,
		"Bearer forged":  fiber.StatusUnauthorized,
		"Bearer expired": fiber.StatusUnauthorized,
		"Bearer good":    fiber.StatusOK,
		"bearer good":    fiber.StatusOK,
	}
	for header, want := range cases {
		assert.Equal(t, want, call(t, app, header), "header %q", header)
	}
}

func TestActorFromFallsBackToSystem(t *testing.T) {
	app := fiber.New()
	var got service.Actor
	app.Get("/", func(c *fiber.Ctx) error {
		got = ActorFrom(c)
		return nil
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, service.System, got)
}

func TestRequestLoggerTagsRequests(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestLogger(zerolog.New(&buf)))
	app.Get("/ping", func(c *fiber.Ctx) error {
		Logger(c).Info().Msg("inside handler")
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)

	id := resp.Header.Get(fiber.HeaderXRequestID)
	assert.NotEmpty(t, id)
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), `"message":"request completed"`)
	assert.Contains(t, buf.String(), `"status":200`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))
}
