package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactions struct {
	createErr error
	deleteErr error
	got       *service.CreateTransactionRequest
	actor     service.Actor
	start     time.Time
	end       time.Time
}

func (f *fakeTransactions) Create(ctx context.Context, req *service.CreateTransactionRequest, actor service.Actor) (*model.Transaction, error) {
	f.got, f.actor = req, actor
	if f.createErr != nil {
		return nil, f.createErr
	}
	tx := &model.Transaction{Type: req.Type, TotalAmount: req.Total(), PaymentMethod: req.PaymentMethod}
	tx.ID = 1
	return tx, nil
}

func (f *fakeTransactions) Delete(ctx context.Context, id uint, actor service.Actor) error {
	return f.deleteErr
}

func (f *fakeTransactions) GetAll(ctx context.Context) ([]model.Transaction, error) {
	return []model.Transaction{}, nil
}

func (f *fakeTransactions) GetByID(ctx context.Context, id uint) (*model.Transaction, error) {
	if id != 1 {
		return nil, service.ErrTransactionNotFound
	}
	tx := &model.Transaction{Type: model.TxSale}
	tx.ID = id
	return tx, nil
}

func (f *fakeTransactions) GetByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	f.start, f.end = start, end
	return []model.Transaction{}, nil
}

func newTransactionApp(svc service.TransactionService) *fiber.App {
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewTransactionHandler(svc)
	app.Post("/transactions", h.CreateTransaction)
	app.Get("/transactions", h.GetTransactions)
	app.Get("/transactions/filter/date", h.GetTransactionsByDate)
	app.Get("/transactions/:id", h.GetTransaction)
	app.Delete("/transactions/:id", h.DeleteTransaction)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestCreateTransactionReturnsCreated(t *testing.T) {
	svc := &fakeTransactions{}
	app := newTransactionApp(svc)

	resp, body := do(t, app, http.MethodPost, "/transactions",
		`{"type":"Sale","paymentMethod":"cash","items":[{"productId":1,"quantity":3,"price":50000}]}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Transaction recorded", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(150000), data["totalAmount"])
	assert.Equal(t, "sale", data["type"])

	assert.Equal(t, model.TxSale, svc.got.Type)
	assert.Equal(t, service.System, svc.actor)
}

func TestCreateTransactionErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"empty items", service.ErrEmptyItems, fiber.StatusBadRequest},
		{"validation", &service.ValidationError{Fields: []*validator.ErrorResponse{{FailedField: "items[0].quantity", Tag: "gt"}}}, fiber.StatusBadRequest},
		{"missing product", fmt.Errorf("%w: %w", service.ErrTransactionAborted, service.ErrProductNotFound), fiber.StatusNotFound},
		{"aborted", fmt.Errorf("%w: %w", service.ErrTransactionAborted, fmt.Errorf("connection reset")), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTransactionApp(&fakeTransactions{createErr: tc.err})

			resp, body := do(t, app, http.MethodPost, "/transactions", `{"type":"sale","paymentMethod":"cash","items":[]}`)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body["error"], "connection reset")
		})
	}
}

func TestCreateTransactionValidationListsFields(t *testing.T) {
	verr := &service.ValidationError{Fields: []*validator.ErrorResponse{{FailedField: "items[0].quantity", Tag: "gt", Value: "0"}}}
	app := newTransactionApp(&fakeTransactions{createErr: verr})

	_, body := do(t, app, http.MethodPost, "/transactions", `{"type":"sale","items":[{"productId":1}]}`)

	fields := body["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "items[0].quantity", fields[0].(map[string]any)["field"])
}

func TestCreateTransactionRejectsMalformedJSON(t *testing.T) {
	resp, body := do(t, newTransactionApp(&fakeTransactions{}), http.MethodPost, "/transactions", `{"type":`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestDeleteTransaction(t *testing.T) {
	resp, _ := do(t, newTransactionApp(&fakeTransactions{}), http.MethodDelete, "/transactions/1", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, body := do(t, newTransactionApp(&fakeTransactions{deleteErr: service.ErrTransactionNotFound}), http.MethodDelete, "/transactions/99999", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Transaction not found", body["error"])

	resp, _ = do(t, newTransactionApp(&fakeTransactions{}), http.MethodDelete, "/transactions/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetTransaction(t *testing.T) {
	app := newTransactionApp(&fakeTransactions{})

	resp, body := do(t, app, http.MethodGet, "/transactions/1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["id"])

	resp, _ = do(t, app, http.MethodGet, "/transactions/2", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFilterByDateIncludesEndDay(t *testing.T) {
	svc := &fakeTransactions{}
	app := newTransactionApp(svc)

	resp, _ := do(t, app, http.MethodGet, "/transactions/filter/date?startDate=2026-03-01&endDate=2026-03-31", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2026-03-01", svc.start.Format(dateLayout))
	assert.Equal(t, "2026-04-01", svc.end.Format(dateLayout))

	for _, q := range []string{
		"",
		"?startDate=2026-03-01",
		"?startDate=01/03/2026&endDate=2026-03-31",
		"?startDate=2026-03-31&endDate=2026-03-01",
	} {
		resp, body := do(t, app, http.MethodGet, "/transactions/filter/date"+q, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
		assert.NotEmpty(t, body["error"], q)
	}
}
