package handler

import (
	"time"

	"motoparts-inventory/internal/middleware"
	"motoparts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransaction records a transaction and adjusts stock atomically
// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	tx, err := h.service.Create(c.UserContext(), &req, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

// DeleteTransaction reverts the stock effects and removes the transaction
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id, middleware.ActorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	tx, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

// GetTransactionsByDate lists transactions between two calendar days, both inclusive
// GET /api/v1/transactions/filter/date?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *TransactionHandler) GetTransactionsByDate(c *fiber.Ctx) error {
	startStr, endStr := c.Query("startDate"), c.Query("endDate")
	if startStr == "" || endStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "startDate and endDate are required (YYYY-MM-DD)")
	}

	start, err := time.ParseInLocation(dateLayout, startStr, time.Local)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid startDate, use YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.Local)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid endDate, use YYYY-MM-DD")
	}
	if end.Before(start) {
		return fiber.NewError(fiber.StatusBadRequest, "endDate must not be before startDate")
	}

	transactions, err := h.service.GetByDateRange(c.UserContext(), start, end.AddDate(0, 0, 1))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transactions)
}
