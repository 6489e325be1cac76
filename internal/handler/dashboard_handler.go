package handler

import (
	"motoparts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns per-day inbound/outbound quantities for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	data, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

// GetFinancialStats totals sales, purchases and returns
// Query params: range = 7d | 1m | 3m | 6m | 12m (default 1m)
func (h *DashboardHandler) GetFinancialStats(c *fiber.Ctx) error {
	stats, err := h.service.GetFinancialStats(c.UserContext(), c.Query("range"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}
