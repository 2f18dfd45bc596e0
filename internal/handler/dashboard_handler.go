package handler

import (
	"strconv"

	"go-helpdesk-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns the overview block for the landing page
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetMovementSeries returns daily in/out totals for charts
// GET /api/v1/dashboard/movements?days=7
func (h *DashboardHandler) GetMovementSeries(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetMovementSeries(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movement series"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
