package handler

import (
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateMovement records a PENDING mutation request.
// POST /api/v1/movements
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	var req service.RecordMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	m, err := h.service.RecordMovement(&req, getUserName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Movement recorded", "data": m})
}

// GetMovements lists every ledger row, newest first.
// GET /api/v1/movements
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.service.ListMovements()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}

// GetPendingMovements lists rows awaiting approval.
// GET /api/v1/movements/pending
func (h *InventoryHandler) GetPendingMovements(c *fiber.Ctx) error {
	movements, err := h.service.ListPending()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}

// GetMovement returns a single ledger row.
// GET /api/v1/movements/:id
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	m, err := h.service.GetMovement(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(m)
}

// ApproveMovement is the one-way PENDING -> APPROVED action.
// PUT /api/v1/movements/:id/approve
func (h *InventoryHandler) ApproveMovement(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	m, err := h.service.Approve(id, getUserName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Movement approved", "data": m})
}

// DeleteMovement hard-deletes a ledger row.
// DELETE /api/v1/movements/:id
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	if err := h.service.Delete(id, getUserName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Movement deleted"})
}

// GetStock serves the derived-stock view.
// GET /api/v1/stock?part_name=&part_code=&category=
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	filter := repository.StockFilter{
		PartName: c.Query("part_name"),
		PartCode: c.Query("part_code"),
		Category: c.Query("category"),
	}

	summaries, err := h.service.CurrentStock(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summaries)
}
