package handler

import (
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/service"
	"go-helpdesk-api/pkg/timeutil"

	"github.com/gofiber/fiber/v2"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(s service.TicketService) *TicketHandler {
	return &TicketHandler{service: s}
}

// CreateTicket handles the public submission form.
// POST /api/v1/tickets
func (h *TicketHandler) CreateTicket(c *fiber.Ctx) error {
	var req service.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// Anonymous submissions are allowed; the reporter name doubles as actor.
	actor := req.ReporterName
	if c.Locals("user_name") != nil {
		actor = getUserName(c)
	}

	ticket, err := h.service.Create(&req, actor)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Ticket created", "data": ticket})
}

// GetTickets lists tickets, optionally narrowed by a created_at window
// and a case-insensitive substring search.
// GET /api/v1/tickets?from=2026-01-01&to=2026-01-31&q=printer
func (h *TicketHandler) GetTickets(c *fiber.Ctx) error {
	var filter repository.TicketFilter

	if v := c.Query("from"); v != "" {
		t, err := timeutil.ParseDB(v + " 00:00:00")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid from date, use YYYY-MM-DD"})
		}
		start, _ := timeutil.DayWindow(t)
		filter.From = &start
	}
	if v := c.Query("to"); v != "" {
		t, err := timeutil.ParseDB(v + " 00:00:00")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid to date, use YYYY-MM-DD"})
		}
		// End day is inclusive: take the exclusive upper bound of its window.
		_, end := timeutil.DayWindow(t)
		filter.To = &end
	}
	filter.Search = c.Query("q")

	tickets, err := h.service.List(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tickets)
}

// GetTicket returns a single ticket.
// GET /api/v1/tickets/:id
func (h *TicketHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ticket ID"})
	}

	ticket, err := h.service.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ticket)
}

type updateStatusRequest struct {
	Status model.TicketStatus `json:"status"`
}

// UpdateTicketStatus overwrites the status field.
// PUT /api/v1/tickets/:id/status
func (h *TicketHandler) UpdateTicketStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ticket ID"})
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	ticket, err := h.service.UpdateStatus(id, req.Status, getUserName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": ticket})
}

// DeleteTicket hard-deletes a ticket.
// DELETE /api/v1/tickets/:id
func (h *TicketHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ticket ID"})
	}

	if err := h.service.Delete(id, getUserName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ticket deleted"})
}
