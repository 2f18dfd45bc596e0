package handler

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/service"
	"go-helpdesk-api/pkg/timeutil"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	ticketService    service.TicketService
	inventoryService service.InventoryService
}

func NewExportHandler(ticketService service.TicketService, inventoryService service.InventoryService) *ExportHandler {
	return &ExportHandler{
		ticketService:    ticketService,
		inventoryService: inventoryService,
	}
}

// ExportTickets streams the ticket table as CSV
// GET /api/v1/export/tickets
func (h *ExportHandler) ExportTickets(c *fiber.Ctx) error {
	tickets, err := h.ticketService.List(repository.TicketFilter{})
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "reporter_name", "branch", "description", "priority", "status", "created_at", "resolved_at"})
	for _, t := range tickets {
		resolvedAt := ""
		if t.ResolvedAt != nil {
			resolvedAt = timeutil.FormatDB(*t.ResolvedAt)
		}
		w.Write([]string{
			t.ID.String(),
			t.ReporterName,
			t.Branch,
			t.Description,
			string(t.Priority),
			string(t.Status),
			timeutil.FormatDB(t.CreatedAt),
			resolvedAt,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="tickets.csv"`)
	return c.Send(buf.Bytes())
}

// ExportStock streams the derived-stock view as CSV
// GET /api/v1/export/stock
func (h *ExportHandler) ExportStock(c *fiber.Ctx) error {
	summaries, err := h.inventoryService.CurrentStock(repository.StockFilter{})
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"part_name", "part_code", "category", "stock"})
	for _, s := range summaries {
		w.Write([]string{s.PartName, s.PartCode, s.Category, strconv.Itoa(s.Stock)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="stock.csv"`)
	return c.Send(buf.Bytes())
}
