package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubInventoryService struct {
	movement *model.Movement
	stock    []model.StockSummary
	err      error

	lastFilter repository.StockFilter
}

func (s *stubInventoryService) RecordMovement(req *service.RecordMovementRequest, actor string) (*model.Movement, error) {
	return s.movement, s.err
}

func (s *stubInventoryService) Approve(id uuid.UUID, approvedBy string) (*model.Movement, error) {
	return s.movement, s.err
}

func (s *stubInventoryService) Delete(id uuid.UUID, actor string) error {
	return s.err
}

func (s *stubInventoryService) CurrentStock(filter repository.StockFilter) ([]model.StockSummary, error) {
	s.lastFilter = filter
	return s.stock, s.err
}

func (s *stubInventoryService) ListPending() ([]model.Movement, error) {
	return nil, s.err
}

func (s *stubInventoryService) ListMovements() ([]model.Movement, error) {
	return nil, s.err
}

func (s *stubInventoryService) GetMovement(id uuid.UUID) (*model.Movement, error) {
	return s.movement, s.err
}

func inventoryApp(svc service.InventoryService) *fiber.App {
	h := NewInventoryHandler(svc)
	app := fiber.New()
	app.Post("/movements", h.CreateMovement)
	app.Get("/movements", h.GetMovements)
	app.Get("/movements/pending", h.GetPendingMovements)
	app.Get("/movements/:id", h.GetMovement)
	app.Put("/movements/:id/approve", h.ApproveMovement)
	app.Delete("/movements/:id", h.DeleteMovement)
	app.Get("/stock", h.GetStock)
	return app
}

func TestCreateMovementReturns201(t *testing.T) {
	m := &model.Movement{PartName: "RAM", PartCode: "RAM-01", Category: "Memory", Quantity: 5}
	m.ID = uuid.New()
	app := inventoryApp(&stubInventoryService{movement: m})

	body := `{"part_name":"RAM","part_code":"RAM-01","category":"Memory","quantity":5,"direction":"IN"}`
	req := httptest.NewRequest("POST", "/movements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
}

func TestApproveInsufficientStockMapsTo409(t *testing.T) {
	app := inventoryApp(&stubInventoryService{err: errs.ErrInsufficientStock})

	req := httptest.NewRequest("PUT", "/movements/"+uuid.New().String()+"/approve", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestApproveMissingMovementMapsTo404(t *testing.T) {
	app := inventoryApp(&stubInventoryService{err: errs.ErrMovementNotFound})

	req := httptest.NewRequest("PUT", "/movements/"+uuid.New().String()+"/approve", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetStockPassesFilter(t *testing.T) {
	stub := &stubInventoryService{stock: []model.StockSummary{
		{PartKey: model.PartKey{PartName: "RAM", PartCode: "RAM-01", Category: "Memory"}, Stock: 5},
	}}
	app := inventoryApp(stub)

	req := httptest.NewRequest("GET", "/stock?category=Memory&part_code=RAM-01", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if stub.lastFilter.Category != "Memory" || stub.lastFilter.PartCode != "RAM-01" {
		t.Errorf("filter = %+v, want category and part_code forwarded", stub.lastFilter)
	}

	var got []model.StockSummary
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Stock != 5 {
		t.Errorf("body = %+v, want one row with stock 5", got)
	}
}
