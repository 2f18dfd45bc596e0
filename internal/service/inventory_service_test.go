package service

import (
	"errors"
	"sync"
	"testing"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/notify"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/testutil"
	"go-helpdesk-api/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupInventoryTest(t *testing.T) (InventoryService, repository.MovementRepository, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	hub := ws.NewHub()
	go hub.Run()

	repo := repository.NewMovementRepo(db)
	svc := NewInventoryService(repo, db, hub, notify.Noop(), zap.NewNop())
	return svc, repo, db
}

func record(t *testing.T, svc InventoryService, direction model.MovementDirection, qty int) *model.Movement {
	t.Helper()
	m, err := svc.RecordMovement(&RecordMovementRequest{
		PartName:  "RAM DDR4 8GB",
		PartCode:  "RAM-8G-01",
		Category:  "Memory",
		Quantity:  qty,
		Direction: direction,
		Note:      "test",
	}, "Budi")
	if err != nil {
		t.Fatalf("RecordMovement: %v", err)
	}
	return m
}

func TestRecordMovementStartsPending(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	m := record(t, svc, model.DirectionIn, 10)
	if m.State != model.StatePending {
		t.Errorf("state = %s, want PENDING", m.State)
	}
	if m.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", m.Quantity)
	}

	out := record(t, svc, model.DirectionOut, 3)
	if out.Quantity != -3 {
		t.Errorf("outbound quantity = %d, want -3", out.Quantity)
	}

	// Pending rows must not count toward stock.
	stock, err := svc.CurrentStock(repository.StockFilter{})
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if len(stock) != 0 {
		t.Errorf("pending rows leaked into stock: %+v", stock)
	}
}

func TestRecordMovementValidation(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	_, err := svc.RecordMovement(&RecordMovementRequest{
		PartCode: "X", Category: "Y", Quantity: 1, Direction: model.DirectionIn,
	}, "Budi")
	if !errs.IsValidation(err) {
		t.Errorf("missing part_name: got %v, want validation error", err)
	}

	_, err = svc.RecordMovement(&RecordMovementRequest{
		PartName: "X", PartCode: "Y", Category: "Z", Quantity: 0, Direction: model.DirectionIn,
	}, "Budi")
	if !errs.IsValidation(err) {
		t.Errorf("zero quantity: got %v, want validation error", err)
	}

	_, err = svc.RecordMovement(&RecordMovementRequest{
		PartName: "X", PartCode: "Y", Category: "Z", Quantity: 1, Direction: "SIDEWAYS",
	}, "Budi")
	if !errs.IsValidation(err) {
		t.Errorf("bad direction: got %v, want validation error", err)
	}
}

func TestApproveAppliesDelta(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	in := record(t, svc, model.DirectionIn, 10)
	approved, err := svc.Approve(in.ID, "Siti")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.State != model.StateApproved {
		t.Errorf("state = %s, want APPROVED", approved.State)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != "Siti" {
		t.Errorf("approved_by = %v, want Siti", approved.ApprovedBy)
	}

	stock, err := svc.CurrentStock(repository.StockFilter{})
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if len(stock) != 1 || stock[0].Stock != 10 {
		t.Fatalf("stock = %+v, want one row with 10", stock)
	}

	out := record(t, svc, model.DirectionOut, 4)
	if _, err := svc.Approve(out.ID, "Siti"); err != nil {
		t.Fatalf("Approve out: %v", err)
	}

	stock, _ = svc.CurrentStock(repository.StockFilter{})
	if len(stock) != 1 || stock[0].Stock != 6 {
		t.Fatalf("stock after out = %+v, want 6", stock)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	m := record(t, svc, model.DirectionIn, 5)
	if _, err := svc.Approve(m.ID, "Siti"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := svc.Approve(m.ID, "Siti"); err != nil {
		t.Fatalf("second approve: %v", err)
	}

	stock, _ := svc.CurrentStock(repository.StockFilter{})
	if len(stock) != 1 || stock[0].Stock != 5 {
		t.Fatalf("stock = %+v, want 5 after double approve", stock)
	}
}

// countingNotifier records every Send so tests can assert delivery counts.
type countingNotifier struct {
	mu   sync.Mutex
	sent int
}

func (c *countingNotifier) Send(event, text string) {
	c.mu.Lock()
	c.sent++
	c.mu.Unlock()
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

func TestReapproveSendsNoSecondNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	notifier := &countingNotifier{}
	repo := repository.NewMovementRepo(db)
	svc := NewInventoryService(repo, db, hub, notifier, zap.NewNop())

	m, err := svc.RecordMovement(&RecordMovementRequest{
		PartName: "RAM DDR4 8GB", PartCode: "RAM-8G-01", Category: "Memory",
		Quantity: 5, Direction: model.DirectionIn,
	}, "Budi")
	if err != nil {
		t.Fatalf("RecordMovement: %v", err)
	}

	if _, err := svc.Approve(m.ID, "Siti"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := svc.Approve(m.ID, "Siti"); err != nil {
		t.Fatalf("second approve: %v", err)
	}

	if got := notifier.count(); got != 1 {
		t.Errorf("webhook sent %d times, want 1: re-approve must stay silent", got)
	}
}

func TestApproveRejectsOversell(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	in := record(t, svc, model.DirectionIn, 3)
	if _, err := svc.Approve(in.ID, "Siti"); err != nil {
		t.Fatalf("approve in: %v", err)
	}

	out := record(t, svc, model.DirectionOut, 5)
	_, err := svc.Approve(out.ID, "Siti")
	if !errors.Is(err, errs.ErrInsufficientStock) {
		t.Fatalf("oversell approve: got %v, want ErrInsufficientStock", err)
	}

	// The rejected row stays pending and stock is untouched.
	m, err := svc.GetMovement(out.ID)
	if err != nil {
		t.Fatalf("GetMovement: %v", err)
	}
	if m.State != model.StatePending {
		t.Errorf("rejected row state = %s, want PENDING", m.State)
	}
	stock, _ := svc.CurrentStock(repository.StockFilter{})
	if len(stock) != 1 || stock[0].Stock != 3 {
		t.Fatalf("stock = %+v, want 3", stock)
	}
}

func TestApproveMissingMovement(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	_, err := svc.Approve(uuid.New(), "Siti")
	if !errors.Is(err, errs.ErrMovementNotFound) {
		t.Errorf("got %v, want ErrMovementNotFound", err)
	}
}

func TestDeleteApprovedReversesView(t *testing.T) {
	svc, repo, _ := setupInventoryTest(t)

	in := record(t, svc, model.DirectionIn, 8)
	if _, err := svc.Approve(in.ID, "Siti"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := svc.Delete(in.ID, "Siti"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Derived stock and the materialized view must both drop the delta.
	stock, _ := svc.CurrentStock(repository.StockFilter{})
	for _, s := range stock {
		if s.Stock != 0 {
			t.Errorf("stock = %+v, want zero after delete", stock)
		}
	}

	if err := repo.RebuildStockLevels(); err != nil {
		t.Fatalf("RebuildStockLevels: %v", err)
	}

	if err := svc.Delete(in.ID, "Siti"); !errors.Is(err, errs.ErrMovementNotFound) {
		t.Errorf("second delete: got %v, want ErrMovementNotFound", err)
	}
}

func TestDeletePendingLeavesStockAlone(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	in := record(t, svc, model.DirectionIn, 8)
	if _, err := svc.Approve(in.ID, "Siti"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	pending := record(t, svc, model.DirectionOut, 2)

	if err := svc.Delete(pending.ID, "Siti"); err != nil {
		t.Fatalf("Delete pending: %v", err)
	}

	stock, _ := svc.CurrentStock(repository.StockFilter{})
	if len(stock) != 1 || stock[0].Stock != 8 {
		t.Fatalf("stock = %+v, want 8 untouched", stock)
	}
}

func TestCurrentStockGroupsByTriple(t *testing.T) {
	svc, _, _ := setupInventoryTest(t)

	parts := []RecordMovementRequest{
		{PartName: "RAM DDR4 8GB", PartCode: "RAM-8G-01", Category: "Memory", Quantity: 5, Direction: model.DirectionIn},
		{PartName: "RAM DDR4 8GB", PartCode: "RAM-8G-02", Category: "Memory", Quantity: 2, Direction: model.DirectionIn},
		{PartName: "SSD 256GB", PartCode: "SSD-256-01", Category: "Storage", Quantity: 7, Direction: model.DirectionIn},
	}
	for i := range parts {
		m, err := svc.RecordMovement(&parts[i], "Budi")
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if _, err := svc.Approve(m.ID, "Siti"); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
	}

	stock, err := svc.CurrentStock(repository.StockFilter{})
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if len(stock) != 3 {
		t.Fatalf("got %d rows, want 3 (same name, different code must not merge)", len(stock))
	}

	filtered, err := svc.CurrentStock(repository.StockFilter{Category: "Storage"})
	if err != nil {
		t.Fatalf("CurrentStock filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Stock != 7 {
		t.Fatalf("filtered = %+v, want one Storage row with 7", filtered)
	}
}
