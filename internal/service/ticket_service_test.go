package service

import (
	"errors"
	"testing"
	"time"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/notify"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeTicketRepo keeps tickets in a map so the status rules can be tested
// without a database.
type fakeTicketRepo struct {
	tickets map[uuid.UUID]*model.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*model.Ticket)}
}

func (f *fakeTicketRepo) Create(t *model.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	clone := *t
	f.tickets[t.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) FindByID(id uuid.UUID) (*model.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTicketRepo) FindAll(filter repository.TicketFilter) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateStatus(id uuid.UUID, status model.TicketStatus, resolvedAt *time.Time, updatedBy string) (int64, error) {
	t, ok := f.tickets[id]
	if !ok {
		return 0, nil
	}
	t.Status = status
	t.ResolvedAt = resolvedAt
	t.UpdatedBy = updatedBy
	return 1, nil
}

func (f *fakeTicketRepo) Delete(id uuid.UUID) (int64, error) {
	if _, ok := f.tickets[id]; !ok {
		return 0, nil
	}
	delete(f.tickets, id)
	return 1, nil
}

func (f *fakeTicketRepo) CountByStatus() (map[model.TicketStatus]int64, error) {
	out := make(map[model.TicketStatus]int64)
	for _, t := range f.tickets {
		out[t.Status]++
	}
	return out, nil
}

func setupTicketTest(t *testing.T) (TicketService, *fakeTicketRepo) {
	t.Helper()
	hub := ws.NewHub()
	go hub.Run()

	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, hub, notify.Noop(), zap.NewNop())
	return svc, repo
}

func createTicket(t *testing.T, svc TicketService) *model.Ticket {
	t.Helper()
	ticket, err := svc.Create(&CreateTicketRequest{
		ReporterName: "Andi",
		Branch:       "Bandung",
		Description:  "Printer lantai 2 mati",
		Priority:     model.PriorityHigh,
	}, "Andi")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return ticket
}

func TestCreateTicketStartsOpen(t *testing.T) {
	svc, _ := setupTicketTest(t)

	ticket := createTicket(t, svc)
	if ticket.Status != model.StatusOpen {
		t.Errorf("status = %s, want Open", ticket.Status)
	}
	if ticket.ResolvedAt != nil {
		t.Errorf("resolved_at = %v, want nil on new ticket", ticket.ResolvedAt)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _ := setupTicketTest(t)

	cases := []struct {
		name string
		req  CreateTicketRequest
	}{
		{"missing reporter", CreateTicketRequest{Description: "x", Priority: model.PriorityLow}},
		{"missing description", CreateTicketRequest{ReporterName: "Andi", Priority: model.PriorityLow}},
		{"bad priority", CreateTicketRequest{ReporterName: "Andi", Description: "x", Priority: "Urgent"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(&tc.req, "Andi"); !errs.IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestUpdateStatusStampsResolvedAt(t *testing.T) {
	svc, _ := setupTicketTest(t)
	ticket := createTicket(t, svc)

	updated, err := svc.UpdateStatus(ticket.ID, model.StatusSolved, "Teknisi")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.StatusSolved {
		t.Errorf("status = %s, want Solved", updated.Status)
	}
	if updated.ResolvedAt == nil {
		t.Fatal("resolved_at not stamped on Solved")
	}

	// Reopening clears the stamp again.
	reopened, err := svc.UpdateStatus(ticket.ID, model.StatusOpen, "Teknisi")
	if err != nil {
		t.Fatalf("UpdateStatus reopen: %v", err)
	}
	if reopened.ResolvedAt != nil {
		t.Errorf("resolved_at = %v, want nil after reopen", reopened.ResolvedAt)
	}
}

func TestUpdateStatusKeepsOtherFields(t *testing.T) {
	svc, _ := setupTicketTest(t)
	ticket := createTicket(t, svc)

	updated, err := svc.UpdateStatus(ticket.ID, model.StatusInProgress, "Teknisi")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.ReporterName != ticket.ReporterName ||
		updated.Branch != ticket.Branch ||
		updated.Description != ticket.Description ||
		updated.Priority != ticket.Priority {
		t.Errorf("status update touched other fields: %+v", updated)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc, _ := setupTicketTest(t)
	ticket := createTicket(t, svc)

	if _, err := svc.UpdateStatus(ticket.ID, "Done", "Teknisi"); !errs.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestUpdateStatusMissingTicket(t *testing.T) {
	svc, _ := setupTicketTest(t)

	_, err := svc.UpdateStatus(uuid.New(), model.StatusSolved, "Teknisi")
	if !errors.Is(err, errs.ErrTicketNotFound) {
		t.Errorf("got %v, want ErrTicketNotFound", err)
	}
}

func TestDeleteTicket(t *testing.T) {
	svc, _ := setupTicketTest(t)
	ticket := createTicket(t, svc)

	if err := svc.Delete(ticket.ID, "Admin"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ticket.ID); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Errorf("Get after delete: got %v, want ErrTicketNotFound", err)
	}
	if _, err := svc.UpdateStatus(ticket.ID, model.StatusClosed, "Admin"); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Errorf("UpdateStatus after delete: got %v, want ErrTicketNotFound", err)
	}
	if err := svc.Delete(ticket.ID, "Admin"); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Errorf("second delete: got %v, want ErrTicketNotFound", err)
	}
}
