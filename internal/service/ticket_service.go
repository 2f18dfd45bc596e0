package service

import (
	"errors"
	"fmt"
	"time"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/notify"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/ws"
	"go-helpdesk-api/pkg/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TicketService interface {
	Create(req *CreateTicketRequest, actor string) (*model.Ticket, error)
	UpdateStatus(id uuid.UUID, newStatus model.TicketStatus, actor string) (*model.Ticket, error)
	Delete(id uuid.UUID, actor string) error
	List(filter repository.TicketFilter) ([]model.Ticket, error)
	Get(id uuid.UUID) (*model.Ticket, error)
}

// CreateTicketRequest comes from the public submission form. The actor is
// taken from the session when present, otherwise the reporter name is used.
type CreateTicketRequest struct {
	ReporterName string               `json:"reporter_name"`
	Branch       string               `json:"branch"`
	Description  string               `json:"description"`
	Priority     model.TicketPriority `json:"priority"`
}

type ticketService struct {
	ticketRepo repository.TicketRepository
	wsHub      *ws.Hub
	notifier   notify.Notifier
	log        *zap.Logger
}

func NewTicketService(ticketRepo repository.TicketRepository, hub *ws.Hub, notifier notify.Notifier, log *zap.Logger) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		wsHub:      hub,
		notifier:   notifier,
		log:        log,
	}
}

func (s *ticketService) Create(req *CreateTicketRequest, actor string) (*model.Ticket, error) {
	// Blank checks live here, at the service boundary. The data layer would
	// happily store blanks, exactly like the source system.
	if req.ReporterName == "" {
		return nil, errs.Validation("reporter_name", "is required")
	}
	if req.Description == "" {
		return nil, errs.Validation("description", "is required")
	}
	if !req.Priority.Valid() {
		return nil, errs.Validation("priority", "must be one of Low, Medium, High")
	}

	ticket := &model.Ticket{
		ReporterName: req.ReporterName,
		Branch:       req.Branch,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       model.StatusOpen,
	}
	ticket.CreatedAt = timeutil.Now()
	ticket.CreatedBy = actor
	ticket.UpdatedBy = actor

	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}

	s.log.Info("ticket created",
		zap.String("id", ticket.ID.String()),
		zap.String("reporter", ticket.ReporterName),
		zap.String("priority", string(ticket.Priority)))

	s.wsHub.Publish("ticket_created", ticket)
	s.notifier.Send("ticket_created",
		fmt.Sprintf("[%s] %s (%s): %s", ticket.Priority, ticket.ReporterName, ticket.Branch, ticket.Description))

	return ticket, nil
}

func (s *ticketService) UpdateStatus(id uuid.UUID, newStatus model.TicketStatus, actor string) (*model.Ticket, error) {
	if !newStatus.Valid() {
		return nil, errs.Validation("status", "must be one of Open, In Progress, Solved, Closed")
	}

	// Solved/Closed stamp resolved_at; moving anywhere else clears it.
	var resolvedAt *time.Time
	if newStatus.IsResolved() {
		now := timeutil.Now()
		resolvedAt = &now
	}

	rows, err := s.ticketRepo.UpdateStatus(id, newStatus, resolvedAt, actor)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errs.ErrTicketNotFound
	}

	ticket, err := s.ticketRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}

	s.wsHub.Publish("ticket_status_updated", ticket)
	if newStatus.IsResolved() && ticket.ResolvedAt != nil {
		s.notifier.Send("ticket_resolved",
			fmt.Sprintf("Ticket from %s marked %s by %s at %s",
				ticket.ReporterName, newStatus, actor, timeutil.FormatDisplay(*ticket.ResolvedAt)))
	}

	return ticket, nil
}

func (s *ticketService) Delete(id uuid.UUID, actor string) error {
	rows, err := s.ticketRepo.Delete(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.ErrTicketNotFound
	}

	s.log.Info("ticket deleted", zap.String("id", id.String()), zap.String("by", actor))
	s.wsHub.Publish("ticket_deleted", eventMap{"id": id})
	return nil
}

func (s *ticketService) List(filter repository.TicketFilter) ([]model.Ticket, error) {
	return s.ticketRepo.FindAll(filter)
}

func (s *ticketService) Get(id uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// eventMap keeps event payloads terse.
type eventMap = map[string]interface{}
