package service

import (
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/pkg/timeutil"
)

// DashboardStats is the overview block the landing page renders.
type DashboardStats struct {
	TicketsByStatus map[model.TicketStatus]int64 `json:"tickets_by_status"`
	OpenTickets     int64                        `json:"open_tickets"`
	Inventory       *repository.InventoryStats   `json:"inventory"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetMovementSeries(days int) ([]repository.MovementSeriesPoint, error)
}

type dashboardService struct {
	ticketRepo   repository.TicketRepository
	movementRepo repository.MovementRepository
}

func NewDashboardService(ticketRepo repository.TicketRepository, movementRepo repository.MovementRepository) DashboardService {
	return &dashboardService{
		ticketRepo:   ticketRepo,
		movementRepo: movementRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	byStatus, err := s.ticketRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	inv, err := s.movementRepo.GetInventoryStats()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TicketsByStatus: byStatus,
		OpenTickets:     byStatus[model.StatusOpen] + byStatus[model.StatusInProgress],
		Inventory:       inv,
	}, nil
}

func (s *dashboardService) GetMovementSeries(days int) ([]repository.MovementSeriesPoint, error) {
	// WIB clock so the window lines up with DATE(recorded_at) grouping.
	endDate := timeutil.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.GetMovementSeries(startDate, endDate)
}
