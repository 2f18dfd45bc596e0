package repository

import (
	"time"

	"go-helpdesk-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketFilter narrows List results. Zero value means everything.
type TicketFilter struct {
	From   *time.Time // created_at window start (inclusive)
	To     *time.Time // created_at window end (exclusive)
	Search string     // case-insensitive substring across displayed columns
}

type TicketRepository interface {
	Create(ticket *model.Ticket) error
	FindByID(id uuid.UUID) (*model.Ticket, error)
	FindAll(filter TicketFilter) ([]model.Ticket, error)
	// UpdateStatus overwrites status and resolved_at, returning the number
	// of rows touched so the caller can surface not-found.
	UpdateStatus(id uuid.UUID, status model.TicketStatus, resolvedAt *time.Time, updatedBy string) (int64, error)
	// Delete hard-deletes the row, returning rows affected.
	Delete(id uuid.UUID) (int64, error)
	CountByStatus() (map[model.TicketStatus]int64, error)
}

type ticketRepo struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) TicketRepository {
	return &ticketRepo{db}
}

func (r *ticketRepo) Create(ticket *model.Ticket) error {
	return translate("ticket create", r.db.Create(ticket).Error)
}

func (r *ticketRepo) FindByID(id uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.First(&ticket, "id = ?", id).Error; err != nil {
		return nil, translate("ticket find", err)
	}
	return &ticket, nil
}

func (r *ticketRepo) FindAll(filter TicketFilter) ([]model.Ticket, error) {
	q := r.db.Model(&model.Ticket{})

	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"reporter_name ILIKE ? OR branch ILIKE ? OR description ILIKE ? OR status ILIKE ? OR priority ILIKE ?",
			like, like, like, like, like,
		)
	}

	var tickets []model.Ticket
	if err := q.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, translate("ticket list", err)
	}
	return tickets, nil
}

func (r *ticketRepo) UpdateStatus(id uuid.UUID, status model.TicketStatus, resolvedAt *time.Time, updatedBy string) (int64, error) {
	res := r.db.Model(&model.Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
			"updated_by":  updatedBy,
		})
	return res.RowsAffected, translate("ticket update status", res.Error)
}

// Delete is a hard delete: the row is gone, not soft-deleted. That matches
// the admin delete action of the source system.
func (r *ticketRepo) Delete(id uuid.UUID) (int64, error) {
	res := r.db.Unscoped().Delete(&model.Ticket{}, "id = ?", id)
	return res.RowsAffected, translate("ticket delete", res.Error)
}

func (r *ticketRepo) CountByStatus() (map[model.TicketStatus]int64, error) {
	rows, err := r.db.Model(&model.Ticket{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Rows()
	if err != nil {
		return nil, translate("ticket count", err)
	}
	defer rows.Close()

	counts := make(map[model.TicketStatus]int64)
	for rows.Next() {
		var status model.TicketStatus
		var total int64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, translate("ticket count", err)
		}
		counts[status] = total
	}
	return counts, nil
}
