package model

import "time"

type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "In Progress"
	StatusSolved     TicketStatus = "Solved"
	StatusClosed     TicketStatus = "Closed"
)

// IsResolved reports whether the status stamps resolved_at.
func (s TicketStatus) IsResolved() bool {
	return s == StatusSolved || s == StatusClosed
}

// Valid reports membership in the fixed status set. Transitions themselves
// are unconstrained: any status may be overwritten with any other.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusSolved, StatusClosed:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Ticket is one support request from the public submission form.
type Ticket struct {
	BaseModel
	ReporterName string         `gorm:"type:varchar(255);not null" json:"reporter_name" validate:"required"`
	Branch       string         `gorm:"type:varchar(100)" json:"branch"`
	Description  string         `gorm:"type:text;not null" json:"description" validate:"required"`
	Priority     TicketPriority `gorm:"type:varchar(10);not null" json:"priority" validate:"required,oneof=Low Medium High"`
	Status       TicketStatus   `gorm:"type:varchar(20);not null;index" json:"status"`

	// ResolvedAt is stamped when status reaches Solved/Closed and cleared
	// again when the ticket is reopened.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}
