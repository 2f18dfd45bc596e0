package model

import "time"

type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"
	DirectionOut MovementDirection = "OUT"
)

func (d MovementDirection) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

type MovementState string

const (
	// StatePending excludes the row from stock math until approval.
	StatePending MovementState = "PENDING"
	// StateApproved is terminal; there is no way back to PENDING.
	StateApproved MovementState = "APPROVED"
)

// Movement is one row in the sparepart ledger: a signed quantity delta for a
// part type. The ledger is append-mostly; stock is never stored on a part
// record, it is derived by summing approved deltas per part key.
type Movement struct {
	BaseModel
	PartName string `gorm:"type:varchar(255);not null;index:idx_part_key,priority:1" json:"part_name" validate:"required"`
	PartCode string `gorm:"type:varchar(100);not null;index:idx_part_key,priority:2" json:"part_code" validate:"required"`
	Category string `gorm:"type:varchar(50);not null;index:idx_part_key,priority:3" json:"category" validate:"required"`

	// Quantity is the signed delta: positive for IN, negative for OUT.
	Quantity  int               `gorm:"not null" json:"quantity" validate:"required"`
	Direction MovementDirection `gorm:"type:varchar(5);not null" json:"direction" validate:"required,oneof=IN OUT"`
	State     MovementState     `gorm:"type:varchar(10);not null;index" json:"state"`

	// Actor is whatever identity string the session layer supplied; the
	// ledger records it verbatim and does not verify it.
	Actor string `gorm:"type:varchar(255)" json:"actor"`
	Note  string `gorm:"type:text" json:"note"`

	ApprovedBy *string    `gorm:"type:varchar(255)" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
}

func (Movement) TableName() string {
	return "movements"
}

// PartKey identifies a physical part type. Records repeat the triple instead
// of referencing a part master, matching the legacy schema.
type PartKey struct {
	PartName string `json:"part_name"`
	PartCode string `json:"part_code"`
	Category string `json:"category"`
}

func (m *Movement) Key() PartKey {
	return PartKey{PartName: m.PartName, PartCode: m.PartCode, Category: m.Category}
}

// StockLevel is the incrementally maintained on-hand view per part key.
// It is only ever written inside the approve/delete transaction, under a row
// lock, and can always be rebuilt from the approved movement sum.
type StockLevel struct {
	PartName  string    `gorm:"type:varchar(255);primaryKey" json:"part_name"`
	PartCode  string    `gorm:"type:varchar(100);primaryKey" json:"part_code"`
	Category  string    `gorm:"type:varchar(50);primaryKey" json:"category"`
	OnHand    int       `gorm:"not null;default:0" json:"on_hand"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StockLevel) TableName() string {
	return "stock_levels"
}

// StockSummary is one row of the derived-stock view served to clients.
type StockSummary struct {
	PartKey
	Stock int `json:"stock"`
}
