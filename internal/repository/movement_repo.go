package repository

import (
	"time"

	"go-helpdesk-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockFilter narrows the derived-stock view. Empty fields match everything.
type StockFilter struct {
	PartName string
	PartCode string
	Category string
}

// MovementSeriesPoint is one day of inbound/outbound totals for the chart.
type MovementSeriesPoint struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// InventoryStats is the dashboard overview block.
type InventoryStats struct {
	PendingApprovals int64 `json:"pending_approvals"`
	DistinctParts    int64 `json:"distinct_parts"`
	TotalMovements   int64 `json:"total_movements"`
}

type MovementRepository interface {
	Create(m *model.Movement) error
	FindByID(id uuid.UUID) (*model.Movement, error)
	FindAll() ([]model.Movement, error)
	FindPending() ([]model.Movement, error)
	CurrentStock(filter StockFilter) ([]model.StockSummary, error)

	// Approval-transaction helpers. They take *gorm.DB so the service can
	// run them inside one transaction block.
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Movement, error)
	MarkApproved(tx *gorm.DB, id uuid.UUID, approvedBy string, at time.Time) error
	LockStockLevel(tx *gorm.DB, key model.PartKey) (*model.StockLevel, error)
	ApplyStockDelta(tx *gorm.DB, key model.PartKey, delta int) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error)

	GetMovementSeries(startDate, endDate time.Time) ([]MovementSeriesPoint, error)
	GetInventoryStats() (*InventoryStats, error)
	RebuildStockLevels() error
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(m *model.Movement) error {
	return translate("movement create", r.db.Create(m).Error)
}

func (r *movementRepo) FindByID(id uuid.UUID) (*model.Movement, error) {
	var m model.Movement
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		return nil, translate("movement find", err)
	}
	return &m, nil
}

func (r *movementRepo) FindAll() ([]model.Movement, error) {
	var movements []model.Movement
	err := r.db.Order("recorded_at DESC").Find(&movements).Error
	return movements, translate("movement list", err)
}

func (r *movementRepo) FindPending() ([]model.Movement, error) {
	var movements []model.Movement
	err := r.db.Where("state = ?", model.StatePending).
		Order("recorded_at ASC").
		Find(&movements).Error
	return movements, translate("movement list pending", err)
}

// CurrentStock is the derived view: SUM of signed quantities over approved
// rows, grouped by the part triple. The ledger is the source of truth; this
// never reads stock_levels.
func (r *movementRepo) CurrentStock(filter StockFilter) ([]model.StockSummary, error) {
	q := r.db.Model(&model.Movement{}).
		Select("part_name, part_code, category, COALESCE(SUM(quantity), 0) as stock").
		Where("state = ?", model.StateApproved)

	if filter.PartName != "" {
		q = q.Where("part_name = ?", filter.PartName)
	}
	if filter.PartCode != "" {
		q = q.Where("part_code = ?", filter.PartCode)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	rows, err := q.Group("part_name, part_code, category").
		Order("part_name ASC, part_code ASC").
		Rows()
	if err != nil {
		return nil, translate("stock aggregate", err)
	}
	defer rows.Close()

	var summaries []model.StockSummary
	for rows.Next() {
		var s model.StockSummary
		if err := rows.Scan(&s.PartName, &s.PartCode, &s.Category, &s.Stock); err != nil {
			return nil, translate("stock aggregate", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (r *movementRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Movement, error) {
	var m model.Movement
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate("movement lock", err)
	}
	return &m, nil
}

func (r *movementRepo) MarkApproved(tx *gorm.DB, id uuid.UUID, approvedBy string, at time.Time) error {
	err := tx.Model(&model.Movement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":       model.StateApproved,
			"approved_by": approvedBy,
			"approved_at": at,
			"updated_by":  approvedBy,
		}).Error
	return translate("movement approve", err)
}

// LockStockLevel upserts the view row for the part and locks it, serializing
// concurrent approvals of the same part.
func (r *movementRepo) LockStockLevel(tx *gorm.DB, key model.PartKey) (*model.StockLevel, error) {
	seed := model.StockLevel{
		PartName: key.PartName,
		PartCode: key.PartCode,
		Category: key.Category,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, translate("stock level seed", err)
	}

	var level model.StockLevel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&level, "part_name = ? AND part_code = ? AND category = ?",
			key.PartName, key.PartCode, key.Category).Error
	if err != nil {
		return nil, translate("stock level lock", err)
	}
	return &level, nil
}

func (r *movementRepo) ApplyStockDelta(tx *gorm.DB, key model.PartKey, delta int) error {
	err := tx.Model(&model.StockLevel{}).
		Where("part_name = ? AND part_code = ? AND category = ?",
			key.PartName, key.PartCode, key.Category).
		Update("on_hand", gorm.Expr("on_hand + ?", delta)).Error
	return translate("stock level update", err)
}

func (r *movementRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Unscoped().Delete(&model.Movement{}, "id = ?", id)
	return res.RowsAffected, translate("movement delete", res.Error)
}

func (r *movementRepo) GetMovementSeries(startDate, endDate time.Time) ([]MovementSeriesPoint, error) {
	rows, err := r.db.Model(&model.Movement{}).
		Select(`
			DATE(recorded_at) as date,
			COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN direction = 'OUT' THEN -quantity ELSE 0 END), 0) as outbound
		`).
		Where("state = ? AND recorded_at BETWEEN ? AND ?", model.StateApproved, startDate, endDate).
		Group("DATE(recorded_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, translate("movement series", err)
	}
	defer rows.Close()

	var results []MovementSeriesPoint
	for rows.Next() {
		var p MovementSeriesPoint
		if err := rows.Scan(&p.Date, &p.Inbound, &p.Outbound); err != nil {
			return nil, translate("movement series", err)
		}
		results = append(results, p)
	}
	return results, nil
}

func (r *movementRepo) GetInventoryStats() (*InventoryStats, error) {
	var stats InventoryStats

	if err := r.db.Model(&model.Movement{}).
		Where("state = ?", model.StatePending).
		Count(&stats.PendingApprovals).Error; err != nil {
		return nil, translate("inventory stats", err)
	}
	if err := r.db.Model(&model.Movement{}).
		Distinct("part_name, part_code, category").
		Count(&stats.DistinctParts).Error; err != nil {
		return nil, translate("inventory stats", err)
	}
	if err := r.db.Model(&model.Movement{}).Count(&stats.TotalMovements).Error; err != nil {
		return nil, translate("inventory stats", err)
	}
	return &stats, nil
}

// RebuildStockLevels reconciles the materialized view from the ledger sum.
// Ops tool: run after a legacy import or if the view is ever suspected stale.
func (r *movementRepo) RebuildStockLevels() error {
	return translate("stock level rebuild", r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM stock_levels").Error; err != nil {
			return err
		}
		return tx.Exec(`
			INSERT INTO stock_levels (part_name, part_code, category, on_hand, updated_at)
			SELECT part_name, part_code, category, COALESCE(SUM(quantity), 0), NOW()
			FROM movements
			WHERE state = ? AND deleted_at IS NULL
			GROUP BY part_name, part_code, category
		`, model.StateApproved).Error
	}))
}
