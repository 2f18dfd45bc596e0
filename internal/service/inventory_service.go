package service

import (
	"errors"
	"fmt"

	"go-helpdesk-api/internal/errs"
	"go-helpdesk-api/internal/ledger"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/notify"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/ws"
	"go-helpdesk-api/pkg/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	RecordMovement(req *RecordMovementRequest, actor string) (*model.Movement, error)
	Approve(id uuid.UUID, approvedBy string) (*model.Movement, error)
	Delete(id uuid.UUID, actor string) error
	CurrentStock(filter repository.StockFilter) ([]model.StockSummary, error)
	ListPending() ([]model.Movement, error)
	ListMovements() ([]model.Movement, error)
	GetMovement(id uuid.UUID) (*model.Movement, error)
}

// RecordMovementRequest is the mutation-request form. Quantity is entered
// positive; the direction decides the sign of the stored delta.
type RecordMovementRequest struct {
	PartName  string                  `json:"part_name"`
	PartCode  string                  `json:"part_code"`
	Category  string                  `json:"category"`
	Quantity  int                     `json:"quantity"`
	Direction model.MovementDirection `json:"direction"`
	Note      string                  `json:"note"`
}

type inventoryService struct {
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	notifier     notify.Notifier
	log          *zap.Logger
}

func NewInventoryService(mRepo repository.MovementRepository, db *gorm.DB, hub *ws.Hub, notifier notify.Notifier, log *zap.Logger) InventoryService {
	return &inventoryService{
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
		notifier:     notifier,
		log:          log,
	}
}

// RecordMovement appends one PENDING row. No stock check happens here: the
// form shows the caller the available amount, but the ledger only enforces
// non-negative levels at approval time.
func (s *inventoryService) RecordMovement(req *RecordMovementRequest, actor string) (*model.Movement, error) {
	if req.PartName == "" {
		return nil, errs.Validation("part_name", "is required")
	}
	if req.PartCode == "" {
		return nil, errs.Validation("part_code", "is required")
	}
	if req.Category == "" {
		return nil, errs.Validation("category", "is required")
	}
	if req.Quantity <= 0 {
		return nil, errs.Validation("quantity", "must be greater than zero")
	}
	if !req.Direction.Valid() {
		return nil, errs.Validation("direction", "must be IN or OUT")
	}

	m := &model.Movement{
		PartName:   req.PartName,
		PartCode:   req.PartCode,
		Category:   req.Category,
		Quantity:   ledger.SignedQuantity(req.Direction, req.Quantity),
		Direction:  req.Direction,
		State:      model.StatePending,
		Actor:      actor,
		Note:       req.Note,
		RecordedAt: timeutil.Now(),
	}
	m.CreatedBy = actor
	m.UpdatedBy = actor

	if err := s.movementRepo.Create(m); err != nil {
		return nil, err
	}

	s.log.Info("movement recorded",
		zap.String("id", m.ID.String()),
		zap.String("part", m.PartCode),
		zap.String("direction", string(m.Direction)),
		zap.Int("quantity", m.Quantity))

	s.wsHub.Publish("movement_recorded", m)
	return m, nil
}

// Approve moves a record PENDING -> APPROVED. The whole thing runs in one
// transaction: the movement row and the part's stock-level row are locked,
// an outbound approval that would drive the level negative is rejected, and
// the delta is applied to the materialized view. Two users approving stock
// for the same part serialize on the row lock, so both can no longer read a
// stale available count.
func (s *inventoryService) Approve(id uuid.UUID, approvedBy string) (*model.Movement, error) {
	var approved *model.Movement
	var alreadyApproved bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := s.movementRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrMovementNotFound
			}
			return err
		}

		// Already approved: harmless no-op, same observable stock.
		if m.State == model.StateApproved {
			approved = m
			alreadyApproved = true
			return nil
		}

		level, err := s.movementRepo.LockStockLevel(tx, m.Key())
		if err != nil {
			return err
		}
		if m.Quantity < 0 && level.OnHand+m.Quantity < 0 {
			return errs.ErrInsufficientStock
		}

		now := timeutil.Now()
		if err := s.movementRepo.MarkApproved(tx, m.ID, approvedBy, now); err != nil {
			return err
		}
		if err := s.movementRepo.ApplyStockDelta(tx, m.Key(), m.Quantity); err != nil {
			return err
		}

		m.State = model.StateApproved
		m.ApprovedBy = &approvedBy
		m.ApprovedAt = &now
		approved = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A no-op re-approve must not re-announce the event.
	if alreadyApproved {
		return approved, nil
	}

	s.log.Info("movement approved",
		zap.String("id", approved.ID.String()),
		zap.String("by", approvedBy))

	s.wsHub.Publish("movement_approved", approved)
	s.notifier.Send("movement_approved",
		fmt.Sprintf("%s approved %+d x %s (%s)", approvedBy, approved.Quantity, approved.PartName, approved.PartCode))

	return approved, nil
}

// Delete hard-deletes a record. It is the escape hatch, not a designed
// operation: deleting an approved row changes derived stock, so the view
// delta is reversed in the same transaction to keep view == ledger sum.
func (s *inventoryService) Delete(id uuid.UUID, actor string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := s.movementRepo.FindForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrMovementNotFound
			}
			return err
		}

		if m.State == model.StateApproved {
			if _, err := s.movementRepo.LockStockLevel(tx, m.Key()); err != nil {
				return err
			}
			if err := s.movementRepo.ApplyStockDelta(tx, m.Key(), -m.Quantity); err != nil {
				return err
			}
		}

		rows, err := s.movementRepo.DeleteTx(tx, m.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errs.ErrMovementNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("movement deleted", zap.String("id", id.String()), zap.String("by", actor))
	s.wsHub.Publish("movement_deleted", eventMap{"id": id})
	return nil
}

func (s *inventoryService) CurrentStock(filter repository.StockFilter) ([]model.StockSummary, error) {
	return s.movementRepo.CurrentStock(filter)
}

func (s *inventoryService) ListPending() ([]model.Movement, error) {
	return s.movementRepo.FindPending()
}

func (s *inventoryService) ListMovements() ([]model.Movement, error) {
	return s.movementRepo.FindAll()
}

func (s *inventoryService) GetMovement(id uuid.UUID) (*model.Movement, error) {
	m, err := s.movementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMovementNotFound
		}
		return nil, err
	}
	return m, nil
}
