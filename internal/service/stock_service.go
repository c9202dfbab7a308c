package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// StockService is the stock movement engine. Every balance change in the
// system goes through ApplyTx: it locks the SKU's summary row, baselines from
// the most recent ledger entry, validates availability, appends a ledger row
// and projects the new balances into the summary — all inside the caller's
// transaction, so ledger and summary can never diverge.
type StockService struct {
	repo *repository.StockRepository
}

func NewStockService(repo *repository.StockRepository) *StockService {
	return &StockService{repo: repo}
}

// MovementRequest describes one stock movement.
type MovementRequest struct {
	ItemKind  string  `json:"item_kind" binding:"required"`
	ItemCode  string  `json:"item_code" binding:"required"`
	Godown    string  `json:"godown" binding:"required"` // free-text warehouse name
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	Direction string  `json:"direction" binding:"required"`
	RefType   string  `json:"ref_type"`
	RefID     string  `json:"ref_id"`
	RefCode   string  `json:"ref_code"`
	Notes     string  `json:"notes"`
}

// Apply runs a single movement in its own transaction.
func (s *StockService) Apply(req MovementRequest, userID string) (*entity.StockLedgerEntry, error) {
	var entry *entity.StockLedgerEntry
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		e, err := s.ApplyTx(tx, req, userID)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyTx applies a movement inside an existing transaction. Callers that
// combine a movement with other writes (production issuance, dispatch
// confirmation) use this form so everything commits or rolls back together.
func (s *StockService) ApplyTx(tx *gorm.DB, req MovementRequest, userID string) (*entity.StockLedgerEntry, error) {
	if req.Quantity <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	if req.Direction != entity.StockIn && req.Direction != entity.StockOut {
		return nil, apierror.Validation("direction must be IN or OUT")
	}
	if req.ItemKind != entity.ItemKindProduct && req.ItemKind != entity.ItemKindSpare {
		return nil, apierror.Validation("item_kind must be PRODUCT or SPARE")
	}
	godown, err := entity.ParseGodown(req.Godown)
	if err != nil {
		return nil, apierror.Validation("%s", err.Error())
	}

	// Lock the summary row first; concurrent movements on the same SKU queue
	// up here, so the balance check below can't act on a stale read.
	summary, err := s.repo.LockSummary(tx, req.ItemKind, req.ItemCode)
	if err != nil {
		return nil, fmt.Errorf("lock stock summary: %w", err)
	}

	// Baseline from the ledger chain, not the summary, so the snapshot-chain
	// invariant holds even if the projection was ever out of step.
	last, err := s.repo.LatestEntry(tx, req.ItemKind, req.ItemCode)
	if err != nil {
		return nil, fmt.Errorf("read latest ledger entry: %w", err)
	}
	var baseline entity.Balance
	if last != nil {
		baseline = last.Balance
	}

	if req.Direction == entity.StockOut {
		if avail := baseline.Available(godown); avail < req.Quantity {
			return nil, apierror.InsufficientStock(req.ItemCode, req.Godown, req.Quantity, avail)
		}
		if baseline.TotalQty < req.Quantity {
			return nil, apierror.InsufficientStock(req.ItemCode, "total", req.Quantity, baseline.TotalQty)
		}
	}

	next, err := baseline.Apply(godown, req.Quantity, req.Direction)
	if err != nil {
		return nil, apierror.Validation("%s", err.Error())
	}

	entry := &entity.StockLedgerEntry{
		ID:         uuid.New().String(),
		ItemKind:   req.ItemKind,
		ItemCode:   req.ItemCode,
		Quantity:   req.Quantity,
		Direction:  req.Direction,
		Godown:     godown,
		GodownName: req.Godown,
		Balance:    next,
		RefType:    req.RefType,
		RefID:      req.RefID,
		RefCode:    req.RefCode,
		Notes:      req.Notes,
		AddedBy:    userID,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateEntry(tx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	summary.Balance = next
	summary.LastQty = req.Quantity
	summary.LastStatus = req.Direction
	if err := s.repo.SaveSummary(tx, summary); err != nil {
		return nil, fmt.Errorf("update stock summary: %w", err)
	}

	return entry, nil
}

// WarehouseIn is the direct IN flow used by goods receipt at either godown.
func (s *StockService) WarehouseIn(req MovementRequest, userID string) (*entity.StockLedgerEntry, error) {
	req.Direction = entity.StockIn
	if req.RefType == "" {
		req.RefType = "PURCHASE"
	}
	return s.Apply(req, userID)
}

func (s *StockService) GetSummary(itemKind, itemCode string) (*entity.StockSummary, error) {
	return s.repo.GetSummary(itemKind, itemCode)
}

func (s *StockService) ListSummaries(params repository.SummaryListParams) ([]entity.StockSummary, int64, error) {
	return s.repo.ListSummaries(params)
}

func (s *StockService) ListEntries(params repository.LedgerListParams) ([]entity.StockLedgerEntry, int64, error) {
	return s.repo.ListEntries(params)
}
