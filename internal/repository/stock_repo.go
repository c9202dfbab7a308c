package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// LockSummary fetches the summary row for a SKU with a row-level lock,
// creating a zero row for previously unseen SKUs. The lock is held for the
// rest of the caller's transaction so concurrent movements against the same
// SKU serialize on the check-then-write sequence.
func (r *StockRepository) LockSummary(tx *gorm.DB, itemKind, itemCode string) (*entity.StockSummary, error) {
	summary := entity.StockSummary{
		ID:       uuid.New().String(),
		ItemKind: itemKind,
		ItemCode: itemCode,
	}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_kind = ? AND item_code = ?", itemKind, itemCode).
		FirstOrCreate(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// LatestEntry returns the most recent ledger entry for a SKU, or nil when the
// SKU has no movements yet.
func (r *StockRepository) LatestEntry(tx *gorm.DB, itemKind, itemCode string) (*entity.StockLedgerEntry, error) {
	var e entity.StockLedgerEntry
	err := tx.Where("item_kind = ? AND item_code = ?", itemKind, itemCode).
		Order("created_at DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *StockRepository) CreateEntry(tx *gorm.DB, e *entity.StockLedgerEntry) error {
	return tx.Create(e).Error
}

func (r *StockRepository) SaveSummary(tx *gorm.DB, s *entity.StockSummary) error {
	s.UpdatedAt = time.Now()
	return tx.Save(s).Error
}

// GetSummary reads the current balances for a SKU without taking a lock.
// Returns nil for unseen SKUs (zero baseline).
func (r *StockRepository) GetSummary(itemKind, itemCode string) (*entity.StockSummary, error) {
	var s entity.StockSummary
	err := r.db.Where("item_kind = ? AND item_code = ?", itemKind, itemCode).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type SummaryListParams struct {
	ItemKind string
	Keyword  string
	Page     int
	Size     int
}

func (r *StockRepository) ListSummaries(params SummaryListParams) ([]entity.StockSummary, int64, error) {
	query := r.db.Model(&entity.StockSummary{})
	if params.ItemKind != "" {
		query = query.Where("item_kind = ?", params.ItemKind)
	}
	if params.Keyword != "" {
		query = query.Where("item_code ILIKE ?", "%"+params.Keyword+"%")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.StockSummary
	err := query.Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&items).Error
	return items, total, err
}

type LedgerListParams struct {
	ItemKind string
	ItemCode string
	Page     int
	Size     int
}

func (r *StockRepository) ListEntries(params LedgerListParams) ([]entity.StockLedgerEntry, int64, error) {
	query := r.db.Model(&entity.StockLedgerEntry{})
	if params.ItemKind != "" {
		query = query.Where("item_kind = ?", params.ItemKind)
	}
	if params.ItemCode != "" {
		query = query.Where("item_code = ?", params.ItemCode)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var entries []entity.StockLedgerEntry
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&entries).Error
	return entries, total, err
}

// DB returns the underlying handle for starting transactions.
func (r *StockRepository) DB() *gorm.DB {
	return r.db
}
