package entity

import (
	"fmt"
	"time"
)

// ItemKind discriminates the SKU namespaces tracked by the ledger.
const (
	ItemKindProduct = "PRODUCT"
	ItemKindSpare   = "SPARE"
)

// Stock movement direction
const (
	StockIn  = "IN"
	StockOut = "OUT"
)

// Balance is the full per-warehouse quantity snapshot carried on every ledger
// entry and mirrored into the summary row.
type Balance struct {
	TotalQty float64 `json:"total_qty" gorm:"type:decimal(12,4);not null;default:0"`
	DelhiQty float64 `json:"delhi_qty" gorm:"type:decimal(12,4);not null;default:0"`
	SouthQty float64 `json:"south_qty" gorm:"type:decimal(12,4);not null;default:0"`
}

// Available returns the quantity available in the given godown.
func (b Balance) Available(g Godown) float64 {
	if g == GodownDelhi {
		return b.DelhiQty
	}
	return b.SouthQty
}

// Apply returns the balance after moving qty in the given direction through
// the given godown. It fails if any resulting column would go negative, so a
// ledger chain built exclusively through Apply can never hold a negative
// balance.
func (b Balance) Apply(g Godown, qty float64, direction string) (Balance, error) {
	if qty <= 0 {
		return Balance{}, fmt.Errorf("quantity must be positive")
	}
	next := b
	delta := qty
	if direction == StockOut {
		delta = -qty
	}
	next.TotalQty += delta
	switch g {
	case GodownDelhi:
		next.DelhiQty += delta
	case GodownSouth:
		next.SouthQty += delta
	default:
		return Balance{}, fmt.Errorf("unknown godown %q", g)
	}
	if next.TotalQty < 0 || next.DelhiQty < 0 || next.SouthQty < 0 {
		return Balance{}, fmt.Errorf("movement would drive balance negative")
	}
	return next, nil
}

// StockLedgerEntry is one append-only stock movement. The embedded Balance is
// the snapshot immediately after this entry is applied; entries for a SKU
// ordered by created_at form a chain where each snapshot equals the previous
// one adjusted by this entry's signed quantity. Rows are created only by the
// movement engine and never mutated.
type StockLedgerEntry struct {
	ID         string  `json:"id" gorm:"primaryKey;type:uuid"`
	ItemKind   string  `json:"item_kind" gorm:"size:10;not null;index:idx_ledger_item"`
	ItemCode   string  `json:"item_code" gorm:"size:64;not null;index:idx_ledger_item"`
	Quantity   float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Direction  string  `json:"stock_status" gorm:"column:stock_status;size:5;not null"`
	Godown     Godown  `json:"godown" gorm:"size:10;not null"`
	GodownName string  `json:"godown_name" gorm:"size:100"`

	Balance `gorm:"embedded"`

	RefType   string    `json:"ref_type" gorm:"size:20"` // DISPATCH, PRODUCTION, PURCHASE, ADJUST
	RefID     string    `json:"ref_id" gorm:"size:64"`
	RefCode   string    `json:"ref_code" gorm:"size:64"`
	Notes     string    `json:"notes" gorm:"type:text"`
	AddedBy   string    `json:"added_by" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (StockLedgerEntry) TableName() string {
	return "stock_ledger"
}

// StockSummary is the denormalized single-row-per-SKU projection of the
// ledger. It always equals the balance snapshot of the SKU's most recent
// ledger entry and is updated only alongside a ledger append, inside the same
// transaction.
type StockSummary struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid"`
	ItemKind string `json:"item_kind" gorm:"size:10;not null;uniqueIndex:idx_summary_item"`
	ItemCode string `json:"item_code" gorm:"size:64;not null;uniqueIndex:idx_summary_item"`

	Balance `gorm:"embedded"`

	LastQty    float64   `json:"last_updated_quantity" gorm:"type:decimal(12,4);default:0"`
	LastStatus string    `json:"last_status" gorm:"size:5"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (StockSummary) TableName() string {
	return "stock_summaries"
}
