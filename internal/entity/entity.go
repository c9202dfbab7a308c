package entity

import "gorm.io/gorm"

// AutoMigrate migrates all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},

		// Catalog
		&Product{},
		&Spare{},

		// Stock ledger + projection
		&StockLedgerEntry{},
		&StockSummary{},

		// Production
		&ProductionOrder{},
		&ProductionComponent{},
		&BomIssue{},

		// Master BOM
		&BomHeader{},
		&BomItem{},

		// Dispatch
		&DispatchItem{},

		// Procurement requests
		&StockRequest{},
	)
}
