package repository

import "gorm.io/gorm"

// Repositories is the data-access collection.
type Repositories struct {
	User       *UserRepository
	Catalog    *CatalogRepository
	Stock      *StockRepository
	Production *ProductionRepository
	Bom        *BomRepository
	Dispatch   *DispatchRepository
	Request    *RequestRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Catalog:    NewCatalogRepository(db),
		Stock:      NewStockRepository(db),
		Production: NewProductionRepository(db),
		Bom:        NewBomRepository(db),
		Dispatch:   NewDispatchRepository(db),
		Request:    NewRequestRepository(db),
	}
}
