package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/config"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// Services is the business-logic collection, wired once at startup.
type Services struct {
	Auth       *AuthService
	Catalog    *CatalogService
	Stock      *StockService
	Production *ProductionService
	Bom        *BomService
	Dispatch   *DispatchService
	Request    *RequestService
}

// NewServices wires the business layer. notifyTo is the recipient list for
// operational mails (dispatch confirmations, new requests).
func NewServices(repos *repository.Repositories, cfg *config.Config, rdb *redis.Client,
	fileStore *FileStore, mailer *Mailer, notifyTo []string, log *zap.Logger) *Services {
	stockSvc := NewStockService(repos.Stock)
	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg.JWT),
		Catalog:    NewCatalogService(repos.Catalog, fileStore),
		Stock:      stockSvc,
		Production: NewProductionService(repos.Production, repos.Bom, repos.Catalog, repos.Stock, stockSvc),
		Bom:        NewBomService(repos.Bom, repos.Production, repos.Catalog),
		Dispatch:   NewDispatchService(repos.Dispatch, stockSvc, fileStore, mailer, notifyTo, log),
		Request:    NewRequestService(repos.Request, repos.Catalog, fileStore, mailer, notifyTo, log),
	}
}
