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

// ProductionService issues components against a production order's frozen
// BOM snapshot and keeps the weighted completion percentage in step with the
// issuance log.
type ProductionService struct {
	prodRepo    *repository.ProductionRepository
	bomRepo     *repository.BomRepository
	catalogRepo *repository.CatalogRepository
	stockRepo   *repository.StockRepository
	stockSvc    *StockService
}

func NewProductionService(prodRepo *repository.ProductionRepository, bomRepo *repository.BomRepository,
	catalogRepo *repository.CatalogRepository, stockRepo *repository.StockRepository, stockSvc *StockService) *ProductionService {
	return &ProductionService{
		prodRepo:    prodRepo,
		bomRepo:     bomRepo,
		catalogRepo: catalogRepo,
		stockRepo:   stockRepo,
		stockSvc:    stockSvc,
	}
}

// WeightedProgress computes the 0-100 completion percentage of a production
// order: for every snapshot line, weight_percent scaled by the issued
// fraction, capped at the line's requirement. Lines with a zero requirement
// contribute nothing. The result is a pure function of the snapshot and the
// issuance totals, so it can always be recomputed from the log.
func WeightedProgress(components []entity.ProductionComponent, issued map[string]float64) float64 {
	var progress float64
	for _, c := range components {
		if c.QtyInProduct <= 0 {
			continue
		}
		ratio := issued[c.SpareCode] / c.QtyInProduct
		if ratio > 1 {
			ratio = 1
		}
		progress += c.WeightPercent * ratio
	}
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return progress
}

// StatusForProgress derives the order status from its progress.
func StatusForProgress(progress float64) string {
	switch {
	case progress >= 100:
		return entity.ProductionCompleted
	case progress > 0:
		return entity.ProductionInProcess
	default:
		return entity.ProductionPlanned
	}
}

type CreateProductionRequest struct {
	ProductCode string `json:"product_code" binding:"required"`
	Notes       string `json:"notes"`
}

// Create opens a production order and freezes the product's active master
// BOM into the order's component snapshot. Later master edits do not touch
// the order unless adopted through the reconciliation flow.
func (s *ProductionService) Create(req CreateProductionRequest, userID string) (*entity.ProductionOrder, error) {
	if _, err := s.catalogRepo.GetProduct(req.ProductCode); err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("product %s not found", req.ProductCode)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	master, err := s.bomRepo.GetActive(s.bomRepo.DB(), req.ProductCode)
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("load master bom: %w", err)
	}

	now := time.Now()
	order := &entity.ProductionOrder{
		ID:          uuid.New().String(),
		ProductCode: req.ProductCode,
		Status:      entity.ProductionPlanned,
		Notes:       req.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if master != nil {
		order.Components = snapshotFromMaster(order.ID, master.Items)
	}

	if err := s.prodRepo.Create(order); err != nil {
		return nil, fmt.Errorf("create production: %w", err)
	}
	return order, nil
}

func snapshotFromMaster(productionID string, items []entity.BomItem) []entity.ProductionComponent {
	comps := make([]entity.ProductionComponent, 0, len(items))
	now := time.Now()
	for _, item := range items {
		comps = append(comps, entity.ProductionComponent{
			ID:            uuid.New().String(),
			ProductionID:  productionID,
			SpareCode:     item.SpareCode,
			QtyInProduct:  item.QtyInProduct,
			WeightPercent: item.WeightPercent,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return comps
}

// resolveComponents returns the order's frozen snapshot. Orders created
// before snapshots existed have no component rows; for those the active
// master BOM is copied in once and cached, so every later read sees a frozen
// snapshot like any other order.
func (s *ProductionService) resolveComponents(tx *gorm.DB, order *entity.ProductionOrder) ([]entity.ProductionComponent, error) {
	if len(order.Components) > 0 {
		return order.Components, nil
	}
	master, err := s.bomRepo.GetActive(tx, order.ProductCode)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("no BOM defined for product %s", order.ProductCode)
		}
		return nil, fmt.Errorf("load master bom: %w", err)
	}
	comps := snapshotFromMaster(order.ID, master.Items)
	if err := s.prodRepo.CreateComponents(tx, comps); err != nil {
		return nil, fmt.Errorf("cache bom snapshot: %w", err)
	}
	order.Components = comps
	return comps, nil
}

type IssueRequest struct {
	ProductionID string  `json:"production_id" binding:"required"`
	ProductCode  string  `json:"product_code"`
	SpareCode    string  `json:"spare_id" binding:"required"`
	Qty          float64 `json:"qty" binding:"required,gte=1"`
	Godown       string  `json:"warehouse" binding:"required"`
	Assembly     string  `json:"assembly"`
}

type IssueResult struct {
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// Issue records a component issuance against a production order. All
// validation happens before any write; on any failure the transaction rolls
// back whole, leaving no ledger entry, no issuance row and no progress
// change.
func (s *ProductionService) Issue(req IssueRequest, userID string) (*IssueResult, error) {
	if req.Qty < 1 {
		return nil, apierror.Validation("qty must be at least 1")
	}
	if req.Godown == "" {
		return nil, apierror.Validation("warehouse is required")
	}
	godown, err := entity.ParseGodown(req.Godown)
	if err != nil {
		return nil, apierror.Validation("%s", err.Error())
	}

	var result IssueResult
	err = s.prodRepo.DB().Transaction(func(tx *gorm.DB) error {
		order, err := s.prodRepo.GetForUpdate(tx, req.ProductionID)
		if err != nil {
			if err == repository.ErrNotFound {
				return apierror.NotFound("production %s not found", req.ProductionID)
			}
			return fmt.Errorf("load production: %w", err)
		}
		if req.ProductCode != "" && req.ProductCode != order.ProductCode {
			return apierror.Validation("product %s does not match production %s", req.ProductCode, order.ID)
		}

		comps, err := s.resolveComponents(tx, order)
		if err != nil {
			return err
		}

		var comp *entity.ProductionComponent
		for i := range comps {
			if comps[i].SpareCode == req.SpareCode {
				comp = &comps[i]
				break
			}
		}
		if comp == nil {
			return apierror.Validation("spare %s is not part of this production's BOM", req.SpareCode)
		}

		// Availability first, from the summary, so the operator sees a stock
		// problem before an over-issuance one.
		summary, err := s.stockRepo.GetSummary(entity.ItemKindSpare, req.SpareCode)
		if err != nil {
			return fmt.Errorf("read stock summary: %w", err)
		}
		var available entity.Balance
		if summary != nil {
			available = summary.Balance
		}
		if available.Available(godown) < req.Qty {
			return apierror.InsufficientStock(req.SpareCode, req.Godown, req.Qty, available.Available(godown))
		}
		if available.TotalQty < req.Qty {
			return apierror.InsufficientStock(req.SpareCode, "total", req.Qty, available.TotalQty)
		}

		issued, err := s.prodRepo.SumIssued(tx, order.ID)
		if err != nil {
			return fmt.Errorf("sum issued: %w", err)
		}
		remaining := comp.QtyInProduct - issued[req.SpareCode]
		if req.Qty > remaining {
			return apierror.OverIssuance(req.SpareCode, remaining)
		}

		issue := &entity.BomIssue{
			ID:           uuid.New().String(),
			ProductionID: order.ID,
			SpareCode:    req.SpareCode,
			QtyUsed:      req.Qty,
			Godown:       godown,
			GodownName:   req.Godown,
			Assembly:     req.Assembly,
			CreatedBy:    userID,
			CreatedAt:    time.Now(),
		}
		if err := s.prodRepo.CreateIssue(tx, issue); err != nil {
			return fmt.Errorf("record issuance: %w", err)
		}

		if _, err := s.stockSvc.ApplyTx(tx, MovementRequest{
			ItemKind:  entity.ItemKindSpare,
			ItemCode:  req.SpareCode,
			Godown:    req.Godown,
			Quantity:  req.Qty,
			Direction: entity.StockOut,
			RefType:   "PRODUCTION",
			RefID:     order.ID,
			RefCode:   order.ProductCode,
			Notes:     fmt.Sprintf("issued to production %s", order.ID),
		}, userID); err != nil {
			return err
		}

		issued[req.SpareCode] += req.Qty
		order.ProgressPercent = WeightedProgress(comps, issued)
		order.Status = StatusForProgress(order.ProgressPercent)
		order.UpdatedAt = time.Now()
		if err := s.prodRepo.Update(tx, order); err != nil {
			return fmt.Errorf("update production: %w", err)
		}

		result = IssueResult{Progress: order.ProgressPercent, Status: order.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ComponentDetail is one snapshot line enriched for display.
type ComponentDetail struct {
	SpareCode     string  `json:"spare_id"`
	SpareName     string  `json:"spare_name"`
	ImagePath     string  `json:"image_path"`
	QtyInProduct  float64 `json:"qty_in_product"`
	WeightPercent float64 `json:"weight_percent"`
	UsedQty       float64 `json:"used_qty"`
	RemainingQty  float64 `json:"remaining_qty"`
	TotalQty      float64 `json:"available_total"`
	DelhiQty      float64 `json:"available_delhi"`
	SouthQty      float64 `json:"available_south"`
}

type ProductionDetail struct {
	Order        *entity.ProductionOrder `json:"header"`
	Components   []ComponentDetail       `json:"components"`
	Transactions []entity.BomIssue       `json:"transactions"`
	Progress     float64                 `json:"progress"`
}

// GetDetail returns the order header, the enriched snapshot, issuance totals
// and the full history. Progress is recomputed from the log rather than read
// from the stored column, which is only a list-view cache.
func (s *ProductionService) GetDetail(productionID string) (*ProductionDetail, error) {
	order, err := s.prodRepo.GetByID(productionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("production %s not found", productionID)
		}
		return nil, fmt.Errorf("load production: %w", err)
	}

	var comps []entity.ProductionComponent
	if len(order.Components) > 0 {
		comps = order.Components
	} else {
		err = s.prodRepo.DB().Transaction(func(tx *gorm.DB) error {
			c, err := s.resolveComponents(tx, order)
			if err != nil {
				return err
			}
			comps = c
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	issued, err := s.prodRepo.SumIssued(s.prodRepo.DB(), order.ID)
	if err != nil {
		return nil, fmt.Errorf("sum issued: %w", err)
	}

	codes := make([]string, 0, len(comps))
	for _, c := range comps {
		codes = append(codes, c.SpareCode)
	}
	spares, err := s.catalogRepo.SparesByCodes(codes)
	if err != nil {
		return nil, fmt.Errorf("load spares: %w", err)
	}

	details := make([]ComponentDetail, 0, len(comps))
	for _, c := range comps {
		d := ComponentDetail{
			SpareCode:     c.SpareCode,
			QtyInProduct:  c.QtyInProduct,
			WeightPercent: c.WeightPercent,
			UsedQty:       issued[c.SpareCode],
			RemainingQty:  c.QtyInProduct - issued[c.SpareCode],
		}
		if sp, ok := spares[c.SpareCode]; ok {
			d.SpareName = sp.Name
			d.ImagePath = sp.ImagePath
		}
		summary, err := s.stockRepo.GetSummary(entity.ItemKindSpare, c.SpareCode)
		if err != nil {
			return nil, fmt.Errorf("load stock summary for %s: %w", c.SpareCode, err)
		}
		if summary != nil {
			d.TotalQty = summary.TotalQty
			d.DelhiQty = summary.DelhiQty
			d.SouthQty = summary.SouthQty
		}
		details = append(details, d)
	}

	issues, err := s.prodRepo.ListIssues(order.ID)
	if err != nil {
		return nil, fmt.Errorf("load issuance history: %w", err)
	}

	return &ProductionDetail{
		Order:        order,
		Components:   details,
		Transactions: issues,
		Progress:     WeightedProgress(comps, issued),
	}, nil
}

func (s *ProductionService) List(params repository.ProductionListParams) ([]entity.ProductionOrder, int64, error) {
	return s.prodRepo.List(params)
}
