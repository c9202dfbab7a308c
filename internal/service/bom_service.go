package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// Change classifications for a snapshot-vs-master comparison.
const (
	BomDiffAdded     = "added"
	BomDiffRemoved   = "removed"
	BomDiffChanged   = "changed"
	BomDiffUnchanged = "unchanged"
)

// BomService owns the master bill of materials and the reconciliation flow
// that lets an in-flight production order adopt a newer master revision.
type BomService struct {
	bomRepo     *repository.BomRepository
	prodRepo    *repository.ProductionRepository
	catalogRepo *repository.CatalogRepository
}

func NewBomService(bomRepo *repository.BomRepository, prodRepo *repository.ProductionRepository,
	catalogRepo *repository.CatalogRepository) *BomService {
	return &BomService{bomRepo: bomRepo, prodRepo: prodRepo, catalogRepo: catalogRepo}
}

func (s *BomService) GetMaster(productCode string) (*entity.BomHeader, error) {
	header, err := s.bomRepo.GetActive(s.bomRepo.DB(), productCode)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("no BOM defined for product %s", productCode)
		}
		return nil, fmt.Errorf("load master bom: %w", err)
	}
	return header, nil
}

type BomLineInput struct {
	SpareCode     string  `json:"spare_id" binding:"required"`
	QtyInProduct  float64 `json:"qty_in_product" binding:"required,gt=0"`
	WeightPercent float64 `json:"weight_percent"`
}

// ReplaceMaster supersedes the product's active BOM with a new revision.
// Weights are normalised to sum to 100 when the caller leaves them all zero.
func (s *BomService) ReplaceMaster(productCode string, lines []BomLineInput, userID string) (*entity.BomHeader, error) {
	if len(lines) == 0 {
		return nil, apierror.Validation("BOM must have at least one line")
	}
	seen := make(map[string]bool, len(lines))
	var weightSum float64
	for _, l := range lines {
		if l.QtyInProduct <= 0 {
			return nil, apierror.Validation("qty_in_product for %s must be positive", l.SpareCode)
		}
		if l.WeightPercent < 0 {
			return nil, apierror.Validation("weight_percent for %s cannot be negative", l.SpareCode)
		}
		if seen[l.SpareCode] {
			return nil, apierror.Validation("duplicate spare %s in BOM", l.SpareCode)
		}
		seen[l.SpareCode] = true
		weightSum += l.WeightPercent
	}
	if _, err := s.catalogRepo.GetProduct(productCode); err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("product %s not found", productCode)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	now := time.Now()
	header := &entity.BomHeader{
		ID:          uuid.New().String(),
		ProductCode: productCode,
		Status:      entity.BomStatusActive,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range lines {
		weight := l.WeightPercent
		if weightSum == 0 {
			weight = 100.0 / float64(len(lines))
		}
		header.Items = append(header.Items, entity.BomItem{
			ID:            uuid.New().String(),
			BomHeaderID:   header.ID,
			SpareCode:     l.SpareCode,
			QtyInProduct:  l.QtyInProduct,
			WeightPercent: weight,
			CreatedAt:     now,
		})
	}
	if err := s.bomRepo.Replace(header); err != nil {
		return nil, fmt.Errorf("replace master bom: %w", err)
	}
	return header, nil
}

// ImportMaster parses an xlsx upload into a master BOM revision. Expected
// columns, first sheet, one header row: spare code, qty per product,
// weight percent (optional).
func (s *BomService) ImportMaster(productCode string, r io.Reader, userID string) (*entity.BomHeader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierror.Validation("cannot read xlsx file: %s", err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierror.Validation("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apierror.Validation("cannot read sheet %s: %s", sheets[0], err.Error())
	}
	if len(rows) < 2 {
		return nil, apierror.Validation("xlsx file has no data rows")
	}

	var lines []BomLineInput
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, apierror.Validation("row %d: missing quantity", i+2)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, apierror.Validation("row %d: invalid quantity %q", i+2, row[1])
		}
		line := BomLineInput{SpareCode: strings.TrimSpace(row[0]), QtyInProduct: qty}
		if len(row) >= 3 && strings.TrimSpace(row[2]) != "" {
			w, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return nil, apierror.Validation("row %d: invalid weight %q", i+2, row[2])
			}
			line.WeightPercent = w
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, apierror.Validation("xlsx file has no data rows")
	}
	return s.ReplaceMaster(productCode, lines, userID)
}

// BomDiffLine is one line of a snapshot-vs-master comparison.
type BomDiffLine struct {
	SpareCode     string  `json:"spare_id"`
	Change        string  `json:"change"`
	SnapshotQty   float64 `json:"snapshot_qty"`
	MasterQty     float64 `json:"master_qty"`
	IssuedQty     float64 `json:"issued_qty"`
	SnapshotWt    float64 `json:"snapshot_weight"`
	MasterWt      float64 `json:"master_weight"`
	EffectiveQty  float64 `json:"effective_qty"`
	FlooredByUsed bool    `json:"floored_by_issued"`
}

type BomComparison struct {
	ProductionID string        `json:"production_id"`
	ProductCode  string        `json:"product_code"`
	InSync       bool          `json:"in_sync"`
	Lines        []BomDiffLine `json:"lines"`
}

// Compare diffs a production order's frozen snapshot against the current
// active master BOM. Every line also carries the quantity the merge would
// settle on, so the caller can preview the update before applying it.
func (s *BomService) Compare(productionID string) (*BomComparison, error) {
	order, err := s.prodRepo.GetByID(productionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("production %s not found", productionID)
		}
		return nil, fmt.Errorf("load production: %w", err)
	}

	master, err := s.bomRepo.GetActive(s.bomRepo.DB(), order.ProductCode)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("no BOM defined for product %s", order.ProductCode)
		}
		return nil, fmt.Errorf("load master bom: %w", err)
	}

	issued, err := s.prodRepo.SumIssued(s.prodRepo.DB(), order.ID)
	if err != nil {
		return nil, fmt.Errorf("sum issued: %w", err)
	}

	lines := diffLines(order.Components, master.Items, issued)
	cmp := &BomComparison{
		ProductionID: order.ID,
		ProductCode:  order.ProductCode,
		InSync:       true,
		Lines:        lines,
	}
	for _, l := range lines {
		if l.Change != BomDiffUnchanged {
			cmp.InSync = false
			break
		}
	}
	return cmp, nil
}

// diffLines classifies every spare present in either side. The effective
// quantity of each line is the master quantity floored at the already-issued
// quantity; a removal survives as a floored line while anything has been
// issued against it.
func diffLines(snapshot []entity.ProductionComponent, master []entity.BomItem, issued map[string]float64) []BomDiffLine {
	masterBy := make(map[string]entity.BomItem, len(master))
	for _, m := range master {
		masterBy[m.SpareCode] = m
	}

	var lines []BomDiffLine
	for _, c := range snapshot {
		line := BomDiffLine{
			SpareCode:   c.SpareCode,
			SnapshotQty: c.QtyInProduct,
			SnapshotWt:  c.WeightPercent,
			IssuedQty:   issued[c.SpareCode],
		}
		if m, ok := masterBy[c.SpareCode]; ok {
			line.MasterQty = m.QtyInProduct
			line.MasterWt = m.WeightPercent
			if m.QtyInProduct == c.QtyInProduct && m.WeightPercent == c.WeightPercent {
				line.Change = BomDiffUnchanged
			} else {
				line.Change = BomDiffChanged
			}
			line.EffectiveQty = m.QtyInProduct
			delete(masterBy, c.SpareCode)
		} else {
			line.Change = BomDiffRemoved
			line.EffectiveQty = 0
		}
		if line.IssuedQty > line.EffectiveQty {
			line.EffectiveQty = line.IssuedQty
			line.FlooredByUsed = true
		}
		lines = append(lines, line)
	}
	for _, m := range master {
		if _, ok := masterBy[m.SpareCode]; !ok {
			continue
		}
		lines = append(lines, BomDiffLine{
			SpareCode:    m.SpareCode,
			Change:       BomDiffAdded,
			MasterQty:    m.QtyInProduct,
			MasterWt:     m.WeightPercent,
			IssuedQty:    issued[m.SpareCode],
			EffectiveQty: m.QtyInProduct,
		})
	}
	return lines
}

// mergeLines builds the new snapshot from a diff and the operator's
// selection. Only selected spares adopt the master's values; unselected
// differences are left untouched. The issued-quantity floor applies to
// every adopted line, and a selected removal survives at the issued
// quantity while anything has been issued against it.
func mergeLines(lines []BomDiffLine, selected map[string]bool) []entity.ProductionComponent {
	var comps []entity.ProductionComponent
	for _, l := range lines {
		var qty, weight float64
		switch {
		case !selected[l.SpareCode] && l.Change == BomDiffAdded:
			continue
		case !selected[l.SpareCode]:
			qty, weight = l.SnapshotQty, l.SnapshotWt
		case l.Change == BomDiffRemoved:
			// adoption of a removal: only the issued floor survives
			qty, weight = l.IssuedQty, l.SnapshotWt
		default:
			qty, weight = l.EffectiveQty, l.MasterWt
		}
		if qty <= 0 {
			continue
		}
		comps = append(comps, entity.ProductionComponent{
			SpareCode:     l.SpareCode,
			QtyInProduct:  qty,
			WeightPercent: weight,
		})
	}
	return comps
}

// ApplyUpdate adopts master BOM changes into a production order's snapshot
// for the selected spare ids only, with the issued-quantity floor: an
// adopted line's requirement never drops below what has already been
// issued, and an adopted removal is dropped only when nothing was issued
// against it. Unselected differences keep their snapshot values. Progress
// and status are recomputed against the new snapshot in the same
// transaction.
func (s *BomService) ApplyUpdate(productionID string, spareIDs []string, userID string) (*BomComparison, error) {
	if len(spareIDs) == 0 {
		return nil, apierror.Validation("spare_ids is required")
	}
	selected := make(map[string]bool, len(spareIDs))
	for _, id := range spareIDs {
		selected[strings.TrimSpace(id)] = true
	}

	var cmp *BomComparison
	err := s.prodRepo.DB().Transaction(func(tx *gorm.DB) error {
		order, err := s.prodRepo.GetForUpdate(tx, productionID)
		if err != nil {
			if err == repository.ErrNotFound {
				return apierror.NotFound("production %s not found", productionID)
			}
			return fmt.Errorf("load production: %w", err)
		}

		master, err := s.bomRepo.GetActive(tx, order.ProductCode)
		if err != nil {
			if err == repository.ErrNotFound {
				return apierror.NotFound("no BOM defined for product %s", order.ProductCode)
			}
			return fmt.Errorf("load master bom: %w", err)
		}

		issued, err := s.prodRepo.SumIssued(tx, order.ID)
		if err != nil {
			return fmt.Errorf("sum issued: %w", err)
		}

		lines := diffLines(order.Components, master.Items, issued)
		known := make(map[string]bool, len(lines))
		for _, l := range lines {
			known[l.SpareCode] = true
		}
		for id := range selected {
			if !known[id] {
				return apierror.Validation("spare %s is in neither the snapshot nor the master BOM", id)
			}
		}

		now := time.Now()
		comps := mergeLines(lines, selected)
		for i := range comps {
			comps[i].ID = uuid.New().String()
			comps[i].ProductionID = order.ID
			comps[i].CreatedAt = now
			comps[i].UpdatedAt = now
		}
		if len(comps) == 0 {
			return apierror.Validation("update would leave production %s with an empty BOM", order.ID)
		}

		if err := s.prodRepo.ReplaceComponents(tx, order.ID, comps); err != nil {
			return fmt.Errorf("replace snapshot: %w", err)
		}

		order.Components = comps
		order.ProgressPercent = WeightedProgress(comps, issued)
		order.Status = StatusForProgress(order.ProgressPercent)
		order.UpdatedAt = now
		if err := s.prodRepo.Update(tx, order); err != nil {
			return fmt.Errorf("update production: %w", err)
		}

		// report the state after the partial adoption
		remaining := diffLines(comps, master.Items, issued)
		cmp = &BomComparison{
			ProductionID: order.ID,
			ProductCode:  order.ProductCode,
			InSync:       true,
			Lines:        remaining,
		}
		for _, l := range remaining {
			if l.Change != BomDiffUnchanged {
				cmp.InSync = false
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cmp, nil
}
