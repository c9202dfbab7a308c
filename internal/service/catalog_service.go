package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// CatalogService manages the product and spare master data the ledger,
// production and request flows reference by code.
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
	fileStore   *FileStore
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, fileStore *FileStore) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo, fileStore: fileStore}
}

type CreateProductRequest struct {
	Code string `json:"item_code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func (s *CatalogService) CreateProduct(req CreateProductRequest) (*entity.Product, error) {
	if _, err := s.catalogRepo.GetProduct(req.Code); err == nil {
		return nil, apierror.DuplicateEntry("product %s already exists", req.Code)
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("check product: %w", err)
	}

	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Code:      req.Code,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.catalogRepo.CreateProduct(p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

type CreateSpareRequest struct {
	Code     string `form:"spare_id" binding:"required"`
	Name     string `form:"name" binding:"required"`
	UnitCost string `form:"unit_cost"`
}

func (s *CatalogService) CreateSpare(ctx context.Context, req CreateSpareRequest, image *multipart.FileHeader) (*entity.Spare, error) {
	if _, err := s.catalogRepo.GetSpare(req.Code); err == nil {
		return nil, apierror.DuplicateEntry("spare %s already exists", req.Code)
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("check spare: %w", err)
	}

	cost := decimal.Zero
	if req.UnitCost != "" {
		var err error
		cost, err = decimal.NewFromString(req.UnitCost)
		if err != nil {
			return nil, apierror.Validation("invalid unit_cost %q", req.UnitCost)
		}
		if cost.IsNegative() {
			return nil, apierror.Validation("unit_cost cannot be negative")
		}
	}

	now := time.Now()
	sp := &entity.Spare{
		ID:        uuid.New().String(),
		Code:      req.Code,
		Name:      req.Name,
		UnitCost:  cost,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if image != nil {
		f, err := image.Open()
		if err != nil {
			return nil, apierror.Validation("cannot read image: %s", err.Error())
		}
		defer f.Close()
		imagePath, err := s.fileStore.Save(ctx, "spare-images", image.Filename, f,
			image.Size, image.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		sp.ImagePath = imagePath
	}

	if err := s.catalogRepo.CreateSpare(sp); err != nil {
		return nil, fmt.Errorf("create spare: %w", err)
	}
	return sp, nil
}

func (s *CatalogService) GetProduct(code string) (*entity.Product, error) {
	p, err := s.catalogRepo.GetProduct(code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("product %s not found", code)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) GetSpare(code string) (*entity.Spare, error) {
	sp, err := s.catalogRepo.GetSpare(code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("spare %s not found", code)
		}
		return nil, fmt.Errorf("load spare: %w", err)
	}
	return sp, nil
}
