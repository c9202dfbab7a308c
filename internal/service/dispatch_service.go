package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// objectStore is the slice of FileStore the dispatch flow needs: saving the
// proof document and removing it again when the confirmation fails.
type objectStore interface {
	Save(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// DispatchService confirms shipped units: assigns the serial number, stores
// the proof document and deducts exactly one unit of stock per item, once.
type DispatchService struct {
	dispatchRepo *repository.DispatchRepository
	stockSvc     *StockService
	fileStore    objectStore
	mailer       *Mailer
	notifyTo     []string
	log          *zap.Logger
}

func NewDispatchService(dispatchRepo *repository.DispatchRepository,
	stockSvc *StockService, fileStore objectStore, mailer *Mailer, notifyTo []string, log *zap.Logger) *DispatchService {
	return &DispatchService{
		dispatchRepo: dispatchRepo,
		stockSvc:     stockSvc,
		fileStore:    fileStore,
		mailer:       mailer,
		notifyTo:     notifyTo,
		log:          log,
	}
}

type CreateDispatchRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	ItemCode string `json:"item_code" binding:"required"`
	Remarks  string `json:"remarks"`
}

// Create registers a pending dispatch item. Serial and warehouse come later
// through ConfirmUpdate.
func (s *DispatchService) Create(req CreateDispatchRequest, userID string) (*entity.DispatchItem, error) {
	now := time.Now()
	item := &entity.DispatchItem{
		ID:        uuid.New().String(),
		OrderID:   req.OrderID,
		ItemCode:  req.ItemCode,
		Remarks:   req.Remarks,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.dispatchRepo.Create(item); err != nil {
		return nil, fmt.Errorf("create dispatch item: %w", err)
	}
	return item, nil
}

type ConfirmDispatchRequest struct {
	ID       string
	SerialNo string
	Godown   string
	Remarks  string
	Proof    *multipart.FileHeader
}

// ConfirmUpdate records the serial number and warehouse for a dispatch item
// and deducts one unit of stock. The deduction happens at most once per
// item: resubmissions update the mutable fields but skip the ledger because
// stock_deducted is already set. Serial numbers are unique across all
// dispatch items.
func (s *DispatchService) ConfirmUpdate(ctx context.Context, req ConfirmDispatchRequest, userID string) (*entity.DispatchItem, error) {
	serial := strings.TrimSpace(req.SerialNo)
	if serial == "" {
		return nil, apierror.Validation("serial_no is required")
	}
	if req.Godown == "" {
		return nil, apierror.Validation("warehouse is required")
	}
	godown, err := entity.ParseGodown(req.Godown)
	if err != nil {
		return nil, apierror.Validation("%s", err.Error())
	}

	taken, err := s.dispatchRepo.SerialExists(s.dispatchRepo.DB(), serial, req.ID)
	if err != nil {
		return nil, fmt.Errorf("check serial: %w", err)
	}
	if taken {
		return nil, apierror.DuplicateEntry("serial number %s is already assigned", serial)
	}

	var proofPath string
	if req.Proof != nil {
		f, err := req.Proof.Open()
		if err != nil {
			return nil, apierror.Validation("cannot read proof file: %s", err.Error())
		}
		defer f.Close()
		proofPath, err = s.fileStore.Save(ctx, "dispatch-proofs", req.Proof.Filename, f,
			req.Proof.Size, req.Proof.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("store proof: %w", err)
		}
	}

	var item *entity.DispatchItem
	err = s.dispatchRepo.DB().Transaction(func(tx *gorm.DB) error {
		item, err = s.dispatchRepo.GetForUpdate(tx, req.ID)
		if err != nil {
			if err == repository.ErrNotFound {
				return apierror.NotFound("dispatch item %s not found", req.ID)
			}
			return fmt.Errorf("load dispatch item: %w", err)
		}

		// re-check under the row lock; a concurrent winner may have taken
		// the serial between the fast check and here
		taken, err := s.dispatchRepo.SerialExists(tx, serial, req.ID)
		if err != nil {
			return fmt.Errorf("check serial: %w", err)
		}
		if taken {
			return apierror.DuplicateEntry("serial number %s is already assigned", serial)
		}

		now := time.Now()
		item.SerialNo = serial
		item.Godown = godown
		item.GodownName = req.Godown
		if req.Remarks != "" {
			item.Remarks = req.Remarks
		}
		if proofPath != "" {
			item.ProofPath = proofPath
		}
		item.DispatchedBy = userID
		item.DispatchedAt = &now
		item.UpdatedAt = now

		if !item.StockDeducted {
			if _, err := s.stockSvc.ApplyTx(tx, MovementRequest{
				ItemKind:  entity.ItemKindProduct,
				ItemCode:  item.ItemCode,
				Godown:    req.Godown,
				Quantity:  1,
				Direction: entity.StockOut,
				RefType:   "DISPATCH",
				RefID:     item.ID,
				RefCode:   item.OrderID,
				Notes:     fmt.Sprintf("dispatched serial %s", serial),
			}, userID); err != nil {
				return err
			}
			item.StockDeducted = true
		}

		if err := s.dispatchRepo.Update(tx, item); err != nil {
			return fmt.Errorf("update dispatch item: %w", err)
		}
		return nil
	})
	if err != nil {
		if proofPath != "" {
			// the row the proof belonged to was rolled back
			if rmErr := s.fileStore.Remove(ctx, proofPath); rmErr != nil {
				s.log.Warn("orphaned dispatch proof left in object store",
					zap.String("object", proofPath), zap.Error(rmErr))
			}
		}
		return nil, err
	}

	go s.mailer.SendDispatchConfirmed(s.notifyTo, DispatchMail{
		OrderID:      item.OrderID,
		ItemCode:     item.ItemCode,
		SerialNo:     item.SerialNo,
		Godown:       item.GodownName,
		DispatchedBy: userID,
		Remarks:      item.Remarks,
	})

	return item, nil
}

func (s *DispatchService) Get(id string) (*entity.DispatchItem, error) {
	item, err := s.dispatchRepo.GetByID(id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("dispatch item %s not found", id)
		}
		return nil, fmt.Errorf("load dispatch item: %w", err)
	}
	return item, nil
}

func (s *DispatchService) List(params repository.DispatchListParams) ([]entity.DispatchItem, int64, error) {
	return s.dispatchRepo.List(params)
}
