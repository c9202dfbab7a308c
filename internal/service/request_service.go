package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
)

// RequestService runs the stock/spare procurement request workflow. One
// table serves both the product and spare routes; item_kind tells them
// apart.
type RequestService struct {
	requestRepo *repository.RequestRepository
	catalogRepo *repository.CatalogRepository
	fileStore   *FileStore
	mailer      *Mailer
	notifyTo    []string
	log         *zap.Logger
}

func NewRequestService(requestRepo *repository.RequestRepository, catalogRepo *repository.CatalogRepository,
	fileStore *FileStore, mailer *Mailer, notifyTo []string, log *zap.Logger) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		catalogRepo: catalogRepo,
		fileStore:   fileStore,
		mailer:      mailer,
		notifyTo:    notifyTo,
		log:         log,
	}
}

type CreateRequestInput struct {
	ItemCode         string  `json:"item_code" binding:"required"`
	Quantity         float64 `json:"quantity" binding:"required,gt=0"`
	SourceCompany    string  `json:"source_company" binding:"required"`
	DeliveryLocation string  `json:"delivery_location" binding:"required"`
	ContactName      string  `json:"contact_name" binding:"required"`
	ContactPhone     string  `json:"contact_phone"`
	TransportMode    string  `json:"transport_mode" binding:"required"`
	VehicleNo        string  `json:"vehicle_no"`
	DriverPhone      string  `json:"driver_phone"`
	TrainNo          string  `json:"train_no"`
	CourierName      string  `json:"courier_name"`
	DocketNo         string  `json:"docket_no"`
}

func validTransportMode(mode string) bool {
	switch mode {
	case entity.TransportRoad, entity.TransportTrain, entity.TransportAir, entity.TransportCourier:
		return true
	}
	return false
}

// applyTransportFields copies onto req only the fields its transport mode
// owns, blanking the others so a mode switch never leaves stale data.
func applyTransportFields(req *entity.StockRequest, in CreateRequestInput) {
	req.TransportMode = in.TransportMode
	req.VehicleNo, req.DriverPhone = "", ""
	req.TrainNo = ""
	req.CourierName, req.DocketNo = "", ""
	switch in.TransportMode {
	case entity.TransportRoad:
		req.VehicleNo = in.VehicleNo
		req.DriverPhone = in.DriverPhone
	case entity.TransportTrain:
		req.TrainNo = in.TrainNo
	case entity.TransportCourier:
		req.CourierName = in.CourierName
		req.DocketNo = in.DocketNo
	}
}

// Create raises a request after the duplicate guard: an open ("requested")
// request by the same user for the same item, quantity, source, destination,
// contact and transport mode is rejected.
func (s *RequestService) Create(ctx context.Context, itemKind string, in CreateRequestInput,
	document *multipart.FileHeader, userID string) (*entity.StockRequest, error) {
	if itemKind != entity.ItemKindProduct && itemKind != entity.ItemKindSpare {
		return nil, apierror.Validation("invalid item kind %q", itemKind)
	}
	mode := strings.ToUpper(strings.TrimSpace(in.TransportMode))
	if !validTransportMode(mode) {
		return nil, apierror.Validation("invalid transport mode %q", in.TransportMode)
	}
	in.TransportMode = mode

	if itemKind == entity.ItemKindSpare {
		if _, err := s.catalogRepo.GetSpare(in.ItemCode); err != nil {
			if err == repository.ErrNotFound {
				return nil, apierror.NotFound("spare %s not found", in.ItemCode)
			}
			return nil, fmt.Errorf("load spare: %w", err)
		}
	} else {
		if _, err := s.catalogRepo.GetProduct(in.ItemCode); err != nil {
			if err == repository.ErrNotFound {
				return nil, apierror.NotFound("product %s not found", in.ItemCode)
			}
			return nil, fmt.Errorf("load product: %w", err)
		}
	}

	now := time.Now()
	req := &entity.StockRequest{
		ID:               uuid.New().String(),
		ItemKind:         itemKind,
		ItemCode:         in.ItemCode,
		Quantity:         in.Quantity,
		SourceCompany:    in.SourceCompany,
		DeliveryLocation: in.DeliveryLocation,
		ContactName:      in.ContactName,
		ContactPhone:     in.ContactPhone,
		Status:           entity.RequestStatusRequested,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	applyTransportFields(req, in)

	dup, err := s.requestRepo.HasOpenDuplicate(req)
	if err != nil {
		return nil, fmt.Errorf("check duplicate request: %w", err)
	}
	if dup {
		return nil, apierror.DuplicateEntry("an identical open request for %s already exists", in.ItemCode)
	}

	if document != nil {
		f, err := document.Open()
		if err != nil {
			return nil, apierror.Validation("cannot read document: %s", err.Error())
		}
		defer f.Close()
		docPath, err := s.fileStore.Save(ctx, "request-documents", document.Filename, f,
			document.Size, document.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("store document: %w", err)
		}
		req.DocumentPath = docPath
	}

	if err := s.requestRepo.Create(req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	go s.mailer.SendRequestRaised(s.notifyTo, RequestMail{
		ItemKind:         req.ItemKind,
		ItemCode:         req.ItemCode,
		Quantity:         req.Quantity,
		SourceCompany:    req.SourceCompany,
		DeliveryLocation: req.DeliveryLocation,
		CreatedBy:        userID,
	})

	return req, nil
}

type UpdateRequestInput struct {
	TransportMode *string `json:"transport_mode"`
	VehicleNo     *string `json:"vehicle_no"`
	DriverPhone   *string `json:"driver_phone"`
	TrainNo       *string `json:"train_no"`
	CourierName   *string `json:"courier_name"`
	DocketNo      *string `json:"docket_no"`
	ContactPhone  *string `json:"contact_phone"`
}

// Update edits transport details of a request. Only requests still in
// "requested" may be edited; the status check and the write are one guarded
// UPDATE, so a concurrent fulfilment cannot be overwritten.
func (s *RequestService) Update(id string, in UpdateRequestInput) (*entity.StockRequest, error) {
	current, err := s.requestRepo.GetByID(id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("request %s not found", id)
		}
		return nil, fmt.Errorf("load request: %w", err)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if in.TransportMode != nil {
		mode := strings.ToUpper(strings.TrimSpace(*in.TransportMode))
		if !validTransportMode(mode) {
			return nil, apierror.Validation("invalid transport mode %q", *in.TransportMode)
		}
		updates["transport_mode"] = mode
		// a mode switch clears the other modes' fields
		updates["vehicle_no"] = ""
		updates["driver_phone"] = ""
		updates["train_no"] = ""
		updates["courier_name"] = ""
		updates["docket_no"] = ""
		switch mode {
		case entity.TransportRoad:
			if in.VehicleNo != nil {
				updates["vehicle_no"] = *in.VehicleNo
			}
			if in.DriverPhone != nil {
				updates["driver_phone"] = *in.DriverPhone
			}
		case entity.TransportTrain:
			if in.TrainNo != nil {
				updates["train_no"] = *in.TrainNo
			}
		case entity.TransportCourier:
			if in.CourierName != nil {
				updates["courier_name"] = *in.CourierName
			}
			if in.DocketNo != nil {
				updates["docket_no"] = *in.DocketNo
			}
		}
	} else {
		mode := current.TransportMode
		if in.VehicleNo != nil && mode == entity.TransportRoad {
			updates["vehicle_no"] = *in.VehicleNo
		}
		if in.DriverPhone != nil && mode == entity.TransportRoad {
			updates["driver_phone"] = *in.DriverPhone
		}
		if in.TrainNo != nil && mode == entity.TransportTrain {
			updates["train_no"] = *in.TrainNo
		}
		if in.CourierName != nil && mode == entity.TransportCourier {
			updates["courier_name"] = *in.CourierName
		}
		if in.DocketNo != nil && mode == entity.TransportCourier {
			updates["docket_no"] = *in.DocketNo
		}
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = *in.ContactPhone
	}

	affected, err := s.requestRepo.UpdateWhileRequested(id, updates)
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if affected == 0 {
		return nil, apierror.Validation("request %s is no longer editable", id)
	}
	return s.requestRepo.GetByID(id)
}

// Advance moves a request one step forward: requested -> in_warehouse ->
// fulfilled. No reverse transitions and no skipping.
func (s *RequestService) Advance(id string) (*entity.StockRequest, error) {
	current, err := s.requestRepo.GetByID(id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("request %s not found", id)
		}
		return nil, fmt.Errorf("load request: %w", err)
	}

	var next string
	switch current.Status {
	case entity.RequestStatusRequested:
		next = entity.RequestStatusInWarehouse
	case entity.RequestStatusInWarehouse:
		next = entity.RequestStatusFulfilled
	default:
		return nil, apierror.Validation("request %s is already fulfilled", id)
	}

	affected, err := s.requestRepo.AdvanceStatus(id, current.Status, next)
	if err != nil {
		return nil, fmt.Errorf("advance request: %w", err)
	}
	if affected == 0 {
		return nil, apierror.Validation("request %s changed status concurrently, reload and retry", id)
	}
	return s.requestRepo.GetByID(id)
}

func (s *RequestService) Get(id string) (*entity.StockRequest, error) {
	req, err := s.requestRepo.GetByID(id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("request %s not found", id)
		}
		return nil, fmt.Errorf("load request: %w", err)
	}
	return req, nil
}

func (s *RequestService) List(params repository.RequestListParams) ([]entity.StockRequest, int64, error) {
	return s.requestRepo.List(params)
}
