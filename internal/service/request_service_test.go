package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/testutil"
)

func newRequestFixture(t *testing.T) (*RequestService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewRequestService(repos.Request, repos.Catalog, nil, nil, nil, zap.NewNop())
	testutil.SeedSpare(t, db, "MOTOR", "Suction Motor")
	return svc, db
}

func spareRequestInput() CreateRequestInput {
	return CreateRequestInput{
		ItemCode:         "MOTOR",
		Quantity:         20,
		SourceCompany:    "Acme Components",
		DeliveryLocation: "Delhi - Mundka",
		ContactName:      "Ravi",
		ContactPhone:     "9999999999",
		TransportMode:    "ROAD",
		VehicleNo:        "DL01AB1234",
		DriverPhone:      "8888888888",
	}
}

func TestRequestCreateAndDuplicateGuard(t *testing.T) {
	svc, _ := newRequestFixture(t)

	req, err := svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusRequested, req.Status)
	assert.Equal(t, "DL01AB1234", req.VehicleNo)

	// identical open request by the same user is rejected
	_, err = svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40900, apiErr.Code)

	// same payload from another user is a separate request
	_, err = svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u2")
	assert.NoError(t, err)

	// different quantity is a separate request
	in := spareRequestInput()
	in.Quantity = 30
	_, err = svc.Create(context.Background(), entity.ItemKindSpare, in, nil, "u1")
	assert.NoError(t, err)
}

func TestRequestDuplicateGuardNormalizesText(t *testing.T) {
	svc, _ := newRequestFixture(t)

	_, err := svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.NoError(t, err)

	in := spareRequestInput()
	in.SourceCompany = "  ACME components "
	in.ContactName = "RAVI"
	_, err = svc.Create(context.Background(), entity.ItemKindSpare, in, nil, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40900, apiErr.Code)
}

func TestRequestDuplicateGuardIgnoresClosedRequests(t *testing.T) {
	svc, _ := newRequestFixture(t)

	req, err := svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.NoError(t, err)

	_, err = svc.Advance(req.ID)
	require.NoError(t, err)

	// the original is in_warehouse now, so an identical request may be raised
	_, err = svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	assert.NoError(t, err)
}

func TestRequestTransportModeSwitchClearsOtherFields(t *testing.T) {
	svc, _ := newRequestFixture(t)

	req, err := svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.NoError(t, err)

	mode := "COURIER"
	courier := "BlueDart"
	docket := "BD-123"
	updated, err := svc.Update(req.ID, UpdateRequestInput{
		TransportMode: &mode,
		CourierName:   &courier,
		DocketNo:      &docket,
	})
	require.NoError(t, err)
	assert.Equal(t, "COURIER", updated.TransportMode)
	assert.Equal(t, "BlueDart", updated.CourierName)
	assert.Equal(t, "BD-123", updated.DocketNo)
	assert.Empty(t, updated.VehicleNo)
	assert.Empty(t, updated.DriverPhone)
}

func TestRequestUpdateOnlyWhileRequested(t *testing.T) {
	svc, _ := newRequestFixture(t)

	req, err := svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.NoError(t, err)

	_, err = svc.Advance(req.ID)
	require.NoError(t, err)

	vehicle := "DL02XY9999"
	_, err = svc.Update(req.ID, UpdateRequestInput{VehicleNo: &vehicle})
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40000, apiErr.Code)
}

func TestRequestStatusAdvancesForwardOnly(t *testing.T) {
	svc, _ := newRequestFixture(t)

	req, err := svc.Create(context.Background(), entity.ItemKindSpare, spareRequestInput(), nil, "u1")
	require.NoError(t, err)

	step1, err := svc.Advance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusInWarehouse, step1.Status)

	step2, err := svc.Advance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusFulfilled, step2.Status)

	_, err = svc.Advance(req.ID)
	assert.Error(t, err)
}

func TestRequestRejectsInvalidInput(t *testing.T) {
	svc, _ := newRequestFixture(t)

	in := spareRequestInput()
	in.TransportMode = "BOAT"
	_, err := svc.Create(context.Background(), entity.ItemKindSpare, in, nil, "u1")
	assert.Error(t, err)

	in = spareRequestInput()
	in.ItemCode = "NO-SUCH-SPARE"
	_, err = svc.Create(context.Background(), entity.ItemKindSpare, in, nil, "u1")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), "WIDGET", spareRequestInput(), nil, "u1")
	assert.Error(t, err)
}

func TestApplyTransportFields(t *testing.T) {
	var req entity.StockRequest

	in := spareRequestInput()
	applyTransportFields(&req, in)
	assert.Equal(t, "DL01AB1234", req.VehicleNo)
	assert.Empty(t, req.TrainNo)

	in.TransportMode = entity.TransportTrain
	in.TrainNo = "12951"
	applyTransportFields(&req, in)
	assert.Equal(t, "12951", req.TrainNo)
	assert.Empty(t, req.VehicleNo)
	assert.Empty(t, req.DriverPhone)

	in.TransportMode = entity.TransportAir
	applyTransportFields(&req, in)
	assert.Empty(t, req.TrainNo)
	assert.Empty(t, req.CourierName)
}
