package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/testutil"
)

type productionFixture struct {
	db       *gorm.DB
	repos    *repository.Repositories
	stockSvc *StockService
	prodSvc  *ProductionService
	bomSvc   *BomService
}

func newProductionFixture(t *testing.T) *productionFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	stockSvc := NewStockService(repos.Stock)
	return &productionFixture{
		db:       db,
		repos:    repos,
		stockSvc: stockSvc,
		prodSvc:  NewProductionService(repos.Production, repos.Bom, repos.Catalog, repos.Stock, stockSvc),
		bomSvc:   NewBomService(repos.Bom, repos.Production, repos.Catalog),
	}
}

// seedProduction creates a product with a two-line master BOM and a
// production order snapshotting it: 2x MOTOR (60%), 1x FRAME (40%).
func (f *productionFixture) seedProduction(t *testing.T) *entity.ProductionOrder {
	t.Helper()
	testutil.SeedProduct(t, f.db, "VAC-1", "Vacuum Cleaner")
	testutil.SeedSpare(t, f.db, "MOTOR", "Suction Motor")
	testutil.SeedSpare(t, f.db, "FRAME", "Body Frame")

	_, err := f.bomSvc.ReplaceMaster("VAC-1", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 2, WeightPercent: 60},
		{SpareCode: "FRAME", QtyInProduct: 1, WeightPercent: 40},
	}, "u1")
	require.NoError(t, err)

	order, err := f.prodSvc.Create(CreateProductionRequest{ProductCode: "VAC-1"}, "u1")
	require.NoError(t, err)
	require.Len(t, order.Components, 2)
	return order
}

func (f *productionFixture) stockSpare(t *testing.T, code, godown string, qty float64) {
	t.Helper()
	_, err := f.stockSvc.Apply(movementIn(code, godown, qty), "u1")
	require.NoError(t, err)
}

func TestProductionCreateFreezesSnapshot(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)

	// change the master after the order exists
	_, err := f.bomSvc.ReplaceMaster("VAC-1", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 9, WeightPercent: 100},
	}, "u1")
	require.NoError(t, err)

	detail, err := f.prodSvc.GetDetail(order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Components, 2)
	motor := detail.Components[0]
	if motor.SpareCode != "MOTOR" {
		motor = detail.Components[1]
	}
	assert.InDelta(t, 2, motor.QtyInProduct, 1e-9)
}

func TestProductionIssueUpdatesProgressAndStock(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)
	f.stockSpare(t, "MOTOR", "Delhi", 5)
	f.stockSpare(t, "FRAME", "Delhi", 5)

	res, err := f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, SpareCode: "MOTOR", Qty: 1, Godown: "Delhi",
	}, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 30, res.Progress, 1e-9) // half of the 60% motor line
	assert.Equal(t, entity.ProductionInProcess, res.Status)

	res, err = f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, SpareCode: "MOTOR", Qty: 1, Godown: "Delhi",
	}, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 60, res.Progress, 1e-9)

	res, err = f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, SpareCode: "FRAME", Qty: 1, Godown: "Delhi",
	}, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 100, res.Progress, 1e-9)
	assert.Equal(t, entity.ProductionCompleted, res.Status)

	// each issuance went through the ledger
	summary, err := f.stockSvc.GetSummary(entity.ItemKindSpare, "MOTOR")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.InDelta(t, 3, summary.TotalQty, 1e-9)
}

func TestProductionIssueOverIssuanceLeavesNothing(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)
	f.stockSpare(t, "MOTOR", "Delhi", 50)

	_, err := f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, SpareCode: "MOTOR", Qty: 3, Godown: "Delhi",
	}, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 42201, apiErr.Code)

	// no issuance row, no ledger movement, no progress
	issues, err := f.repos.Production.ListIssues(order.ID)
	require.NoError(t, err)
	assert.Empty(t, issues)

	summary, err := f.stockSvc.GetSummary(entity.ItemKindSpare, "MOTOR")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.InDelta(t, 50, summary.TotalQty, 1e-9)

	detail, err := f.prodSvc.GetDetail(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0, detail.Progress, 1e-9)
}

func TestProductionIssueChecksStockBeforeOverIssuance(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)
	// only 1 motor in stock, asking for 3 which is also over the requirement
	f.stockSpare(t, "MOTOR", "Delhi", 1)

	_, err := f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, SpareCode: "MOTOR", Qty: 3, Godown: "Delhi",
	}, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 42200, apiErr.Code) // stock failure reported, not over-issuance
}

func TestProductionIssueRejectsForeignSpare(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)
	testutil.SeedSpare(t, f.db, "WHEEL", "Caster Wheel")
	f.stockSpare(t, "WHEEL", "Delhi", 10)

	_, err := f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, SpareCode: "WHEEL", Qty: 1, Godown: "Delhi",
	}, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40000, apiErr.Code)
}

func TestProductionGetDetailSurfacesStockErrors(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)

	// break only the availability lookup
	require.NoError(t, f.db.Migrator().DropTable(&entity.StockSummary{}))

	_, err := f.prodSvc.GetDetail(order.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock summary")
}

func TestProductionIssueRejectsMismatchedProduct(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)
	f.stockSpare(t, "MOTOR", "Delhi", 10)

	_, err := f.prodSvc.Issue(IssueRequest{
		ProductionID: order.ID, ProductCode: "OTHER-PRODUCT",
		SpareCode: "MOTOR", Qty: 1, Godown: "Delhi",
	}, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40000, apiErr.Code)
}

func TestBomApplyUpdateWithIssuedFloor(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)
	f.stockSpare(t, "MOTOR", "Delhi", 10)

	// issue both motors, then shrink the master below what went out
	for i := 0; i < 2; i++ {
		_, err := f.prodSvc.Issue(IssueRequest{
			ProductionID: order.ID, SpareCode: "MOTOR", Qty: 1, Godown: "Delhi",
		}, "u1")
		require.NoError(t, err)
	}
	_, err := f.bomSvc.ReplaceMaster("VAC-1", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 1, WeightPercent: 100},
	}, "u1")
	require.NoError(t, err)

	cmp, err := f.bomSvc.ApplyUpdate(order.ID, []string{"MOTOR", "FRAME"}, "u1")
	require.NoError(t, err)

	motor := lineByCode(t, cmp.Lines, "MOTOR")
	assert.InDelta(t, 2, motor.EffectiveQty, 1e-9)
	assert.True(t, motor.FlooredByUsed)

	// frame had nothing issued, so its removal sticks
	detail, err := f.prodSvc.GetDetail(order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Components, 1)
	assert.Equal(t, "MOTOR", detail.Components[0].SpareCode)
	// 2 of 2 required motors issued, full weight
	assert.InDelta(t, 100, detail.Progress, 1e-9)
}

func TestBomApplyUpdateSelectiveMerge(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)

	// change both lines in the master, adopt only the motor change
	_, err := f.bomSvc.ReplaceMaster("VAC-1", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 3, WeightPercent: 70},
		{SpareCode: "FRAME", QtyInProduct: 4, WeightPercent: 30},
	}, "u1")
	require.NoError(t, err)

	cmp, err := f.bomSvc.ApplyUpdate(order.ID, []string{"MOTOR"}, "u1")
	require.NoError(t, err)
	assert.False(t, cmp.InSync)

	detail, err := f.prodSvc.GetDetail(order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Components, 2)
	byCode := map[string]ComponentDetail{}
	for _, c := range detail.Components {
		byCode[c.SpareCode] = c
	}
	assert.InDelta(t, 3, byCode["MOTOR"].QtyInProduct, 1e-9)
	assert.InDelta(t, 70, byCode["MOTOR"].WeightPercent, 1e-9)
	// the unselected frame change stays at its snapshot values
	assert.InDelta(t, 1, byCode["FRAME"].QtyInProduct, 1e-9)
	assert.InDelta(t, 40, byCode["FRAME"].WeightPercent, 1e-9)

	// the frame difference is still reported on the next compare
	frame := lineByCode(t, cmp.Lines, "FRAME")
	assert.Equal(t, BomDiffChanged, frame.Change)
}

func TestBomApplyUpdateRejectsUnknownSpare(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)

	_, err := f.bomSvc.ApplyUpdate(order.ID, []string{"NOPE"}, "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40000, apiErr.Code)
}

func TestBomCompareReportsInSync(t *testing.T) {
	f := newProductionFixture(t)
	order := f.seedProduction(t)

	cmp, err := f.bomSvc.Compare(order.ID)
	require.NoError(t, err)
	assert.True(t, cmp.InSync)

	_, err = f.bomSvc.ReplaceMaster("VAC-1", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 3, WeightPercent: 60},
		{SpareCode: "FRAME", QtyInProduct: 1, WeightPercent: 40},
	}, "u1")
	require.NoError(t, err)

	cmp, err = f.bomSvc.Compare(order.ID)
	require.NoError(t, err)
	assert.False(t, cmp.InSync)
	assert.Equal(t, BomDiffChanged, lineByCode(t, cmp.Lines, "MOTOR").Change)
}
