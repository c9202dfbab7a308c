package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/testutil"
)

func newStockService(t *testing.T) (*StockService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewStockService(repos.Stock), repos
}

func movementIn(code, godown string, qty float64) MovementRequest {
	return MovementRequest{
		ItemKind:  entity.ItemKindSpare,
		ItemCode:  code,
		Godown:    godown,
		Quantity:  qty,
		Direction: entity.StockIn,
		RefType:   "PURCHASE",
	}
}

func movementOut(code, godown string, qty float64) MovementRequest {
	return MovementRequest{
		ItemKind:  entity.ItemKindSpare,
		ItemCode:  code,
		Godown:    godown,
		Quantity:  qty,
		Direction: entity.StockOut,
		RefType:   "ADJUSTMENT",
	}
}

func TestStockApplyBuildsSnapshotChain(t *testing.T) {
	svc, _ := newStockService(t)

	e1, err := svc.Apply(movementIn("SP-100", "Delhi", 10), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.Balance{TotalQty: 10, DelhiQty: 10}, e1.Balance)

	e2, err := svc.Apply(movementIn("SP-100", "South", 4), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.Balance{TotalQty: 14, DelhiQty: 10, SouthQty: 4}, e2.Balance)

	e3, err := svc.Apply(movementOut("SP-100", "Delhi", 3), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.Balance{TotalQty: 11, DelhiQty: 7, SouthQty: 4}, e3.Balance)

	// summary projection mirrors the last entry
	summary, err := svc.GetSummary(entity.ItemKindSpare, "SP-100")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, e3.Balance, summary.Balance)
	assert.Equal(t, 3.0, summary.LastQty)
	assert.Equal(t, entity.StockOut, summary.LastStatus)
}

func TestStockOutInsufficientInGodown(t *testing.T) {
	svc, repos := newStockService(t)

	_, err := svc.Apply(movementIn("SP-200", "Delhi", 10), "u1")
	require.NoError(t, err)
	_, err = svc.Apply(movementIn("SP-200", "South", 2), "u1")
	require.NoError(t, err)

	// total 12 covers it, but south alone holds only 2
	_, err = svc.Apply(movementOut("SP-200", "South", 5), "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 42200, apiErr.Code)

	// the failed movement left nothing behind
	entries, total, err := repos.Stock.ListEntries(repository.LedgerListParams{
		ItemKind: entity.ItemKindSpare, ItemCode: "SP-200", Page: 1, Size: 50,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, entries, 2)

	summary, err := svc.GetSummary(entity.ItemKindSpare, "SP-200")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, entity.Balance{TotalQty: 12, DelhiQty: 10, SouthQty: 2}, summary.Balance)
}

func TestStockOutFromUnknownSKU(t *testing.T) {
	svc, _ := newStockService(t)

	_, err := svc.Apply(movementOut("NEVER-SEEN", "Delhi", 1), "u1")
	require.Error(t, err)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 42200, apiErr.Code)
}

func TestStockApplyRejectsBadInput(t *testing.T) {
	svc, _ := newStockService(t)

	_, err := svc.Apply(MovementRequest{
		ItemKind: entity.ItemKindSpare, ItemCode: "SP-1", Godown: "Delhi",
		Quantity: 0, Direction: entity.StockIn,
	}, "u1")
	assert.Error(t, err)

	_, err = svc.Apply(MovementRequest{
		ItemKind: entity.ItemKindSpare, ItemCode: "SP-1", Godown: "Delhi",
		Quantity: 1, Direction: "SIDEWAYS",
	}, "u1")
	assert.Error(t, err)

	_, err = svc.Apply(MovementRequest{
		ItemKind: "GADGET", ItemCode: "SP-1", Godown: "Delhi",
		Quantity: 1, Direction: entity.StockIn,
	}, "u1")
	assert.Error(t, err)

	_, err = svc.Apply(MovementRequest{
		ItemKind: entity.ItemKindSpare, ItemCode: "SP-1", Godown: "Mumbai",
		Quantity: 1, Direction: entity.StockIn,
	}, "u1")
	assert.Error(t, err)
}

func TestWarehouseInDefaultsRefType(t *testing.T) {
	svc, _ := newStockService(t)

	entry, err := svc.WarehouseIn(MovementRequest{
		ItemKind: entity.ItemKindProduct,
		ItemCode: "PRD-1",
		Godown:   "Delhi - Mundka",
		Quantity: 2,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StockIn, entry.Direction)
	assert.Equal(t, "PURCHASE", entry.RefType)
	assert.Equal(t, entity.GodownDelhi, entry.Godown)
	assert.Equal(t, "Delhi - Mundka", entry.GodownName)
}
