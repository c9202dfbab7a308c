package service

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/testutil"
)

func buildBomSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]interface{}{"Spare Code", "Qty Per Product", "Weight %"})
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(sheet, cell, &row)
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportMasterFromXlsx(t *testing.T) {
	f := newProductionFixture(t)
	testutil.SeedProduct(t, f.db, "VAC-2", "Wet Vacuum")

	buf := buildBomSheet(t, [][]interface{}{
		{"MOTOR", 2, 60},
		{"FRAME", 1, 40},
	})

	header, err := f.bomSvc.ImportMaster("VAC-2", buf, "u1")
	require.NoError(t, err)
	require.Len(t, header.Items, 2)

	master, err := f.bomSvc.GetMaster("VAC-2")
	require.NoError(t, err)
	assert.Len(t, master.Items, 2)
}

func TestImportMasterDefaultsWeightsWhenOmitted(t *testing.T) {
	f := newProductionFixture(t)
	testutil.SeedProduct(t, f.db, "VAC-2", "Wet Vacuum")

	buf := buildBomSheet(t, [][]interface{}{
		{"MOTOR", 2},
		{"FRAME", 1},
		{"WHEEL", 4},
	})

	header, err := f.bomSvc.ImportMaster("VAC-2", buf, "u1")
	require.NoError(t, err)
	require.Len(t, header.Items, 3)
	for _, item := range header.Items {
		assert.InDelta(t, 100.0/3, item.WeightPercent, 1e-6)
	}
}

func TestImportMasterRejectsBadRows(t *testing.T) {
	f := newProductionFixture(t)
	testutil.SeedProduct(t, f.db, "VAC-2", "Wet Vacuum")

	buf := buildBomSheet(t, [][]interface{}{
		{"MOTOR", "two"},
	})
	_, err := f.bomSvc.ImportMaster("VAC-2", buf, "u1")
	assert.Error(t, err)

	_, err = f.bomSvc.ImportMaster("VAC-2", strings.NewReader("this is not a zip"), "u1")
	assert.Error(t, err)
}

func TestReplaceMasterValidation(t *testing.T) {
	f := newProductionFixture(t)
	testutil.SeedProduct(t, f.db, "VAC-2", "Wet Vacuum")

	_, err := f.bomSvc.ReplaceMaster("VAC-2", nil, "u1")
	assert.Error(t, err)

	_, err = f.bomSvc.ReplaceMaster("VAC-2", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 2},
		{SpareCode: "MOTOR", QtyInProduct: 3},
	}, "u1")
	assert.Error(t, err)

	_, err = f.bomSvc.ReplaceMaster("NO-SUCH-PRODUCT", []BomLineInput{
		{SpareCode: "MOTOR", QtyInProduct: 2},
	}, "u1")
	assert.Error(t, err)
}
