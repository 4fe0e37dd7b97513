package bulk

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var importHeader = []string{
	"Product ID", "Supplier", "Supplier Location", "Supplier Mobile",
	"Quantity", "Rate", "Discount", "GST", "Total Price",
	"Supplier Invoice No", "Supplier Invoice Date", "Location", "Rack",
	"Expiry Date", "Warranty", "Remarks",
}

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &importHeader))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return &buf
}

func TestExcelRowSource(t *testing.T) {
	t.Run("streams data rows past the header", func(t *testing.T) {
		buf := buildWorkbook(t, [][]string{
			{"d2719f6a-0000-0000-0000-000000000001", "Sai Spares", "Pune", "+919876543210",
				"4", "250.00", "5", "18", "1000.00",
				"INV-88", "2026-02-10", "Aisle 3", "R2", "", "6 months", "bulk order"},
			{"d2719f6a-0000-0000-0000-000000000002", "Sai Spares", "Pune", "+919876543210",
				"1", "1200.00", "0", "28", "1200.00"},
		})

		src, err := NewExcelRowSource(buf)
		require.NoError(t, err)
		defer src.Close()

		row, ok, err := src.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, row.RowNumber)
		assert.Equal(t, "d2719f6a-0000-0000-0000-000000000001", row.ProductID)
		assert.Equal(t, "Sai Spares", row.Supplier)
		assert.Equal(t, "4", row.Quantity)
		assert.Equal(t, "INV-88", row.SupplierInvoiceNo)
		assert.Equal(t, "6 months", row.Warranty)
		assert.Equal(t, "bulk order", row.Remarks)

		row, ok, err = src.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 3, row.RowNumber)
		assert.Equal(t, "1200.00", row.TotalPrice)
		assert.Equal(t, "", row.Remarks)

		_, ok, err = src.Next()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("skips empty rows", func(t *testing.T) {
		buf := buildWorkbook(t, [][]string{
			{"", "", ""},
			{"d2719f6a-0000-0000-0000-000000000003", "Moto Traders", "Nashik", "+918888888888",
				"2", "99.00", "0", "18", "198.00"},
		})

		src, err := NewExcelRowSource(buf)
		require.NoError(t, err)
		defer src.Close()

		row, ok, err := src.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 3, row.RowNumber)
		assert.Equal(t, "Moto Traders", row.Supplier)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := NewExcelRowSource(strings.NewReader("not a workbook"))
		require.Error(t, err)
	})
}

func TestCSVRowSource(t *testing.T) {
	t.Run("streams data rows past the header", func(t *testing.T) {
		input := strings.Join(importHeader, ",") + "\n" +
			"d2719f6a-0000-0000-0000-000000000001,Sai Spares,Pune,+919876543210,4,250.00,5,18,1000.00,INV-88,2026-02-10,Aisle 3,R2,,6 months,bulk order\n" +
			",,,\n" +
			"d2719f6a-0000-0000-0000-000000000002,Sai Spares,Pune,+919876543210,1,1200.00,0,28,1200.00\n"

		src := NewCSVRowSource(strings.NewReader(input))

		row, ok, err := src.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, row.RowNumber)
		assert.Equal(t, "Sai Spares", row.Supplier)
		assert.Equal(t, "Aisle 3", row.Location)

		row, ok, err = src.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 4, row.RowNumber)
		assert.Equal(t, "", row.SupplierInvoiceNo)

		_, ok, err = src.Next()
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
