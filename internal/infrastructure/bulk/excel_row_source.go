// Package bulk reads stock import uploads into rows the import service can
// consume one at a time.
package bulk

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	appinventory "github.com/garagehq/gms-backend/internal/application/inventory"
)

var _ appinventory.RowSource = (*ExcelRowSource)(nil)

// Column order of the import sheet. The first row is a header and is skipped.
const importColumns = 16

// ExcelRowSource streams rows from an uploaded .xlsx workbook. Rows are read
// through the excelize iterator so large sheets are never held in memory.
type ExcelRowSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	rowNum  int
	skipped bool
}

// NewExcelRowSource opens the first sheet of the workbook read from r.
func NewExcelRowSource(r io.Reader) (*ExcelRowSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return &ExcelRowSource{file: f, rows: rows}, nil
}

// Next returns the next data row. The header row and fully empty rows are
// skipped; ok is false when the sheet is exhausted.
func (s *ExcelRowSource) Next() (appinventory.ImportRow, bool, error) {
	for s.rows.Next() {
		s.rowNum++
		cols, err := s.rows.Columns()
		if err != nil {
			return appinventory.ImportRow{}, false, fmt.Errorf("failed to read row %d: %w", s.rowNum, err)
		}

		if !s.skipped {
			s.skipped = true
			continue
		}
		if isEmptyRow(cols) {
			continue
		}

		return rowFromColumns(s.rowNum, cols), true, nil
	}

	if err := s.rows.Error(); err != nil {
		return appinventory.ImportRow{}, false, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return appinventory.ImportRow{}, false, nil
}

// Close releases the workbook. Call it after the import run finishes.
func (s *ExcelRowSource) Close() error {
	if err := s.rows.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func rowFromColumns(rowNum int, cols []string) appinventory.ImportRow {
	padded := make([]string, importColumns)
	for i := 0; i < importColumns && i < len(cols); i++ {
		padded[i] = strings.TrimSpace(cols[i])
	}

	return appinventory.ImportRow{
		RowNumber:           rowNum,
		ProductID:           padded[0],
		Supplier:            padded[1],
		SupplierLocation:    padded[2],
		SupplierMobile:      padded[3],
		Quantity:            padded[4],
		Rate:                padded[5],
		Discount:            padded[6],
		GST:                 padded[7],
		TotalPrice:          padded[8],
		SupplierInvoiceNo:   padded[9],
		SupplierInvoiceDate: padded[10],
		Location:            padded[11],
		Rack:                padded[12],
		ExpiryDate:          padded[13],
		Warranty:            padded[14],
		Remarks:             padded[15],
	}
}

func isEmptyRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
