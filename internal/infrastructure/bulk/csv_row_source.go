package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	appinventory "github.com/garagehq/gms-backend/internal/application/inventory"
)

var _ appinventory.RowSource = (*CSVRowSource)(nil)

// CSVRowSource streams rows from a CSV upload with the same column layout as
// the workbook import.
type CSVRowSource struct {
	reader  *csv.Reader
	rowNum  int
	skipped bool
}

// NewCSVRowSource wraps r as a row source.
func NewCSVRowSource(r io.Reader) *CSVRowSource {
	reader := csv.NewReader(r)
	// rows may omit trailing columns
	reader.FieldsPerRecord = -1
	return &CSVRowSource{reader: reader}
}

// Next returns the next data row. The header row and fully empty rows are
// skipped; ok is false at end of input.
func (s *CSVRowSource) Next() (appinventory.ImportRow, bool, error) {
	for {
		record, err := s.reader.Read()
		if errors.Is(err, io.EOF) {
			return appinventory.ImportRow{}, false, nil
		}
		if err != nil {
			return appinventory.ImportRow{}, false, fmt.Errorf("failed to read row %d: %w", s.rowNum+1, err)
		}
		s.rowNum++

		if !s.skipped {
			s.skipped = true
			continue
		}
		if isEmptyRow(record) {
			continue
		}

		return rowFromColumns(s.rowNum, record), true, nil
	}
}
