package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// sliceRowSource yields a fixed set of rows, optionally failing after them
type sliceRowSource struct {
	rows []ImportRow
	next int
	err  error
}

func (s *sliceRowSource) Next() (ImportRow, bool, error) {
	if s.next < len(s.rows) {
		row := s.rows[s.next]
		s.next++
		return row, true, nil
	}
	if s.err != nil {
		return ImportRow{}, false, s.err
	}
	return ImportRow{}, false, nil
}

func goodImportRow(rowNumber int, productID uuid.UUID) ImportRow {
	return ImportRow{
		RowNumber:        rowNumber,
		ProductID:        productID.String(),
		Supplier:         "AutoSpares",
		SupplierLocation: "Pune",
		SupplierMobile:   "9876543210",
		Quantity:         "4",
		Rate:             "150",
		GST:              "18%",
		ExpiryDate:       "2027-06-30",
	}
}

func TestImportService_Import(t *testing.T) {
	garageID := uuid.New()
	supplierPhone := valueobject.MustNewPhone("9876543210")

	t.Run("imports rows and upserts the supplier by identity", func(t *testing.T) {
		m := newStockMocks()
		partA := createTestPart(t, garageID, 0)
		partB := createTestPart(t, garageID, 2)
		existing, err := catalog.NewSupplier(garageID, "AutoSpares", supplierPhone, "Pune")
		require.NoError(t, err)

		var createdSupplier *catalog.Supplier
		m.suppliers.On("FindByIdentity", mock.Anything, garageID, "AutoSpares", supplierPhone, "Pune").
			Return(nil, shared.NewNotFoundError("supplier")).Once()
		m.suppliers.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Supplier")).
			Run(func(args mock.Arguments) {
				createdSupplier = args.Get(1).(*catalog.Supplier)
			}).Return(nil).Once()
		m.suppliers.On("FindByIdentity", mock.Anything, garageID, "AutoSpares", supplierPhone, "Pune").
			Return(existing, nil).Once()

		var saved []*inventory.StockInward
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, partA.ID).Return(partA, nil).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, partB.ID).Return(partB, nil).Once()
		m.parts.On("Save", mock.Anything, mock.Anything).Return(nil).Times(2)
		m.inwards.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockInward")).
			Run(func(args mock.Arguments) {
				saved = append(saved, args.Get(1).(*inventory.StockInward))
			}).Return(nil).Times(2)

		source := &sliceRowSource{rows: []ImportRow{
			goodImportRow(2, partA.ID),
			goodImportRow(3, partB.ID),
		}}
		var results []RowResult
		svc := NewImportService(m.scope(), zap.NewNop())

		summary, err := svc.Import(context.Background(), garageID, source, func(r RowResult) {
			results = append(results, r)
		})

		require.NoError(t, err)
		assert.Equal(t, ImportSummary{Total: 2, Succeeded: 2, Failed: 0}, summary)
		require.Len(t, results, 2)
		assert.True(t, results[0].Succeeded)
		assert.True(t, results[1].Succeeded)
		assert.Equal(t, 2, results[0].RowNumber)
		assert.Equal(t, saved[0].ID.String(), results[0].MovementID)

		require.NotNil(t, createdSupplier)
		assert.Equal(t, "AutoSpares", createdSupplier.Name)
		assert.Equal(t, "Pune", createdSupplier.Location)

		require.Len(t, saved, 2)
		assert.Equal(t, createdSupplier.ID, saved[0].SupplierID)
		assert.Equal(t, existing.ID, saved[1].SupplierID)
		assert.Equal(t, 4, saved[0].Quantity)
		assert.True(t, saved[0].Rate.Amount().Equal(decimal.NewFromInt(150)))
		assert.True(t, saved[0].TotalPrice.Amount().Equal(decimal.NewFromInt(600)))
		assert.True(t, saved[0].GST.Decimal().Equal(decimal.NewFromInt(18)))
		assert.True(t, saved[0].TrackExpiry)
		require.NotNil(t, saved[0].ExpiryDate)

		assert.Equal(t, 4, partA.CurrentStock())
		assert.Equal(t, 6, partB.CurrentStock())
		m.suppliers.AssertExpectations(t)
		m.inwards.AssertExpectations(t)
	})

	t.Run("a malformed row fails alone", func(t *testing.T) {
		m := newStockMocks()
		partA := createTestPart(t, garageID, 0)
		partB := createTestPart(t, garageID, 0)
		existing, err := catalog.NewSupplier(garageID, "AutoSpares", supplierPhone, "Pune")
		require.NoError(t, err)

		m.suppliers.On("FindByIdentity", mock.Anything, garageID, "AutoSpares", supplierPhone, "Pune").
			Return(existing, nil).Times(2)
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, partA.ID).Return(partA, nil).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, partB.ID).Return(partB, nil).Once()
		m.parts.On("Save", mock.Anything, mock.Anything).Return(nil).Times(2)
		m.inwards.On("Save", mock.Anything, mock.Anything).Return(nil).Times(2)

		badRow := goodImportRow(3, partA.ID)
		badRow.Quantity = "a few"
		source := &sliceRowSource{rows: []ImportRow{
			goodImportRow(2, partA.ID),
			badRow,
			goodImportRow(4, partB.ID),
		}}
		var results []RowResult
		svc := NewImportService(m.scope(), zap.NewNop())

		summary, err := svc.Import(context.Background(), garageID, source, func(r RowResult) {
			results = append(results, r)
		})

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 1, summary.Failed)
		require.Len(t, results, 3)
		assert.False(t, results[1].Succeeded)
		assert.Equal(t, 3, results[1].RowNumber)
		assert.Contains(t, results[1].Error, "quantity")
		assert.True(t, results[2].Succeeded)
	})

	t.Run("a row failing inside its transaction does not stop the run", func(t *testing.T) {
		m := newStockMocks()
		missing := uuid.New()
		part := createTestPart(t, garageID, 0)
		existing, err := catalog.NewSupplier(garageID, "AutoSpares", supplierPhone, "Pune")
		require.NoError(t, err)

		m.suppliers.On("FindByIdentity", mock.Anything, garageID, "AutoSpares", supplierPhone, "Pune").
			Return(existing, nil).Times(2)
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, missing).
			Return(nil, shared.NewNotFoundError("part")).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, part.ID).Return(part, nil).Once()
		m.parts.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		m.inwards.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		source := &sliceRowSource{rows: []ImportRow{
			goodImportRow(2, missing),
			goodImportRow(3, part.ID),
		}}
		var results []RowResult
		svc := NewImportService(m.scope(), zap.NewNop())

		summary, err := svc.Import(context.Background(), garageID, source, func(r RowResult) {
			results = append(results, r)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 1, summary.Failed)
		assert.Contains(t, results[0].Error, "not found")
		assert.Equal(t, 4, part.CurrentStock())
	})

	t.Run("an invalid supplier phone fails the row before any write", func(t *testing.T) {
		m := newStockMocks()
		row := goodImportRow(2, uuid.New())
		row.SupplierMobile = "12"
		source := &sliceRowSource{rows: []ImportRow{row}}
		svc := NewImportService(m.scope(), zap.NewNop())

		var results []RowResult
		summary, err := svc.Import(context.Background(), garageID, source, func(r RowResult) {
			results = append(results, r)
		})

		require.NoError(t, err)
		assert.Equal(t, ImportSummary{Total: 1, Failed: 1}, summary)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Error, "supplier_mobile")
		m.suppliers.AssertNotCalled(t, "FindByIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a broken source aborts with an external dependency failure", func(t *testing.T) {
		m := newStockMocks()
		part := createTestPart(t, garageID, 0)
		existing, err := catalog.NewSupplier(garageID, "AutoSpares", supplierPhone, "Pune")
		require.NoError(t, err)

		m.suppliers.On("FindByIdentity", mock.Anything, garageID, "AutoSpares", supplierPhone, "Pune").
			Return(existing, nil).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, part.ID).Return(part, nil).Once()
		m.parts.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		m.inwards.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		source := &sliceRowSource{
			rows: []ImportRow{goodImportRow(2, part.ID)},
			err:  errors.New("unexpected EOF"),
		}
		svc := NewImportService(m.scope(), zap.NewNop())

		summary, err := svc.Import(context.Background(), garageID, source, nil)

		domainErr := assertDomainCode(t, err, "EXTERNAL_DEPENDENCY_FAILURE")
		assert.Equal(t, "import source", domainErr.Details["dependency"])
		assert.Equal(t, 1, summary.Succeeded)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		m := newStockMocks()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc := NewImportService(m.scope(), zap.NewNop())

		summary, err := svc.Import(ctx, garageID, &sliceRowSource{rows: []ImportRow{goodImportRow(2, uuid.New())}}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, summary.Total)
	})
}
