package inventory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// ImportRow is one stock-inward row as read from an upload sheet. All fields
// arrive as strings; parsing and validation happen per row so one bad cell
// fails only its own row.
type ImportRow struct {
	RowNumber           int
	ProductID           string
	Supplier            string
	SupplierLocation    string
	SupplierMobile      string
	Quantity            string
	Rate                string
	Discount            string
	GST                 string
	TotalPrice          string
	SupplierInvoiceNo   string
	SupplierInvoiceDate string
	Location            string
	Rack                string
	ExpiryDate          string
	Warranty            string
	Remarks             string
}

// RowSource yields import rows one at a time so large files never need to be
// buffered whole.
type RowSource interface {
	// Next returns the next row. ok is false when the source is exhausted.
	Next() (row ImportRow, ok bool, err error)
}

// RowResult reports the outcome of one imported row
type RowResult struct {
	RowNumber  int    `json:"row_number"`
	Succeeded  bool   `json:"succeeded"`
	MovementID string `json:"movement_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ImportSummary totals an import run
type ImportSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

const importDateLayout = "2006-01-02"

// ImportService streams stock-inward rows from an upload into the ledger.
// Each row runs in its own transaction; a failed row does not roll back the
// rows before it.
type ImportService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(txScope TransactionScope, logger *zap.Logger) *ImportService {
	return &ImportService{txScope: txScope, logger: logger}
}

// Import consumes the source until exhaustion, emitting one RowResult per row
// as it completes. The emit callback lets callers stream progress to the UI.
func (s *ImportService) Import(ctx context.Context, garageID uuid.UUID, source RowSource, emit func(RowResult)) (ImportSummary, error) {
	var summary ImportSummary
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		row, ok, err := source.Next()
		if err != nil {
			return summary, shared.NewExternalDependencyError("import source", err)
		}
		if !ok {
			break
		}
		summary.Total++

		result := s.importRow(ctx, garageID, row)
		if result.Succeeded {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if emit != nil {
			emit(result)
		}
	}
	s.logger.Info("stock import finished",
		zap.String("garage_id", garageID.String()),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *ImportService) importRow(ctx context.Context, garageID uuid.UUID, row ImportRow) RowResult {
	fields, supplierKey, err := parseImportRow(row)
	if err != nil {
		return RowResult{RowNumber: row.RowNumber, Error: err.Error()}
	}

	var movementID uuid.UUID
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := upsertSupplier(ctx, repos.SupplierRepo(), garageID, supplierKey)
		if err != nil {
			return err
		}
		fields.SupplierID = supplier.ID

		movement, err := inventory.NewStockInward(garageID, fields)
		if err != nil {
			return err
		}
		part, err := repos.PartRepo().FindByIDForUpdate(ctx, garageID, fields.ProductID)
		if err != nil {
			return err
		}
		if err := part.RecordInward(fields.Quantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}
		if err := repos.InwardRepo().Save(ctx, movement); err != nil {
			return err
		}
		movementID = movement.ID
		return nil
	})
	if err != nil {
		return RowResult{RowNumber: row.RowNumber, Error: err.Error()}
	}
	return RowResult{RowNumber: row.RowNumber, Succeeded: true, MovementID: movementID.String()}
}

type supplierIdentity struct {
	Name     string
	Mobile   valueobject.Phone
	Location string
}

func upsertSupplier(ctx context.Context, repo catalog.SupplierRepository, garageID uuid.UUID, key supplierIdentity) (*catalog.Supplier, error) {
	if existing, err := repo.FindByIdentity(ctx, garageID, key.Name, key.Mobile, key.Location); err == nil && existing != nil {
		return existing, nil
	}
	supplier, err := catalog.NewSupplier(garageID, key.Name, key.Mobile, key.Location)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func parseImportRow(row ImportRow) (inventory.StockInwardFields, supplierIdentity, error) {
	var fields inventory.StockInwardFields
	var key supplierIdentity

	productID, err := uuid.Parse(strings.TrimSpace(row.ProductID))
	if err != nil {
		return fields, key, shared.NewValidationError("product_id", "must be a valid id")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
	if err != nil || quantity <= 0 {
		return fields, key, shared.NewValidationError("quantity", "must be a positive integer")
	}

	rate, err := valueobject.NewMoneyINRFromString(strings.TrimSpace(row.Rate))
	if err != nil {
		return fields, key, shared.NewValidationError("rate", "must be a valid amount")
	}
	total := rate.MultiplyByInt(int64(quantity))
	if strings.TrimSpace(row.TotalPrice) != "" {
		total, err = valueobject.NewMoneyINRFromString(strings.TrimSpace(row.TotalPrice))
		if err != nil {
			return fields, key, shared.NewValidationError("total_price", "must be a valid amount")
		}
	}

	discount, err := parsePercent(row.Discount)
	if err != nil {
		return fields, key, shared.NewValidationError("discount", "must be a percentage in [0,100]")
	}
	gst, err := parsePercent(row.GST)
	if err != nil {
		return fields, key, shared.NewValidationError("gst", "must be a percentage in [0,100]")
	}

	key.Name = strings.TrimSpace(row.Supplier)
	if key.Name == "" {
		return fields, key, shared.NewValidationError("supplier", "cannot be empty")
	}
	key.Location = strings.TrimSpace(row.SupplierLocation)
	key.Mobile, err = valueobject.NewPhone(strings.TrimSpace(row.SupplierMobile))
	if err != nil {
		return fields, key, shared.NewValidationError("supplier_mobile", "must be a valid phone number")
	}

	invoiceDate, err := parseOptionalDate(row.SupplierInvoiceDate)
	if err != nil {
		return fields, key, shared.NewValidationError("supplier_invoice_date", "must be YYYY-MM-DD")
	}
	expiryDate, err := parseOptionalDate(row.ExpiryDate)
	if err != nil {
		return fields, key, shared.NewValidationError("expiry_date", "must be YYYY-MM-DD")
	}

	fields = inventory.StockInwardFields{
		ProductID:           productID,
		Quantity:            quantity,
		Rate:                rate,
		Discount:            discount,
		GST:                 gst,
		TotalPrice:          total,
		SupplierInvoiceNo:   strings.TrimSpace(row.SupplierInvoiceNo),
		SupplierInvoiceDate: invoiceDate,
		Location:            strings.TrimSpace(row.Location),
		Rack:                strings.TrimSpace(row.Rack),
		TrackExpiry:         expiryDate != nil,
		ExpiryDate:          expiryDate,
		Warranty:            strings.TrimSpace(row.Warranty),
		Remarks:             strings.TrimSpace(row.Remarks),
	}
	return fields, key, nil
}

func parsePercent(raw string) (valueobject.Percent, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return valueobject.ZeroPercent(), nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return valueobject.Percent{}, err
	}
	return valueobject.NewPercent(value)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(importDateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
