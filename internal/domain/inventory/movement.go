// Package inventory holds the stock-ledger movement rows. The running
// counters live on the part aggregate; these rows are the append-only
// history that the counters summarise.
package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// UsagePurpose tags why stock was issued
type UsagePurpose string

const (
	UsageJobcard UsagePurpose = "Jobcard"
	UsageInvoice UsagePurpose = "Invoice"
	UsageManual  UsagePurpose = "Manual"
)

// IsValid reports whether the usage purpose is one of the known tags
func (u UsagePurpose) IsValid() bool {
	switch u {
	case UsageJobcard, UsageInvoice, UsageManual:
		return true
	}
	return false
}

// StockInward records a receipt of stock against a part
type StockInward struct {
	shared.GarageAggregateRoot
	ProductID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Quantity           int                 `gorm:"not null"`
	Rate               valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	Discount           valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	GST                valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	TotalPrice         valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	PriceIncludesGST   bool                `gorm:"not null;default:false"`
	SupplierID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierInvoiceNo  string              `gorm:"size:100"`
	SupplierInvoiceDate *time.Time
	Location           string `gorm:"size:100"`
	Rack               string `gorm:"size:50"`
	TrackExpiry        bool   `gorm:"not null;default:false"`
	ExpiryDate         *time.Time
	Warranty           string `gorm:"size:100"`
	Remarks            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockInward) TableName() string {
	return "stock_inwards"
}

// StockInwardFields carries the attributes of an inward movement
type StockInwardFields struct {
	ProductID           uuid.UUID
	Quantity            int
	Rate                valueobject.Money
	Discount            valueobject.Percent
	GST                 valueobject.Percent
	TotalPrice          valueobject.Money
	PriceIncludesGST    bool
	SupplierID          uuid.UUID
	SupplierInvoiceNo   string
	SupplierInvoiceDate *time.Time
	Location            string
	Rack                string
	TrackExpiry         bool
	ExpiryDate          *time.Time
	Warranty            string
	Remarks             string
}

// NewStockInward creates a new inward movement row
func NewStockInward(garageID uuid.UUID, fields StockInwardFields) (*StockInward, error) {
	if fields.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "cannot be empty")
	}
	if fields.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "must be positive")
	}
	if fields.SupplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier_id", "cannot be empty")
	}
	if fields.Rate.IsNegative() {
		return nil, shared.NewValidationError("rate", "cannot be negative")
	}
	if fields.TrackExpiry && fields.ExpiryDate == nil {
		return nil, shared.NewValidationError("expiry_date", "required when tracking expiry")
	}
	return &StockInward{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		ProductID:           fields.ProductID,
		Quantity:            fields.Quantity,
		Rate:                fields.Rate,
		Discount:            fields.Discount,
		GST:                 fields.GST,
		TotalPrice:          fields.TotalPrice,
		PriceIncludesGST:    fields.PriceIncludesGST,
		SupplierID:          fields.SupplierID,
		SupplierInvoiceNo:   fields.SupplierInvoiceNo,
		SupplierInvoiceDate: fields.SupplierInvoiceDate,
		Location:            fields.Location,
		Rack:                fields.Rack,
		TrackExpiry:         fields.TrackExpiry,
		ExpiryDate:          fields.ExpiryDate,
		Warranty:            fields.Warranty,
		Remarks:             fields.Remarks,
	}, nil
}

// QuantityDelta returns the difference a new quantity introduces against
// this row, used when an inwards row is edited
func (s *StockInward) QuantityDelta(newQuantity int) (int, error) {
	if newQuantity <= 0 {
		return 0, shared.NewValidationError("quantity", "must be positive")
	}
	return newQuantity - s.Quantity, nil
}

// UpdateQuantity replaces the row quantity. The caller applies the returned
// delta to the part counters in the same transaction.
func (s *StockInward) UpdateQuantity(newQuantity int) error {
	if newQuantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	s.Quantity = newQuantity
	s.Touch()
	s.IncrementVersion()
	return nil
}

// StockOutward records an issue of stock against a part
type StockOutward struct {
	shared.GarageAggregateRoot
	ProductID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Quantity          int                 `gorm:"not null"`
	Rate              valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	Discount          valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	GST               valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	TotalPrice        valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	IssuedTo          string              `gorm:"size:255"`
	IssuedDate        *time.Time
	UsagePurpose      UsagePurpose `gorm:"size:20;not null"`
	ReferenceDocument string       `gorm:"size:100;index"`
	Location          string       `gorm:"size:100"`
	Rack              string       `gorm:"size:50"`
	Remarks           string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockOutward) TableName() string {
	return "stock_outwards"
}

// StockOutwardFields carries the attributes of an outward movement
type StockOutwardFields struct {
	ProductID         uuid.UUID
	Quantity          int
	Rate              valueobject.Money
	Discount          valueobject.Percent
	GST               valueobject.Percent
	TotalPrice        valueobject.Money
	IssuedTo          string
	IssuedDate        *time.Time
	UsagePurpose      UsagePurpose
	ReferenceDocument string
	Location          string
	Rack              string
	Remarks           string
}

// NewStockOutward creates a new outward movement row. The stock guard lives
// on the part aggregate; this constructor validates shape only.
func NewStockOutward(garageID uuid.UUID, fields StockOutwardFields) (*StockOutward, error) {
	if fields.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("product_id", "cannot be empty")
	}
	if fields.Quantity <= 0 {
		return nil, shared.NewValidationError("quantity", "must be positive")
	}
	if !fields.UsagePurpose.IsValid() {
		return nil, shared.NewValidationError("usage_purpose", "must be Jobcard, Invoice or Manual")
	}
	if (fields.UsagePurpose == UsageJobcard || fields.UsagePurpose == UsageInvoice) && fields.ReferenceDocument == "" {
		return nil, shared.NewValidationError("reference_document", "required for jobcard and invoice issues")
	}
	return &StockOutward{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		ProductID:           fields.ProductID,
		Quantity:            fields.Quantity,
		Rate:                fields.Rate,
		Discount:            fields.Discount,
		GST:                 fields.GST,
		TotalPrice:          fields.TotalPrice,
		IssuedTo:            fields.IssuedTo,
		IssuedDate:          fields.IssuedDate,
		UsagePurpose:        fields.UsagePurpose,
		ReferenceDocument:   fields.ReferenceDocument,
		Location:            fields.Location,
		Rack:                fields.Rack,
		Remarks:             fields.Remarks,
	}, nil
}

// LineValue computes the discounted, taxed value of the movement from its
// rate and quantity
func (s *StockOutward) LineValue() decimal.Decimal {
	gross := s.Rate.MultiplyByInt(int64(s.Quantity))
	taxable := gross.ApplyDiscount(s.Discount.Decimal())
	tax := taxable.CalculatePercentage(s.GST.Decimal())
	return taxable.MustAdd(tax).Amount()
}
