// Package billing implements invoices and estimates as numbered projections
// of a jobcard or of direct line selections.
package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehq/gms-backend/internal/domain/pricing"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// DocumentKind distinguishes invoices from estimates. Both share the same
// shape and numbering scheme; only their sequences are independent.
type DocumentKind string

const (
	KindInvoice  DocumentKind = "invoice"
	KindEstimate DocumentKind = "estimate"
)

// Status is the document state machine: created to dispatched, forward only
type Status string

const (
	StatusCreated    Status = "created"
	StatusDispatched Status = "dispatched"
)

// LineKind distinguishes part lines from service lines on a document
type LineKind string

const (
	LinePart    LineKind = "part"
	LineService LineKind = "service"
)

// DocumentLine is one row of an invoice or estimate, mirroring the jobcard
// line shape
type DocumentLine struct {
	shared.BaseEntity
	DocumentID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind       LineKind   `gorm:"size:10;not null"`
	Source     string     `gorm:"size:10;not null"` // internal or external
	RefID      *uuid.UUID `gorm:"type:uuid"`        // product or service id for internal lines
	Name       string     `gorm:"size:255;not null"`
	Code       string     `gorm:"size:50"`
	Quantity   int        `gorm:"not null"`
	Value      valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	Tax        valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	Discount   valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	// StockIssued marks internal part lines whose outward movement has been
	// emitted, guarding against double issuance between the jobcard
	// finalisation path and direct invoice creation
	StockIssued bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DocumentLine) TableName() string {
	return "billing_document_lines"
}

// IsInternalPart reports whether the line draws stock from the parts master
func (l *DocumentLine) IsInternalPart() bool {
	return l.Kind == LinePart && l.Source == "internal" && l.RefID != nil
}

// PricingInput maps the line onto the shared line calculator
func (l *DocumentLine) PricingInput() pricing.LineInput {
	return pricing.LineInput{
		UnitValue:   l.Value,
		Quantity:    decimal.NewFromInt(int64(l.Quantity)),
		DiscountPct: l.Discount,
		TaxPct:      l.Tax,
	}
}

// Document is the invoice/estimate aggregate root
type Document struct {
	shared.GarageAggregateRoot
	Kind       DocumentKind `gorm:"size:10;not null;index"`
	Number     string       `gorm:"size:30;not null"`
	Date       time.Time    `gorm:"not null"`
	PONo       string       `gorm:"size:50"`
	PODate     *time.Time
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name       string     `gorm:"size:255;not null"`
	VehicleID  *uuid.UUID `gorm:"type:uuid;index"`
	JobcardID  *uuid.UUID `gorm:"type:uuid;index"`
	Status     Status     `gorm:"size:15;not null;default:'created'"`
	Amount     valueobject.Money `gorm:"type:decimal(14,2);not null"`
	Comments   string            `gorm:"type:text"`
	// Documents are soft-deleted so number generation can still see the
	// maximum sequence ever assigned; numbers are never reissued
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Associations - loaded lazily
	Lines []DocumentLine `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "billing_documents"
}

// DocumentFields carries the attributes of a new document
type DocumentFields struct {
	Number     string
	Date       time.Time
	PONo       string
	PODate     *time.Time
	CustomerID uuid.UUID
	Name       string
	VehicleID  *uuid.UUID
	JobcardID  *uuid.UUID
	Comments   string
}

// DocumentLineFields carries the attributes of a document line
type DocumentLineFields struct {
	Kind     LineKind
	Source   string
	RefID    *uuid.UUID
	Name     string
	Code     string
	Quantity int
	Value    valueobject.Money
	Tax      valueobject.Percent
	Discount valueobject.Percent
}

// NewDocument creates a document in the created state. The number must be
// pre-generated inside the creating transaction.
func NewDocument(garageID uuid.UUID, kind DocumentKind, fields DocumentFields) (*Document, error) {
	if kind != KindInvoice && kind != KindEstimate {
		return nil, shared.NewValidationError("kind", "must be invoice or estimate")
	}
	if fields.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "cannot be empty")
	}
	if _, err := ParseSequence(fields.Number); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fields.Name) == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if fields.Date.IsZero() {
		fields.Date = time.Now().UTC()
	}
	return &Document{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Kind:                kind,
		Number:              strings.TrimSpace(fields.Number),
		Date:                fields.Date,
		PONo:                fields.PONo,
		PODate:              fields.PODate,
		CustomerID:          fields.CustomerID,
		Name:                strings.TrimSpace(fields.Name),
		VehicleID:           fields.VehicleID,
		JobcardID:           fields.JobcardID,
		Status:              StatusCreated,
		Amount:              valueobject.ZeroINR(),
	}, nil
}

// AddLine appends a line and refreshes the amount
func (d *Document) AddLine(fields DocumentLineFields) (*DocumentLine, error) {
	if fields.Kind != LinePart && fields.Kind != LineService {
		return nil, shared.NewValidationError("kind", "must be part or service")
	}
	if fields.Source != "internal" && fields.Source != "external" {
		return nil, shared.NewValidationError("source", "must be internal or external")
	}
	if fields.Source == "internal" && (fields.RefID == nil || *fields.RefID == uuid.Nil) {
		return nil, shared.NewValidationError("source", "internal lines require a catalogue reference")
	}
	if strings.TrimSpace(fields.Name) == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if fields.Quantity < 1 {
		return nil, shared.NewValidationError("quantity", "must be at least 1")
	}
	line := &DocumentLine{
		BaseEntity: shared.NewBaseEntity(),
		DocumentID: d.ID,
		Kind:       fields.Kind,
		Source:     fields.Source,
		RefID:      fields.RefID,
		Name:       strings.TrimSpace(fields.Name),
		Code:       fields.Code,
		Quantity:   fields.Quantity,
		Value:      fields.Value,
		Tax:        fields.Tax,
		Discount:   fields.Discount,
	}
	d.Lines = append(d.Lines, *line)
	if err := d.RefreshAmount(); err != nil {
		d.Lines = d.Lines[:len(d.Lines)-1]
		return nil, err
	}
	return line, nil
}

// RefreshAmount recomputes the document amount from its lines
func (d *Document) RefreshAmount() error {
	results := make([]pricing.LineResult, 0, len(d.Lines))
	for _, l := range d.Lines {
		r, err := pricing.ComputeLine(l.PricingInput())
		if err != nil {
			return err
		}
		results = append(results, r)
	}
	d.Amount = pricing.Aggregate(results).TotalAmount
	d.Touch()
	return nil
}

// ComputeTotals aggregates the document's line amounts
func (d *Document) ComputeTotals() (pricing.Totals, error) {
	results := make([]pricing.LineResult, 0, len(d.Lines))
	for _, l := range d.Lines {
		r, err := pricing.ComputeLine(l.PricingInput())
		if err != nil {
			return pricing.Totals{}, err
		}
		results = append(results, r)
	}
	return pricing.Aggregate(results), nil
}

// Dispatch moves the document forward. Backward or lateral transitions are
// rejected.
func (d *Document) Dispatch() error {
	if d.Status != StatusCreated {
		return shared.NewIllegalTransitionError(string(d.Status), string(StatusDispatched))
	}
	d.Status = StatusDispatched
	d.Touch()
	d.IncrementVersion()
	return nil
}

// UnissuedInternalParts returns internal part lines whose stock outward has
// not been emitted yet
func (d *Document) UnissuedInternalParts() []DocumentLine {
	pending := make([]DocumentLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.IsInternalPart() && !l.StockIssued {
			pending = append(pending, l)
		}
	}
	return pending
}

// MarkStockIssued flags a line's outward movement as emitted
func (d *Document) MarkStockIssued(lineID uuid.UUID) error {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			d.Lines[i].StockIssued = true
			d.Touch()
			return nil
		}
	}
	return shared.NewNotFoundError("document line")
}
