package jobcard

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehq/gms-backend/internal/domain/pricing"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// LineSource distinguishes catalogue-bound lines from ad-hoc ones
type LineSource string

const (
	SourceInternal LineSource = "internal"
	SourceExternal LineSource = "external"
)

// IsValid reports whether the source tag is known
func (s LineSource) IsValid() bool {
	return s == SourceInternal || s == SourceExternal
}

// PartLine is one parts row on a jobcard. Internal lines reference the parts
// master through ProductID; external lines carry free text only.
type PartLine struct {
	shared.BaseEntity
	JobcardID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Source     LineSource `gorm:"size:10;not null"`
	ProductID  *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"size:255;not null"`
	PartNumber string     `gorm:"size:100"`
	Code       string     `gorm:"size:50"`
	Quantity   int        `gorm:"not null"`
	Value      valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	Tax        valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	Discount   valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PartLine) TableName() string {
	return "jobcard_parts"
}

// PartLineFields carries the attributes of a parts line
type PartLineFields struct {
	Source     LineSource
	ProductID  *uuid.UUID
	Name       string
	PartNumber string
	Code       string
	Quantity   int
	Value      valueobject.Money
	Tax        valueobject.Percent
	Discount   valueobject.Percent
}

// NewPartLine creates a parts line after validating the source invariant:
// internal lines require a product, external lines must not carry one.
func NewPartLine(jobcardID uuid.UUID, fields PartLineFields) (*PartLine, error) {
	if err := validateLineSource(fields.Source, fields.ProductID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fields.Name) == "" {
		return nil, shared.NewValidationError("part_name", "cannot be empty")
	}
	if fields.Quantity < 1 {
		return nil, shared.NewValidationError("quantity", "must be at least 1")
	}
	if fields.Value.IsNegative() {
		return nil, shared.NewValidationError("part_value", "cannot be negative")
	}
	return &PartLine{
		BaseEntity: shared.NewBaseEntity(),
		JobcardID:  jobcardID,
		Source:     fields.Source,
		ProductID:  fields.ProductID,
		Name:       strings.TrimSpace(fields.Name),
		PartNumber: fields.PartNumber,
		Code:       fields.Code,
		Quantity:   fields.Quantity,
		Value:      fields.Value,
		Tax:        fields.Tax,
		Discount:   fields.Discount,
	}, nil
}

// IsInternal reports whether the line draws from the parts master
func (l *PartLine) IsInternal() bool {
	return l.Source == SourceInternal
}

// PricingInput maps the line onto the shared line calculator
func (l *PartLine) PricingInput() pricing.LineInput {
	return pricing.LineInput{
		UnitValue:   l.Value,
		Quantity:    decimal.NewFromInt(int64(l.Quantity)),
		DiscountPct: l.Discount,
		TaxPct:      l.Tax,
	}
}

// ServiceLine is one services row on a jobcard
type ServiceLine struct {
	shared.BaseEntity
	JobcardID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Source    LineSource `gorm:"size:10;not null"`
	ServiceID *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"size:255;not null"`
	Code      string     `gorm:"size:50"`
	Quantity  int        `gorm:"not null"`
	Value     valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	Tax       valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	Discount  valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ServiceLine) TableName() string {
	return "jobcard_services"
}

// ServiceLineFields carries the attributes of a service line
type ServiceLineFields struct {
	Source    LineSource
	ServiceID *uuid.UUID
	Name      string
	Code      string
	Quantity  int
	Value     valueobject.Money
	Tax       valueobject.Percent
	Discount  valueobject.Percent
}

// NewServiceLine creates a service line after validating the source invariant
func NewServiceLine(jobcardID uuid.UUID, fields ServiceLineFields) (*ServiceLine, error) {
	if err := validateLineSource(fields.Source, fields.ServiceID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fields.Name) == "" {
		return nil, shared.NewValidationError("service_name", "cannot be empty")
	}
	if fields.Quantity < 1 {
		return nil, shared.NewValidationError("quantity", "must be at least 1")
	}
	if fields.Value.IsNegative() {
		return nil, shared.NewValidationError("service_value", "cannot be negative")
	}
	return &ServiceLine{
		BaseEntity: shared.NewBaseEntity(),
		JobcardID:  jobcardID,
		Source:     fields.Source,
		ServiceID:  fields.ServiceID,
		Name:       strings.TrimSpace(fields.Name),
		Code:       fields.Code,
		Quantity:   fields.Quantity,
		Value:      fields.Value,
		Tax:        fields.Tax,
		Discount:   fields.Discount,
	}, nil
}

// IsExternal reports whether the line is ad-hoc; such lines are candidates
// for promotion into the service catalogue
func (l *ServiceLine) IsExternal() bool {
	return l.Source == SourceExternal
}

// PricingInput maps the line onto the shared line calculator
func (l *ServiceLine) PricingInput() pricing.LineInput {
	return pricing.LineInput{
		UnitValue:   l.Value,
		Quantity:    decimal.NewFromInt(int64(l.Quantity)),
		DiscountPct: l.Discount,
		TaxPct:      l.Tax,
	}
}

func validateLineSource(source LineSource, ref *uuid.UUID) error {
	if !source.IsValid() {
		return shared.NewValidationError("source", "must be internal or external")
	}
	if source == SourceInternal && (ref == nil || *ref == uuid.Nil) {
		return shared.NewValidationError("source", "internal lines require a catalogue reference")
	}
	if source == SourceExternal && ref != nil && *ref != uuid.Nil {
		return shared.NewValidationError("source", "external lines must not carry a catalogue reference")
	}
	return nil
}
