package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// ServiceItem is the per-garage service catalogue entry. External ad-hoc
// services on a jobcard are promoted into this catalogue keyed by
// (garage, name) so they can be re-used.
type ServiceItem struct {
	shared.GarageAggregateRoot
	Name        string              `gorm:"size:255;not null"`
	Code        string              `gorm:"size:50"`
	Description string              `gorm:"type:text"`
	Value       valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	Tax         valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	Discount    valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	CategoryID  *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ServiceItem) TableName() string {
	return "services"
}

// NewServiceItem creates a new service catalogue entry
func NewServiceItem(garageID uuid.UUID, name string, value valueobject.Money, tax, discount valueobject.Percent) (*ServiceItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if value.IsNegative() {
		return nil, shared.NewValidationError("value", "cannot be negative")
	}
	return &ServiceItem{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Name:                name,
		Value:               value,
		Tax:                 tax,
		Discount:            discount,
	}, nil
}

// UpdatePricing replaces the service's value, tax and discount
func (s *ServiceItem) UpdatePricing(value valueobject.Money, tax, discount valueobject.Percent) error {
	if value.IsNegative() {
		return shared.NewValidationError("value", "cannot be negative")
	}
	s.Value = value
	s.Tax = tax
	s.Discount = discount
	s.Touch()
	s.IncrementVersion()
	return nil
}
