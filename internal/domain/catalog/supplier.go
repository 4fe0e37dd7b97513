package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// Supplier is a parts supplier. Suppliers are upserted by
// (garage, name, mobile, location) during bulk stock imports.
type Supplier struct {
	shared.GarageAggregateRoot
	Name     string            `gorm:"size:255;not null"`
	Mobile   valueobject.Phone `gorm:"size:20"`
	Location string            `gorm:"size:255"`
	Email    string            `gorm:"size:255"`
	GSTIN    string            `gorm:"size:20"`
	Address  string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(garageID uuid.UUID, name string, mobile valueobject.Phone, location string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	return &Supplier{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Name:                name,
		Mobile:              mobile,
		Location:            strings.TrimSpace(location),
	}, nil
}

// IdentityMatches reports whether this supplier matches the upsert identity key
func (s *Supplier) IdentityMatches(name string, mobile valueobject.Phone, location string) bool {
	return strings.EqualFold(s.Name, strings.TrimSpace(name)) &&
		s.Mobile.Equals(mobile) &&
		strings.EqualFold(s.Location, strings.TrimSpace(location))
}
