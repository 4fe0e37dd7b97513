package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// Category groups parts in the catalogue
type Category struct {
	shared.GarageAggregateRoot
	Name string `gorm:"size:100;not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new part category
func NewCategory(garageID uuid.UUID, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	return &Category{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Name:                name,
	}, nil
}

// Brand is a parts manufacturer brand in the catalogue
type Brand struct {
	shared.GarageAggregateRoot
	Name string `gorm:"size:100;not null"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new parts brand
func NewBrand(garageID uuid.UUID, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	return &Brand{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Name:                name,
	}, nil
}
