// Package identity holds the garage tenant and its staff accounts.
package identity

import (
	"strings"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// Garage is the tenant root. Every other aggregate is scoped to one garage.
// Code is the short numeric identity used in invoice and estimate numbers.
type Garage struct {
	shared.BaseAggregateRoot
	Code      int    `gorm:"not null;uniqueIndex"`
	Name      string `gorm:"size:255;not null"`
	Address   string `gorm:"type:text"`
	City      string `gorm:"size:100"`
	Pincode   string `gorm:"size:10"`
	GSTIN     string `gorm:"size:20"`
	PAN       string `gorm:"size:15"`
	Latitude  *float64
	Longitude *float64
	Terms     string `gorm:"type:text"` // printed on invoices and estimates
	Active    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Garage) TableName() string {
	return "garages"
}

// GarageFields carries the mutable attributes of a garage
type GarageFields struct {
	Name      string
	Address   string
	City      string
	Pincode   string
	GSTIN     string
	PAN       string
	Latitude  *float64
	Longitude *float64
	Terms     string
}

// NewGarage creates a garage tenant
func NewGarage(code int, fields GarageFields) (*Garage, error) {
	if code <= 0 {
		return nil, shared.NewValidationError("code", "must be positive")
	}
	if strings.TrimSpace(fields.Name) == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	return &Garage{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(fields.Name),
		Address:           fields.Address,
		City:              fields.City,
		Pincode:           fields.Pincode,
		GSTIN:             fields.GSTIN,
		PAN:               fields.PAN,
		Latitude:          fields.Latitude,
		Longitude:         fields.Longitude,
		Terms:             fields.Terms,
		Active:            true,
	}, nil
}

// Update applies new field values
func (g *Garage) Update(fields GarageFields) error {
	if strings.TrimSpace(fields.Name) == "" {
		return shared.NewValidationError("name", "cannot be empty")
	}
	g.Name = strings.TrimSpace(fields.Name)
	g.Address = fields.Address
	g.City = fields.City
	g.Pincode = fields.Pincode
	g.GSTIN = fields.GSTIN
	g.PAN = fields.PAN
	g.Latitude = fields.Latitude
	g.Longitude = fields.Longitude
	g.Terms = fields.Terms
	g.Touch()
	g.IncrementVersion()
	return nil
}

// Deactivate disables the garage without deleting its data
func (g *Garage) Deactivate() {
	g.Active = false
	g.Touch()
	g.IncrementVersion()
}
