// Package registry holds the customer and vehicle masters plus the
// normalised per-garage vehicle brand/model catalogue.
package registry

import (
	"strings"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// Customer is identified within a garage by its phone number
type Customer struct {
	shared.GarageAggregateRoot
	Name     string            `gorm:"size:255;not null"`
	Phone    valueobject.Phone `gorm:"size:20;not null"`
	Email    string            `gorm:"size:255"`
	GST      string            `gorm:"size:20"`
	Address  string            `gorm:"type:text"`
	Pincode  string            `gorm:"size:10"`
	AltPhone string            `gorm:"size:20"`
	Comments string            `gorm:"type:text"`

	// Associations - loaded lazily
	Vehicles []Vehicle `gorm:"foreignKey:CustomerID;references:ID"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// CustomerFields carries the mutable attributes of a customer
type CustomerFields struct {
	Name     string
	Email    string
	GST      string
	Address  string
	Pincode  string
	AltPhone string
	Comments string
}

// NewCustomer creates a new customer
func NewCustomer(garageID uuid.UUID, name string, phone valueobject.Phone, fields CustomerFields) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if phone.IsZero() {
		return nil, shared.NewValidationError("phone", "cannot be empty")
	}
	return &Customer{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Name:                name,
		Phone:               phone,
		Email:               fields.Email,
		GST:                 fields.GST,
		Address:             fields.Address,
		Pincode:             fields.Pincode,
		AltPhone:            fields.AltPhone,
		Comments:            fields.Comments,
	}, nil
}

// Merge applies the non-empty fields of the request onto the existing
// customer. The phone identity never changes through a merge.
func (c *Customer) Merge(fields CustomerFields) {
	changed := false
	if name := strings.TrimSpace(fields.Name); name != "" && name != c.Name {
		c.Name = name
		changed = true
	}
	if fields.Email != "" && fields.Email != c.Email {
		c.Email = fields.Email
		changed = true
	}
	if fields.GST != "" && fields.GST != c.GST {
		c.GST = fields.GST
		changed = true
	}
	if fields.Address != "" && fields.Address != c.Address {
		c.Address = fields.Address
		changed = true
	}
	if fields.Pincode != "" && fields.Pincode != c.Pincode {
		c.Pincode = fields.Pincode
		changed = true
	}
	if fields.AltPhone != "" && fields.AltPhone != c.AltPhone {
		c.AltPhone = fields.AltPhone
		changed = true
	}
	if fields.Comments != "" && fields.Comments != c.Comments {
		c.Comments = fields.Comments
		changed = true
	}
	if changed {
		c.Touch()
		c.IncrementVersion()
	}
}
