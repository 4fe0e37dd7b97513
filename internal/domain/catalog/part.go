package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// StockStatus tags a part's stock level relative to its minimum threshold
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Part is the parts-master aggregate root. Stock counts are maintained as
// running inward/outward totals; current stock is always derived, never stored.
type Part struct {
	shared.GarageAggregateRoot
	Code            string              `gorm:"size:50"`
	Name            string              `gorm:"size:255;not null"`
	PartNumber      string              `gorm:"size:100;index"`
	Model           string              `gorm:"size:100"`
	CC              string              `gorm:"size:20"`
	CategoryID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	SubCategory     string              `gorm:"size:100"`
	BrandID         *uuid.UUID          `gorm:"type:uuid;index"`
	Description     string              `gorm:"type:text"`
	Price           valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	GST             valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	Discount        valueobject.Percent `gorm:"type:decimal(5,2);not null;default:0"`
	PurchasePrice   valueobject.Money   `gorm:"type:decimal(14,2);not null"`
	MeasuringUnit   string              `gorm:"size:20;not null;default:'pcs'"`
	MinStock        int                 `gorm:"not null;default:0"`
	PriceIncludesGST bool               `gorm:"not null;default:false"`
	InwardStock     int                 `gorm:"not null;default:0"`
	OutwardStock    int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Part) TableName() string {
	return "product_catalogues"
}

// PartFields carries the mutable attributes of a part
type PartFields struct {
	Code            string
	Name            string
	PartNumber      string
	Model           string
	CC              string
	CategoryID      uuid.UUID
	SubCategory     string
	BrandID         *uuid.UUID
	Description     string
	Price           valueobject.Money
	GST             valueobject.Percent
	Discount        valueobject.Percent
	PurchasePrice   valueobject.Money
	MeasuringUnit   string
	MinStock        int
	PriceIncludesGST bool
}

// NewPart creates a new part after validating the pricing invariants
func NewPart(garageID uuid.UUID, fields PartFields) (*Part, error) {
	if fields.Name == "" {
		return nil, shared.NewValidationError("name", "cannot be empty")
	}
	if fields.CategoryID == uuid.Nil {
		return nil, shared.NewValidationError("category_id", "cannot be empty")
	}
	if fields.Price.IsNegative() || fields.PurchasePrice.IsNegative() {
		return nil, shared.NewValidationError("price", "cannot be negative")
	}
	if err := validatePricing(fields.Price, fields.PurchasePrice, fields.Discount); err != nil {
		return nil, err
	}
	if fields.MinStock < 0 {
		return nil, shared.NewValidationError("min_stock", "cannot be negative")
	}
	if fields.MeasuringUnit == "" {
		fields.MeasuringUnit = "pcs"
	}

	part := &Part{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		Code:                fields.Code,
		Name:                fields.Name,
		PartNumber:          fields.PartNumber,
		Model:               fields.Model,
		CC:                  fields.CC,
		CategoryID:          fields.CategoryID,
		SubCategory:         fields.SubCategory,
		BrandID:             fields.BrandID,
		Description:         fields.Description,
		Price:               fields.Price,
		GST:                 fields.GST,
		Discount:            fields.Discount,
		PurchasePrice:       fields.PurchasePrice,
		MeasuringUnit:       fields.MeasuringUnit,
		MinStock:            fields.MinStock,
		PriceIncludesGST:    fields.PriceIncludesGST,
	}
	return part, nil
}

// validatePricing enforces that the selling price covers the discounted
// purchase price when a selling price is set.
func validatePricing(price, purchasePrice valueobject.Money, discount valueobject.Percent) error {
	discountAmount := purchasePrice.CalculatePercentage(discount.Decimal())
	over, err := discountAmount.GreaterThan(purchasePrice)
	if err == nil && over {
		return shared.NewValidationError("discount", "discount amount exceeds purchase price")
	}
	if price.IsPositive() {
		floor := purchasePrice.MustSubtract(discountAmount)
		below, err := price.LessThan(floor)
		if err == nil && below {
			return shared.NewValidationError("price", "price must cover purchase price after discount")
		}
	}
	return nil
}

// Update applies new field values, revalidating the pricing invariants
func (p *Part) Update(fields PartFields) error {
	if fields.Name == "" {
		return shared.NewValidationError("name", "cannot be empty")
	}
	if err := validatePricing(fields.Price, fields.PurchasePrice, fields.Discount); err != nil {
		return err
	}
	p.Code = fields.Code
	p.Name = fields.Name
	p.PartNumber = fields.PartNumber
	p.Model = fields.Model
	p.CC = fields.CC
	if fields.CategoryID != uuid.Nil {
		p.CategoryID = fields.CategoryID
	}
	p.SubCategory = fields.SubCategory
	p.BrandID = fields.BrandID
	p.Description = fields.Description
	p.Price = fields.Price
	p.GST = fields.GST
	p.Discount = fields.Discount
	p.PurchasePrice = fields.PurchasePrice
	if fields.MeasuringUnit != "" {
		p.MeasuringUnit = fields.MeasuringUnit
	}
	p.MinStock = fields.MinStock
	p.PriceIncludesGST = fields.PriceIncludesGST
	p.Touch()
	p.IncrementVersion()
	return nil
}

// CurrentStock returns inward minus outward
func (p *Part) CurrentStock() int {
	return p.InwardStock - p.OutwardStock
}

// StockStatus derives the stock-status tag from current stock and the
// minimum threshold
func (p *Part) StockStatus() StockStatus {
	current := p.CurrentStock()
	switch {
	case current <= 0:
		return StockStatusOutOfStock
	case current <= p.MinStock:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// CanIssue returns true if the requested quantity can be issued
func (p *Part) CanIssue(quantity int) bool {
	return p.CurrentStock() >= quantity
}

// RecordInward increments the inward counter
func (p *Part) RecordInward(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	p.InwardStock += quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// AdjustInward applies a delta against a prior inward quantity, used when a
// stock-inwards row is edited. The adjustment must not drive current stock
// negative.
func (p *Part) AdjustInward(delta int) error {
	if p.InwardStock+delta < p.OutwardStock {
		return shared.NewInsufficientStockError(p.PartNumber, -delta, p.CurrentStock())
	}
	p.InwardStock += delta
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RecordOutward increments the outward counter after checking availability.
// Emits a low-stock event when the issue drops current stock to or below the
// minimum threshold.
func (p *Part) RecordOutward(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	if !p.CanIssue(quantity) {
		return shared.NewInsufficientStockError(p.PartNumber, quantity, p.CurrentStock())
	}
	p.OutwardStock += quantity
	p.Touch()
	p.IncrementVersion()

	if p.MinStock > 0 && p.CurrentStock() <= p.MinStock {
		p.AddDomainEvent(NewStockBelowMinimumEvent(p))
	}
	return nil
}

// ReverseOutward decrements the outward counter, used when an issued line is
// removed or edited
func (p *Part) ReverseOutward(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	if p.OutwardStock < quantity {
		return shared.NewValidationError("quantity", "reversal exceeds issued stock")
	}
	p.OutwardStock -= quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// DiscountedPrice returns the selling price after the catalogue discount
func (p *Part) DiscountedPrice() valueobject.Money {
	return p.Price.ApplyDiscount(p.Discount.Decimal())
}

// Margin returns the difference between discounted selling price and
// purchase price
func (p *Part) Margin() decimal.Decimal {
	return p.DiscountedPrice().Amount().Sub(p.PurchasePrice.Amount())
}
