package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// PartResponse represents a parts master entry in API responses. Stock
// figures are the running counters; current stock is their difference.
type PartResponse struct {
	ID               uuid.UUID           `json:"id"`
	Code             string              `json:"code,omitempty"`
	Name             string              `json:"name"`
	PartNumber       string              `json:"part_number,omitempty"`
	Model            string              `json:"model,omitempty"`
	CC               string              `json:"cc,omitempty"`
	CategoryID       uuid.UUID           `json:"category_id"`
	SubCategory      string              `json:"sub_category,omitempty"`
	BrandID          *uuid.UUID          `json:"brand_id,omitempty"`
	Description      string              `json:"description,omitempty"`
	Price            valueobject.Money   `json:"price"`
	GST              valueobject.Percent `json:"gst"`
	Discount         valueobject.Percent `json:"discount"`
	PurchasePrice    valueobject.Money   `json:"purchase_price"`
	MeasuringUnit    string              `json:"measuring_unit"`
	MinStock         int                 `json:"min_stock"`
	PriceIncludesGST bool                `json:"price_includes_gst"`
	InwardStock      int                 `json:"inward_stock"`
	OutwardStock     int                 `json:"outward_stock"`
	CurrentStock     int                 `json:"current_stock"`
	StockStatus      string              `json:"stock_status"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// FromPart maps a part to its response representation
func FromPart(p *catalog.Part) PartResponse {
	return PartResponse{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		PartNumber:       p.PartNumber,
		Model:            p.Model,
		CC:               p.CC,
		CategoryID:       p.CategoryID,
		SubCategory:      p.SubCategory,
		BrandID:          p.BrandID,
		Description:      p.Description,
		Price:            p.Price,
		GST:              p.GST,
		Discount:         p.Discount,
		PurchasePrice:    p.PurchasePrice,
		MeasuringUnit:    p.MeasuringUnit,
		MinStock:         p.MinStock,
		PriceIncludesGST: p.PriceIncludesGST,
		InwardStock:      p.InwardStock,
		OutwardStock:     p.OutwardStock,
		CurrentStock:     p.CurrentStock(),
		StockStatus:      string(p.StockStatus()),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// FromParts maps a slice of parts
func FromParts(parts []catalog.Part) []PartResponse {
	out := make([]PartResponse, 0, len(parts))
	for i := range parts {
		out = append(out, FromPart(&parts[i]))
	}
	return out
}

// FromPartPage maps a page of parts
func FromPartPage(page shared.Paginated[catalog.Part]) shared.Paginated[PartResponse] {
	return shared.Paginated[PartResponse]{
		Items:      FromParts(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// ServiceItemResponse represents a service catalogue entry
type ServiceItemResponse struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Code       string              `json:"code,omitempty"`
	Value      valueobject.Money   `json:"value"`
	Tax        valueobject.Percent `json:"tax"`
	Discount   valueobject.Percent `json:"discount"`
	CategoryID *uuid.UUID          `json:"category_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// FromServiceItem maps a service catalogue entry
func FromServiceItem(s *catalog.ServiceItem) ServiceItemResponse {
	return ServiceItemResponse{
		ID:         s.ID,
		Name:       s.Name,
		Code:       s.Code,
		Value:      s.Value,
		Tax:        s.Tax,
		Discount:   s.Discount,
		CategoryID: s.CategoryID,
		CreatedAt:  s.CreatedAt,
	}
}

// FromServiceItems maps a slice of service catalogue entries
func FromServiceItems(items []catalog.ServiceItem) []ServiceItemResponse {
	out := make([]ServiceItemResponse, 0, len(items))
	for i := range items {
		out = append(out, FromServiceItem(&items[i]))
	}
	return out
}

// NamedResponse represents a catalogue row that is just an identified name
// (categories and parts brands)
type NamedResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FromCategories maps a slice of categories
func FromCategories(categories []catalog.Category) []NamedResponse {
	out := make([]NamedResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NamedResponse{ID: categories[i].ID, Name: categories[i].Name, CreatedAt: categories[i].CreatedAt})
	}
	return out
}

// FromBrands maps a slice of parts brands
func FromBrands(brands []catalog.Brand) []NamedResponse {
	out := make([]NamedResponse, 0, len(brands))
	for i := range brands {
		out = append(out, NamedResponse{ID: brands[i].ID, Name: brands[i].Name, CreatedAt: brands[i].CreatedAt})
	}
	return out
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Mobile    valueobject.Phone `json:"mobile"`
	Location  string            `json:"location,omitempty"`
	Email     string            `json:"email,omitempty"`
	GSTIN     string            `json:"gstin,omitempty"`
	Address   string            `json:"address,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// FromSupplier maps a supplier to its response representation
func FromSupplier(s *catalog.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Mobile:    s.Mobile,
		Location:  s.Location,
		Email:     s.Email,
		GSTIN:     s.GSTIN,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

// FromSuppliers maps a slice of suppliers
func FromSuppliers(suppliers []catalog.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, FromSupplier(&suppliers[i]))
	}
	return out
}
