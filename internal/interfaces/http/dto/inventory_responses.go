package dto

import (
	"time"

	"github.com/google/uuid"

	appinventory "github.com/garagehq/gms-backend/internal/application/inventory"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// StockInwardResponse represents an inward stock movement
type StockInwardResponse struct {
	ID                  uuid.UUID           `json:"id"`
	ProductID           uuid.UUID           `json:"product_id"`
	Quantity            int                 `json:"quantity"`
	Rate                valueobject.Money   `json:"rate"`
	Discount            valueobject.Percent `json:"discount"`
	GST                 valueobject.Percent `json:"gst"`
	TotalPrice          valueobject.Money   `json:"total_price"`
	PriceIncludesGST    bool                `json:"price_includes_gst"`
	SupplierID          uuid.UUID           `json:"supplier_id"`
	SupplierInvoiceNo   string              `json:"supplier_invoice_no,omitempty"`
	SupplierInvoiceDate *time.Time          `json:"supplier_invoice_date,omitempty"`
	Location            string              `json:"location,omitempty"`
	Rack                string              `json:"rack,omitempty"`
	TrackExpiry         bool                `json:"track_expiry"`
	ExpiryDate          *time.Time          `json:"expiry_date,omitempty"`
	Warranty            string              `json:"warranty,omitempty"`
	Remarks             string              `json:"remarks,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}

// FromStockInward maps an inward movement to its response representation
func FromStockInward(m *inventory.StockInward) StockInwardResponse {
	return StockInwardResponse{
		ID:                  m.ID,
		ProductID:           m.ProductID,
		Quantity:            m.Quantity,
		Rate:                m.Rate,
		Discount:            m.Discount,
		GST:                 m.GST,
		TotalPrice:          m.TotalPrice,
		PriceIncludesGST:    m.PriceIncludesGST,
		SupplierID:          m.SupplierID,
		SupplierInvoiceNo:   m.SupplierInvoiceNo,
		SupplierInvoiceDate: m.SupplierInvoiceDate,
		Location:            m.Location,
		Rack:                m.Rack,
		TrackExpiry:         m.TrackExpiry,
		ExpiryDate:          m.ExpiryDate,
		Warranty:            m.Warranty,
		Remarks:             m.Remarks,
		CreatedAt:           m.CreatedAt,
	}
}

// FromStockInwards maps a slice of inward movements
func FromStockInwards(movements []inventory.StockInward) []StockInwardResponse {
	out := make([]StockInwardResponse, 0, len(movements))
	for i := range movements {
		out = append(out, FromStockInward(&movements[i]))
	}
	return out
}

// StockOutwardResponse represents an outward stock movement
type StockOutwardResponse struct {
	ID                uuid.UUID              `json:"id"`
	ProductID         uuid.UUID              `json:"product_id"`
	Quantity          int                    `json:"quantity"`
	Rate              valueobject.Money      `json:"rate"`
	Discount          valueobject.Percent    `json:"discount"`
	GST               valueobject.Percent    `json:"gst"`
	TotalPrice        valueobject.Money      `json:"total_price"`
	IssuedTo          string                 `json:"issued_to,omitempty"`
	IssuedDate        *time.Time             `json:"issued_date,omitempty"`
	UsagePurpose      inventory.UsagePurpose `json:"usage_purpose"`
	ReferenceDocument string                 `json:"reference_document,omitempty"`
	Location          string                 `json:"location,omitempty"`
	Rack              string                 `json:"rack,omitempty"`
	Remarks           string                 `json:"remarks,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

// FromStockOutward maps an outward movement to its response representation
func FromStockOutward(m *inventory.StockOutward) StockOutwardResponse {
	return StockOutwardResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		Quantity:          m.Quantity,
		Rate:              m.Rate,
		Discount:          m.Discount,
		GST:               m.GST,
		TotalPrice:        m.TotalPrice,
		IssuedTo:          m.IssuedTo,
		IssuedDate:        m.IssuedDate,
		UsagePurpose:      m.UsagePurpose,
		ReferenceDocument: m.ReferenceDocument,
		Location:          m.Location,
		Rack:              m.Rack,
		Remarks:           m.Remarks,
		CreatedAt:         m.CreatedAt,
	}
}

// FromStockOutwards maps a slice of outward movements
func FromStockOutwards(movements []inventory.StockOutward) []StockOutwardResponse {
	out := make([]StockOutwardResponse, 0, len(movements))
	for i := range movements {
		out = append(out, FromStockOutward(&movements[i]))
	}
	return out
}

// ImportResponse reports the outcome of a stock-inward import run, row by row
type ImportResponse struct {
	Summary appinventory.ImportSummary `json:"summary"`
	Rows    []appinventory.RowResult   `json:"rows"`
}
