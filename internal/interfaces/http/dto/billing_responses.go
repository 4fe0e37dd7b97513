package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// DocumentLineResponse represents one line on a billing document
type DocumentLineResponse struct {
	ID          uuid.UUID           `json:"id"`
	Kind        string              `json:"kind"`
	Source      string              `json:"source"`
	RefID       *uuid.UUID          `json:"ref_id,omitempty"`
	Name        string              `json:"name"`
	Code        string              `json:"code,omitempty"`
	Quantity    int                 `json:"quantity"`
	Value       valueobject.Money   `json:"value"`
	Tax         valueobject.Percent `json:"tax"`
	Discount    valueobject.Percent `json:"discount"`
	StockIssued bool                `json:"stock_issued"`
}

// DocumentResponse represents an invoice or estimate in API responses
type DocumentResponse struct {
	ID         uuid.UUID              `json:"id"`
	GarageID   uuid.UUID              `json:"garage_id"`
	Kind       billing.DocumentKind   `json:"kind"`
	Number     string                 `json:"number"`
	Date       time.Time              `json:"date"`
	PONo       string                 `json:"po_no,omitempty"`
	PODate     *time.Time             `json:"po_date,omitempty"`
	CustomerID uuid.UUID              `json:"customer_id"`
	Name       string                 `json:"name"`
	VehicleID  *uuid.UUID             `json:"vehicle_id,omitempty"`
	JobcardID  *uuid.UUID             `json:"jobcard_id,omitempty"`
	Status     string                 `json:"status"`
	Amount     valueobject.Money      `json:"amount"`
	Comments   string                 `json:"comments,omitempty"`
	Lines      []DocumentLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// FromDocument maps a billing document with its lines to the response
// representation
func FromDocument(d *billing.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:         d.ID,
		GarageID:   d.GarageID,
		Kind:       d.Kind,
		Number:     d.Number,
		Date:       d.Date,
		PONo:       d.PONo,
		PODate:     d.PODate,
		CustomerID: d.CustomerID,
		Name:       d.Name,
		VehicleID:  d.VehicleID,
		JobcardID:  d.JobcardID,
		Status:     string(d.Status),
		Amount:     d.Amount,
		Comments:   d.Comments,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for i := range d.Lines {
		l := &d.Lines[i]
		resp.Lines = append(resp.Lines, DocumentLineResponse{
			ID:          l.ID,
			Kind:        string(l.Kind),
			Source:      l.Source,
			RefID:       l.RefID,
			Name:        l.Name,
			Code:        l.Code,
			Quantity:    l.Quantity,
			Value:       l.Value,
			Tax:         l.Tax,
			Discount:    l.Discount,
			StockIssued: l.StockIssued,
		})
	}
	return resp
}

// FromDocumentPage maps a page of billing documents
func FromDocumentPage(page shared.Paginated[billing.Document]) shared.Paginated[DocumentResponse] {
	items := make([]DocumentResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, FromDocument(&page.Items[i]))
	}
	return shared.Paginated[DocumentResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
