package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// TimelineEntryResponse represents one status entry on a booking timeline
type TimelineEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	Display   string    `json:"display"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromTimelineEntry maps a timeline entry to its response representation
func FromTimelineEntry(e *booking.TimelineEntry) TimelineEntryResponse {
	return TimelineEntryResponse{
		ID:        e.ID,
		Status:    string(e.Status),
		Display:   e.Status.DisplayName(),
		Remark:    e.Remark,
		CreatedAt: e.CreatedAt,
	}
}

// BookingResponse represents a subscriber booking in API responses
type BookingResponse struct {
	ID                  uuid.UUID  `json:"id"`
	GarageID            uuid.UUID  `json:"garage_id"`
	SubscriberID        uuid.UUID  `json:"subscriber_id"`
	SubscriberVehicleID uuid.UUID  `json:"subscriber_vehicle_id"`
	SubscriberAddressID uuid.UUID  `json:"subscriber_address_id"`
	CustomerID          *uuid.UUID `json:"customer_id,omitempty"`
	VehicleID           *uuid.UUID `json:"vehicle_id,omitempty"`
	JobcardID           *uuid.UUID `json:"jobcard_id,omitempty"`
	BookingDate         string     `json:"booking_date"`
	BookingSlot         string     `json:"booking_slot"`
	Suggestion          string     `json:"suggestion,omitempty"`
	BookingAmount       valueobject.Money `json:"booking_amount"`
	PromoCode           string            `json:"promo_code,omitempty"`
	PromoCodeAmount     valueobject.Money `json:"promo_code_amount"`
	TotalAmount         valueobject.Money `json:"total_amount"`
	RequiredEstimate    bool              `json:"required_estimate"`
	CancelReason        string            `json:"cancel_reason,omitempty"`
	Status              string            `json:"status"`
	StatusDisplay       string            `json:"status_display"`
	Timeline            []TimelineEntryResponse `json:"timeline,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// FromBooking maps a booking with its timeline to the response representation
func FromBooking(b *booking.Booking) BookingResponse {
	status := b.CurrentStatus()
	resp := BookingResponse{
		ID:                  b.ID,
		GarageID:            b.GarageID,
		SubscriberID:        b.SubscriberID,
		SubscriberVehicleID: b.SubscriberVehicleID,
		SubscriberAddressID: b.SubscriberAddressID,
		CustomerID:          b.CustomerID,
		VehicleID:           b.VehicleID,
		JobcardID:           b.JobcardID,
		BookingDate:         b.BookingDate.Format("2006-01-02"),
		BookingSlot:         b.BookingSlot,
		Suggestion:          b.Suggestion,
		BookingAmount:       b.BookingAmount,
		PromoCode:           b.PromoCode,
		PromoCodeAmount:     b.PromoCodeAmount,
		TotalAmount:         b.TotalAmount,
		RequiredEstimate:    b.RequiredEstimate,
		CancelReason:        b.CancelReason,
		Status:              string(status),
		StatusDisplay:       status.DisplayName(),
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
	for i := range b.Timeline {
		resp.Timeline = append(resp.Timeline, FromTimelineEntry(&b.Timeline[i]))
	}
	return resp
}

// FromBookings maps a slice of bookings
func FromBookings(bookings []booking.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, FromBooking(&bookings[i]))
	}
	return out
}

// FromBookingPage maps a page of bookings
func FromBookingPage(page shared.Paginated[booking.Booking]) shared.Paginated[BookingResponse] {
	return shared.Paginated[BookingResponse]{
		Items:      FromBookings(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
