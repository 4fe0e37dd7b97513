package booking

import (
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBooking = "Booking"

// Event type constants
const (
	EventTypeBookingCreated       = "BookingCreated"
	EventTypeBookingStatusChanged = "BookingStatusChanged"
)

// BookingCreatedEvent is raised when a subscriber booking is created
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID   string `json:"booking_id"`
	BookingSlot string `json:"booking_slot"`
}

// NewBookingCreatedEvent creates a new BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID, b.GarageID),
		BookingID:       b.ID.String(),
		BookingSlot:     b.BookingSlot,
	}
}

// EventType returns the event type name
func (e *BookingCreatedEvent) EventType() string {
	return EventTypeBookingCreated
}

// BookingStatusChangedEvent is raised on every timeline append
type BookingStatusChangedEvent struct {
	shared.BaseDomainEvent
	BookingID string `json:"booking_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Remark    string `json:"remark,omitempty"`
}

// NewBookingStatusChangedEvent creates a new BookingStatusChangedEvent
func NewBookingStatusChangedEvent(b *Booking, from, to Status, remark string) *BookingStatusChangedEvent {
	return &BookingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingStatusChanged, AggregateTypeBooking, b.ID, b.GarageID),
		BookingID:       b.ID.String(),
		From:            string(from),
		To:              string(to),
		Remark:          remark,
	}
}

// EventType returns the event type name
func (e *BookingStatusChangedEvent) EventType() string {
	return EventTypeBookingStatusChanged
}
