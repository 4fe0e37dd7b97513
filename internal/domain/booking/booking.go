// Package booking implements the subscriber booking aggregate and its
// append-only status timeline.
package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// Booking is a service request created from the subscriber app. Its current
// status is always the tail of the timeline; LatestStatus is a denormalised
// cache refreshed on every append within the same transaction.
type Booking struct {
	shared.GarageAggregateRoot
	// The (subscriber, vehicle, garage, date, slot) uniqueness lives in
	// idx_booking_slot, created by the migrations; garage_id sits in the
	// embedded aggregate root so the index cannot be expressed in tags.
	SubscriberID        uuid.UUID  `gorm:"type:uuid;not null"`
	SubscriberVehicleID uuid.UUID  `gorm:"type:uuid;not null"`
	SubscriberAddressID uuid.UUID  `gorm:"type:uuid;not null"`
	CustomerID          *uuid.UUID `gorm:"type:uuid;index"`
	VehicleID           *uuid.UUID `gorm:"type:uuid;index"`
	JobcardID           *uuid.UUID `gorm:"type:uuid;index"`
	BookingDate         time.Time  `gorm:"not null"`
	BookingSlot         string     `gorm:"size:30;not null"`
	Suggestion          string     `gorm:"type:text"`
	BookingAmount       valueobject.Money `gorm:"type:decimal(14,2);not null"`
	PromoCode           string            `gorm:"size:30"`
	PromoCodeAmount     valueobject.Money `gorm:"type:decimal(14,2);not null;default:0"`
	TotalAmount         valueobject.Money `gorm:"type:decimal(14,2);not null"`
	RequiredEstimate    bool              `gorm:"not null;default:false"`
	CancelReason        string            `gorm:"size:255"`
	LatestStatus        Status            `gorm:"size:40;not null;default:'booking_confirmed'"`

	// Associations - loaded lazily, ordered by created_at
	Timeline []TimelineEntry `gorm:"foreignKey:BookingID;references:ID"`
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "subscriber_bookings"
}

// BookingFields carries the attributes of a new booking
type BookingFields struct {
	SubscriberID        uuid.UUID
	SubscriberVehicleID uuid.UUID
	SubscriberAddressID uuid.UUID
	BookingDate         time.Time
	BookingSlot         string
	Suggestion          string
	BookingAmount       valueobject.Money
	PromoCode           string
	PromoCodeAmount     valueobject.Money
	RequiredEstimate    bool
}

// NewBooking creates a booking at booking_confirmed with its first timeline
// entry already appended
func NewBooking(garageID uuid.UUID, fields BookingFields) (*Booking, error) {
	if fields.SubscriberID == uuid.Nil {
		return nil, shared.NewValidationError("subscriber_id", "cannot be empty")
	}
	if fields.SubscriberVehicleID == uuid.Nil {
		return nil, shared.NewValidationError("subscribervehicle_id", "cannot be empty")
	}
	if fields.SubscriberAddressID == uuid.Nil {
		return nil, shared.NewValidationError("subscriberaddress_id", "cannot be empty")
	}
	if strings.TrimSpace(fields.BookingSlot) == "" {
		return nil, shared.NewValidationError("booking_slot", "cannot be empty")
	}
	if !fields.BookingAmount.IsPositive() {
		return nil, shared.NewValidationError("booking_amount", "must be positive")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if fields.BookingDate.Before(today) {
		return nil, shared.NewValidationError("booking_date", "cannot be in the past")
	}

	total := fields.BookingAmount
	if !fields.PromoCodeAmount.IsZero() {
		total = fields.BookingAmount.MustSubtract(fields.PromoCodeAmount)
	}

	b := &Booking{
		GarageAggregateRoot: shared.NewGarageAggregateRoot(garageID),
		SubscriberID:        fields.SubscriberID,
		SubscriberVehicleID: fields.SubscriberVehicleID,
		SubscriberAddressID: fields.SubscriberAddressID,
		BookingDate:         fields.BookingDate,
		BookingSlot:         fields.BookingSlot,
		Suggestion:          fields.Suggestion,
		BookingAmount:       fields.BookingAmount,
		PromoCode:           fields.PromoCode,
		PromoCodeAmount:     fields.PromoCodeAmount,
		TotalAmount:         total,
		RequiredEstimate:    fields.RequiredEstimate,
		LatestStatus:        StatusBookingConfirmed,
	}
	b.Timeline = []TimelineEntry{*NewTimelineEntry(b.ID, StatusBookingConfirmed, "")}
	b.AddDomainEvent(NewBookingCreatedEvent(b))
	return b, nil
}

// CurrentStatus returns the tail of the timeline, falling back to the
// denormalised cache when the timeline is not loaded
func (b *Booking) CurrentStatus() Status {
	if len(b.Timeline) == 0 {
		return b.LatestStatus
	}
	return b.Timeline[len(b.Timeline)-1].Status
}

// FindTimelineEntry returns the timeline entry for a status, or nil
func (b *Booking) FindTimelineEntry(status Status) *TimelineEntry {
	for i := range b.Timeline {
		if b.Timeline[i].Status == status {
			return &b.Timeline[i]
		}
	}
	return nil
}

// Advance appends the next status to the timeline. Re-advancing to a status
// already present returns the existing entry unchanged. An edge missing from
// the status graph is rejected with an illegal-transition error. The remark
// for pickup_assigned and mechanic_assigned must be a numeric staff id; for
// job_card_created it must be the jobcard number.
func (b *Booking) Advance(next Status, remark string) (*TimelineEntry, error) {
	if !next.IsValid() {
		return nil, shared.NewValidationError("status", "unknown booking status")
	}
	if existing := b.FindTimelineEntry(next); existing != nil {
		return existing, nil
	}
	current := b.CurrentStatus()
	if !current.CanTransitionTo(next) {
		return nil, shared.NewIllegalTransitionError(string(current), string(next))
	}
	if next.RemarkIsStaffID() {
		if _, err := strconv.ParseInt(strings.TrimSpace(remark), 10, 64); err != nil {
			if _, uuidErr := uuid.Parse(strings.TrimSpace(remark)); uuidErr != nil {
				return nil, shared.NewValidationError("remark", "must be a staff id for this status")
			}
		}
	}
	if next.RemarkIsJobcardNumber() && strings.TrimSpace(remark) == "" {
		return nil, shared.NewValidationError("remark", "must be the jobcard number for this status")
	}

	entry := NewTimelineEntry(b.ID, next, remark)
	b.Timeline = append(b.Timeline, *entry)
	b.LatestStatus = next
	b.Touch()
	b.IncrementVersion()
	b.AddDomainEvent(NewBookingStatusChangedEvent(b, current, next, remark))
	return entry, nil
}

// Cancel appends the terminal cancelled status with the reason as remark
func (b *Booking) Cancel(reason string) (*TimelineEntry, error) {
	entry, err := b.Advance(StatusCancelled, reason)
	if err != nil {
		return nil, err
	}
	b.CancelReason = reason
	return entry, nil
}

// RecordWorkCompleted appends work_completed without consulting the status
// graph. Jobcard finalisation reports completion even when the timeline has
// moved past the expected edge, for example after a cancellation. A
// work_completed entry already present is returned unchanged.
func (b *Booking) RecordWorkCompleted(jobcardNumber string) (*TimelineEntry, error) {
	if strings.TrimSpace(jobcardNumber) == "" {
		return nil, shared.NewValidationError("remark", "must be the jobcard number for this status")
	}
	if existing := b.FindTimelineEntry(StatusWorkCompleted); existing != nil {
		return existing, nil
	}
	current := b.CurrentStatus()
	entry := NewTimelineEntry(b.ID, StatusWorkCompleted, jobcardNumber)
	b.Timeline = append(b.Timeline, *entry)
	b.LatestStatus = StatusWorkCompleted
	b.Touch()
	b.IncrementVersion()
	b.AddDomainEvent(NewBookingStatusChangedEvent(b, current, StatusWorkCompleted, jobcardNumber))
	return entry, nil
}

// LinkJobcard records the jobcard materialised from this booking
func (b *Booking) LinkJobcard(jobcardID, customerID, vehicleID uuid.UUID) {
	b.JobcardID = &jobcardID
	b.CustomerID = &customerID
	b.VehicleID = &vehicleID
	b.Touch()
	b.IncrementVersion()
}

// IsPromoted reports whether a jobcard has already been materialised
func (b *Booking) IsPromoted() bool {
	return b.JobcardID != nil
}

// MechanicStaffRef returns the staff reference carried in the
// mechanic_assigned remark, or false if the entry is absent. The remark is a
// staff-id string; resolution against the staff table happens at the
// application layer.
func (b *Booking) MechanicStaffRef() (string, bool) {
	entry := b.FindTimelineEntry(StatusMechanicAssigned)
	if entry == nil || strings.TrimSpace(entry.Remark) == "" {
		return "", false
	}
	return strings.TrimSpace(entry.Remark), true
}

// ScalarUpdate carries a reschedule of a booking's non-foreign-key fields.
// Nil or empty members leave the current value in place.
type ScalarUpdate struct {
	BookingDate      *time.Time
	BookingSlot      string
	Suggestion       string
	RequiredEstimate *bool
}

// UpdateScalars updates the non-foreign-key booking fields
func (b *Booking) UpdateScalars(bookingDate *time.Time, bookingSlot, suggestion string, requiredEstimate *bool) error {
	if bookingDate != nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if bookingDate.Before(today) {
			return shared.NewValidationError("booking_date", "cannot be in the past")
		}
		b.BookingDate = *bookingDate
	}
	if bookingSlot != "" {
		b.BookingSlot = bookingSlot
	}
	if suggestion != "" {
		b.Suggestion = suggestion
	}
	if requiredEstimate != nil {
		b.RequiredEstimate = *requiredEstimate
	}
	b.Touch()
	b.IncrementVersion()
	return nil
}

// DiscountedTotal returns booking amount minus the promo discount
func (b *Booking) DiscountedTotal() decimal.Decimal {
	return b.BookingAmount.MustSubtract(b.PromoCodeAmount).Amount()
}
