package jobcard

import (
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeJobcard = "Jobcard"

// Event type constants
const (
	EventTypeJobcardCreated   = "JobcardCreated"
	EventTypeJobcardFinalized = "JobcardFinalized"
	EventTypePaymentRecorded  = "JobcardPaymentRecorded"
)

// JobcardCreatedEvent is raised when a jobcard is opened
type JobcardCreatedEvent struct {
	shared.BaseDomainEvent
	JobcardID     string `json:"jobcard_id"`
	JobcardNumber string `json:"jobcard_number"`
	Mode          string `json:"mode"`
}

// NewJobcardCreatedEvent creates a new JobcardCreatedEvent
func NewJobcardCreatedEvent(j *Jobcard) *JobcardCreatedEvent {
	return &JobcardCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobcardCreated, AggregateTypeJobcard, j.ID, j.GarageID),
		JobcardID:       j.ID.String(),
		JobcardNumber:   j.Number,
		Mode:            string(j.Mode),
	}
}

// EventType returns the event type name
func (e *JobcardCreatedEvent) EventType() string {
	return EventTypeJobcardCreated
}

// JobcardFinalizedEvent is raised when a jobcard closes
type JobcardFinalizedEvent struct {
	shared.BaseDomainEvent
	JobcardID     string `json:"jobcard_id"`
	JobcardNumber string `json:"jobcard_number"`
	BookingID     string `json:"booking_id,omitempty"`
}

// NewJobcardFinalizedEvent creates a new JobcardFinalizedEvent
func NewJobcardFinalizedEvent(j *Jobcard) *JobcardFinalizedEvent {
	bookingID := ""
	if j.BookingID != nil {
		bookingID = j.BookingID.String()
	}
	return &JobcardFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobcardFinalized, AggregateTypeJobcard, j.ID, j.GarageID),
		JobcardID:       j.ID.String(),
		JobcardNumber:   j.Number,
		BookingID:       bookingID,
	}
}

// EventType returns the event type name
func (e *JobcardFinalizedEvent) EventType() string {
	return EventTypeJobcardFinalized
}
