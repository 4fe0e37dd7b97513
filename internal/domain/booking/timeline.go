package booking

import (
	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// TimelineEntry is one append-only row of a booking's status history.
// A booking visits each status at most once.
type TimelineEntry struct {
	shared.BaseEntity
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_timeline_booking_status,priority:1"`
	Status    Status    `gorm:"size:40;not null;uniqueIndex:idx_timeline_booking_status,priority:2"`
	Remark    string    `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (TimelineEntry) TableName() string {
	return "booking_timelines"
}

// NewTimelineEntry creates a timeline row
func NewTimelineEntry(bookingID uuid.UUID, status Status, remark string) *TimelineEntry {
	return &TimelineEntry{
		BaseEntity: shared.NewBaseEntity(),
		BookingID:  bookingID,
		Status:     status,
		Remark:     remark,
	}
}
