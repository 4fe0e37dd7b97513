package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Booking, error)
	// FindByIDWithTimeline preloads the timeline ordered by created_at
	FindByIDWithTimeline(ctx context.Context, id uuid.UUID) (*Booking, error)
	// FindByIDForUpdate loads the booking with a row-level exclusive lock
	// and its timeline. Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)
	// FindBySlot enforces the (subscriber, vehicle, garage, date, slot)
	// uniqueness before insert
	FindBySlot(ctx context.Context, subscriberID, vehicleID, garageID uuid.UUID, date time.Time, slot string) (*Booking, error)
	FindBySubscriber(ctx context.Context, subscriberID uuid.UUID, filter shared.Filter) ([]Booking, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Booking, error)
	Save(ctx context.Context, b *Booking) error
	CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error)
}
