package notify

import (
	"context"

	appbooking "github.com/garagehq/gms-backend/internal/application/booking"
	"github.com/garagehq/gms-backend/internal/domain/booking"
)

var _ appbooking.Notifier = (*NoopNotifier)(nil)

// NoopNotifier discards every message. Used when notifications are disabled.
type NoopNotifier struct{}

// NewNoopNotifier creates a NoopNotifier
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// NotifyBookingStatus does nothing
func (NoopNotifier) NotifyBookingStatus(context.Context, *booking.Booking, booking.Status) error {
	return nil
}
