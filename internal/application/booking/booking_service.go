// Package booking holds the application service for the subscriber booking
// workflow.
package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// Notifier dispatches a status message to the subscriber. Implemented by the
// infrastructure layer (SMS/WhatsApp gateway or a no-op).
type Notifier interface {
	NotifyBookingStatus(ctx context.Context, b *booking.Booking, status booking.Status) error
}

// BookingService handles the booking lifecycle. Status changes are appends to
// a timeline over a fixed graph; the timeline is never rewritten.
type BookingService struct {
	bookingRepo booking.BookingRepository
	notifier    Notifier
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo booking.BookingRepository, notifier Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BookingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateBooking registers a booking after checking the subscriber has not
// already booked the same vehicle, garage, date and slot
func (s *BookingService) CreateBooking(ctx context.Context, garageID uuid.UUID, fields booking.BookingFields) (*booking.Booking, error) {
	existing, err := s.bookingRepo.FindBySlot(ctx, fields.SubscriberID, fields.SubscriberVehicleID, garageID, fields.BookingDate, fields.BookingSlot)
	if err == nil && existing != nil {
		return nil, shared.NewConflictError("a booking already exists for this vehicle, date and slot")
	}

	b, err := booking.NewBooking(garageID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.notify(ctx, b, booking.StatusBookingConfirmed)
	s.logger.Info("booking created",
		zap.String("garage_id", garageID.String()),
		zap.String("booking_id", b.ID.String()),
		zap.String("slot", b.BookingSlot))
	return b, nil
}

// AdvanceBooking appends the next status to the timeline. Advancing to a
// status already present is idempotent and returns the existing entry.
func (s *BookingService) AdvanceBooking(ctx context.Context, garageID, bookingID uuid.UUID, next booking.Status, remark string) (*booking.TimelineEntry, error) {
	b, err := s.loadWithTimeline(ctx, garageID, bookingID)
	if err != nil {
		return nil, err
	}

	before := len(b.Timeline)
	entry, err := b.Advance(next, remark)
	if err != nil {
		return nil, err
	}
	if len(b.Timeline) == before {
		// already at or past this status, nothing to persist
		return entry, nil
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.notify(ctx, b, next)
	return entry, nil
}

// CancelBooking appends the terminal cancelled status
func (s *BookingService) CancelBooking(ctx context.Context, garageID, bookingID uuid.UUID, reason string) (*booking.TimelineEntry, error) {
	b, err := s.loadWithTimeline(ctx, garageID, bookingID)
	if err != nil {
		return nil, err
	}
	entry, err := b.Cancel(reason)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)
	s.notify(ctx, b, booking.StatusCancelled)
	return entry, nil
}

// UpdateBooking changes the reschedulable booking fields
func (s *BookingService) UpdateBooking(ctx context.Context, garageID, bookingID uuid.UUID, fields booking.ScalarUpdate) (*booking.Booking, error) {
	b, err := s.loadWithTimeline(ctx, garageID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateScalars(fields.BookingDate, fields.BookingSlot, fields.Suggestion, fields.RequiredEstimate); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBooking loads a booking with its timeline
func (s *BookingService) GetBooking(ctx context.Context, garageID, bookingID uuid.UUID) (*booking.Booking, error) {
	return s.loadWithTimeline(ctx, garageID, bookingID)
}

// ListBookings returns a page of bookings for a garage
func (s *BookingService) ListBookings(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (shared.Paginated[booking.Booking], error) {
	bookings, err := s.bookingRepo.FindAllForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[booking.Booking]{}, err
	}
	total, err := s.bookingRepo.CountForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[booking.Booking]{}, err
	}
	return shared.NewPaginated(bookings, total, filter.Page, filter.PageSize), nil
}

// ListBookingsForSubscriber returns a subscriber's bookings across garages
func (s *BookingService) ListBookingsForSubscriber(ctx context.Context, subscriberID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	return s.bookingRepo.FindBySubscriber(ctx, subscriberID, filter)
}

func (s *BookingService) loadWithTimeline(ctx context.Context, garageID, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByIDWithTimeline(ctx, bookingID)
	if err != nil {
		return nil, shared.NewNotFoundError("booking")
	}
	if b.GarageID != garageID {
		return nil, shared.NewNotFoundError("booking")
	}
	return b, nil
}

func (s *BookingService) notify(ctx context.Context, b *booking.Booking, status booking.Status) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBookingStatus(ctx, b, status); err != nil {
		s.logger.Warn("booking notification failed",
			zap.String("booking_id", b.ID.String()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func (s *BookingService) publishEvents(ctx context.Context, b *booking.Booking) {
	if s.publisher == nil {
		return
	}
	events := b.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish booking events", zap.Error(err))
	}
	b.ClearDomainEvents()
}
