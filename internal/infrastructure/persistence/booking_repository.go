package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByIDForGarage finds a booking by ID within a garage
func (r *GormBookingRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByIDWithTimeline preloads the timeline ordered by created_at
func (r *GormBookingRepository) FindByIDWithTimeline(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByIDForUpdate loads the booking with a row-level exclusive lock and
// its timeline. The timeline must be present for the idempotent-append
// check. Must be called inside a transaction.
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindBySlot enforces the (subscriber, vehicle, garage, date, slot)
// uniqueness before insert
func (r *GormBookingRepository) FindBySlot(ctx context.Context, subscriberID, vehicleID, garageID uuid.UUID, date time.Time, slot string) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscriber_vehicle_id = ? AND garage_id = ? AND booking_date::date = ? AND booking_slot = ?",
			subscriberID, vehicleID, garageID, date.Format("2006-01-02"), slot).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindBySubscriber lists bookings made by one subscriber
func (r *GormBookingRepository) FindBySubscriber(ctx context.Context, subscriberID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	var bookings []booking.Booking
	query := r.applyFilters(r.db.WithContext(ctx).Model(&booking.Booking{}).Where("subscriber_id = ?", subscriberID), filter)

	query = applyPaging(query, filter, BookingSortFields, "booking_date DESC, created_at DESC")
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindAllForGarage lists bookings for a garage
func (r *GormBookingRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	var bookings []booking.Booking
	query := r.applyFilters(r.db.WithContext(ctx).Model(&booking.Booking{}).Where("garage_id = ?", garageID), filter)

	query = applyPaging(query, filter, BookingSortFields, "booking_date DESC, created_at DESC")
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Save creates or updates a booking together with its loaded timeline
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(b).Error
}

// CountForGarage counts bookings matching the filter
func (r *GormBookingRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&booking.Booking{}).Where("garage_id = ?", garageID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBookingRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("latest_status = ?", value)
		case "date":
			query = query.Where("booking_date::date = ?", value)
		case "date_from":
			query = query.Where("booking_date >= ?", value)
		case "date_to":
			query = query.Where("booking_date <= ?", value)
		}
	}
	return query
}

// Ensure GormBookingRepository implements BookingRepository
var _ booking.BookingRepository = (*GormBookingRepository)(nil)
