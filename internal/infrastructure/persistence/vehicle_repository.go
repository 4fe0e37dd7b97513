package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID finds a vehicle by ID
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Vehicle, error) {
	var vehicle registry.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByIDForGarage finds a vehicle by ID within a garage
func (r *GormVehicleRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*registry.Vehicle, error) {
	var vehicle registry.Vehicle
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByCustomer finds all vehicles owned by a customer
func (r *GormVehicleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]registry.Vehicle, error) {
	var vehicles []registry.Vehicle
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindByCustomerAndModel supports the import-path upsert key
func (r *GormVehicleRepository) FindByCustomerAndModel(ctx context.Context, garageID, customerID uuid.UUID, model string) (*registry.Vehicle, error) {
	var vehicle registry.Vehicle
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND customer_id = ? AND model = ?", garageID, customerID, model).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByRegistrationNo looks up a vehicle by registration number in a garage
func (r *GormVehicleRepository) FindByRegistrationNo(ctx context.Context, garageID uuid.UUID, registrationNo string) (*registry.Vehicle, error) {
	var vehicle registry.Vehicle
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND registration_no = ?", garageID, registrationNo).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindAllForGarage finds all vehicles for a garage
func (r *GormVehicleRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]registry.Vehicle, error) {
	var vehicles []registry.Vehicle
	query := r.db.WithContext(ctx).Model(&registry.Vehicle{}).Where("garage_id = ?", garageID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("registration_no ILIKE ? OR model ILIKE ? OR make ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "vehicle_type":
			query = query.Where("vehicle_type = ?", value)
		}
	}

	query = applyPaging(query, filter, VehicleSortFields, "created_at DESC")
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Save creates or updates a vehicle
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *registry.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// Delete deletes a vehicle
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.Vehicle{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasDependents reports whether jobcards, invoices or estimates still
// reference the vehicle
func (r *GormVehicleRepository) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&jobcard.Jobcard{}).
		Where("vehicle_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Document{}).
		Where("vehicle_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormVehicleRepository implements VehicleRepository
var _ registry.VehicleRepository = (*GormVehicleRepository)(nil)
