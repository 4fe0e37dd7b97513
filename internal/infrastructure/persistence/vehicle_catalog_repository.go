package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVehicleBrandRepository implements VehicleBrandRepository using GORM
type GormVehicleBrandRepository struct {
	db *gorm.DB
}

// NewGormVehicleBrandRepository creates a new GormVehicleBrandRepository
func NewGormVehicleBrandRepository(db *gorm.DB) *GormVehicleBrandRepository {
	return &GormVehicleBrandRepository{db: db}
}

// FindByID finds a vehicle brand by ID
func (r *GormVehicleBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.VehicleBrand, error) {
	var brand registry.VehicleBrand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindByName looks up a brand by its normalised name within a garage and
// vehicle type
func (r *GormVehicleBrandRepository) FindByName(ctx context.Context, garageID uuid.UUID, vehicleType registry.VehicleType, name string) (*registry.VehicleBrand, error) {
	var brand registry.VehicleBrand
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND vehicle_type = ? AND name = ?", garageID, vehicleType, registry.NormalizeName(name)).
		First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindAllForGarage lists brands for a garage and vehicle type
func (r *GormVehicleBrandRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, vehicleType registry.VehicleType) ([]registry.VehicleBrand, error) {
	var brands []registry.VehicleBrand
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND vehicle_type = ?", garageID, vehicleType).
		Order("display_name ASC").
		Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// Save creates or updates a vehicle brand
func (r *GormVehicleBrandRepository) Save(ctx context.Context, brand *registry.VehicleBrand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// GormVehicleModelRepository implements VehicleModelRepository using GORM
type GormVehicleModelRepository struct {
	db *gorm.DB
}

// NewGormVehicleModelRepository creates a new GormVehicleModelRepository
func NewGormVehicleModelRepository(db *gorm.DB) *GormVehicleModelRepository {
	return &GormVehicleModelRepository{db: db}
}

// FindByID finds a vehicle model by ID
func (r *GormVehicleModelRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.VehicleModel, error) {
	var model registry.VehicleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindByName looks up a model by its normalised name within a garage, brand
// and vehicle type
func (r *GormVehicleModelRepository) FindByName(ctx context.Context, garageID, brandID uuid.UUID, vehicleType registry.VehicleType, name string) (*registry.VehicleModel, error) {
	var model registry.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND brand_id = ? AND vehicle_type = ? AND name = ?",
			garageID, brandID, vehicleType, registry.NormalizeName(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

// FindByBrand lists models for a brand
func (r *GormVehicleModelRepository) FindByBrand(ctx context.Context, garageID, brandID uuid.UUID) ([]registry.VehicleModel, error) {
	var models []registry.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND brand_id = ?", garageID, brandID).
		Order("display_name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

// Save creates or updates a vehicle model
func (r *GormVehicleModelRepository) Save(ctx context.Context, model *registry.VehicleModel) error {
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure the repositories implement their interfaces
var _ registry.VehicleBrandRepository = (*GormVehicleBrandRepository)(nil)
var _ registry.VehicleModelRepository = (*GormVehicleModelRepository)(nil)
