package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormServiceItemRepository implements ServiceItemRepository using GORM
type GormServiceItemRepository struct {
	db *gorm.DB
}

// NewGormServiceItemRepository creates a new GormServiceItemRepository
func NewGormServiceItemRepository(db *gorm.DB) *GormServiceItemRepository {
	return &GormServiceItemRepository{db: db}
}

// FindByID finds a service item by ID
func (r *GormServiceItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceItem, error) {
	var service catalog.ServiceItem
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindByIDForGarage finds a service item by ID within a garage
func (r *GormServiceItemRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*catalog.ServiceItem, error) {
	var service catalog.ServiceItem
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindByName looks up a service by its (garage, name) identity
func (r *GormServiceItemRepository) FindByName(ctx context.Context, garageID uuid.UUID, name string) (*catalog.ServiceItem, error) {
	var service catalog.ServiceItem
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND name = ?", garageID, name).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindAllForGarage lists service items in a garage
func (r *GormServiceItemRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.ServiceItem, error) {
	var services []catalog.ServiceItem
	query := r.db.WithContext(ctx).Model(&catalog.ServiceItem{}).Where("garage_id = ?", garageID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", pattern)
	}

	query = applyPaging(query, filter, CommonSortFields, "name ASC")
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// Save creates or updates a service item
func (r *GormServiceItemRepository) Save(ctx context.Context, service *catalog.ServiceItem) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// Delete deletes a service item
func (r *GormServiceItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ServiceItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormServiceItemRepository implements ServiceItemRepository
var _ catalog.ServiceItemRepository = (*GormServiceItemRepository)(nil)
