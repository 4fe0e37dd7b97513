package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGarageRepository implements GarageRepository using GORM
type GormGarageRepository struct {
	db *gorm.DB
}

// NewGormGarageRepository creates a new GormGarageRepository
func NewGormGarageRepository(db *gorm.DB) *GormGarageRepository {
	return &GormGarageRepository{db: db}
}

// FindByID finds a garage by its ID
func (r *GormGarageRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Garage, error) {
	var garage identity.Garage
	if err := r.db.WithContext(ctx).First(&garage, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &garage, nil
}

// FindByCode finds a garage by its short numeric code
func (r *GormGarageRepository) FindByCode(ctx context.Context, code int) (*identity.Garage, error) {
	var garage identity.Garage
	if err := r.db.WithContext(ctx).First(&garage, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &garage, nil
}

// FindAll finds all garages matching the filter
func (r *GormGarageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Garage, error) {
	var garages []identity.Garage
	query := r.db.WithContext(ctx).Model(&identity.Garage{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR city ILIKE ?", pattern, pattern)
	}

	query = applyPaging(query, filter, CommonSortFields, "code ASC")
	if err := query.Find(&garages).Error; err != nil {
		return nil, err
	}
	return garages, nil
}

// MaxCode returns the highest garage code assigned so far
func (r *GormGarageRepository) MaxCode(ctx context.Context) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&identity.Garage{}).
		Select("MAX(code)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Save creates or updates a garage
func (r *GormGarageRepository) Save(ctx context.Context, g *identity.Garage) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// Delete deletes a garage
func (r *GormGarageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Garage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasDependents reports whether the garage still owns child records
func (r *GormGarageRepository) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&registry.Customer{}).
		Where("garage_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&jobcard.Jobcard{}).
		Where("garage_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Document{}).
		Where("garage_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyPaging applies ordering and pagination to a query
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string) *gorm.DB {
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, allowed, "")
		if field != "" {
			query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
		} else {
			query = query.Order(defaultOrder)
		}
	} else {
		query = query.Order(defaultOrder)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// Ensure GormGarageRepository implements GarageRepository
var _ identity.GarageRepository = (*GormGarageRepository)(nil)
