package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartRepository implements PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// FindByID finds a part by its ID
func (r *GormPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Part, error) {
	var part catalog.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindByIDForGarage finds a part by ID within a garage
func (r *GormPartRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*catalog.Part, error) {
	var part catalog.Part
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindByIDForUpdate finds a part by ID with a row-level exclusive lock.
// Must be called inside a transaction.
func (r *GormPartRepository) FindByIDForUpdate(ctx context.Context, garageID, id uuid.UUID) (*catalog.Part, error) {
	var part catalog.Part
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindAllForGarage lists parts in a garage
func (r *GormPartRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Part, error) {
	var parts []catalog.Part
	query := r.applyFilters(r.db.WithContext(ctx).Model(&catalog.Part{}).Where("garage_id = ?", garageID), filter)

	query = applyPaging(query, filter, PartSortFields, "name ASC")
	if err := query.Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// FindByPartNumber finds a part by its part number within a garage
func (r *GormPartRepository) FindByPartNumber(ctx context.Context, garageID uuid.UUID, partNumber string) (*catalog.Part, error) {
	var part catalog.Part
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND part_number = ?", garageID, partNumber).
		First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// FindBelowMinimum lists parts at or below their minimum stock threshold
func (r *GormPartRepository) FindBelowMinimum(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Part, error) {
	var parts []catalog.Part
	query := r.db.WithContext(ctx).
		Model(&catalog.Part{}).
		Where("garage_id = ? AND min_stock > 0 AND inward_stock - outward_stock <= min_stock", garageID)

	query = applyPaging(query, filter, PartSortFields, "name ASC")
	if err := query.Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// Save creates or updates a part
func (r *GormPartRepository) Save(ctx context.Context, part *catalog.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// Delete removes a part
func (r *GormPartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Part{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForGarage counts parts matching the filter
func (r *GormPartRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&catalog.Part{}).Where("garage_id = ?", garageID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPartRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR part_number ILIKE ? OR code ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "brand_id":
			query = query.Where("brand_id = ?", value)
		case "model":
			query = query.Where("model = ?", value)
		}
	}
	return query
}

// Ensure GormPartRepository implements PartRepository
var _ catalog.PartRepository = (*GormPartRepository)(nil)
