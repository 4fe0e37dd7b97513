package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByIdentity looks up a supplier by the bulk-import upsert key
func (r *GormSupplierRepository) FindByIdentity(ctx context.Context, garageID uuid.UUID, name string, mobile valueobject.Phone, location string) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND name = ? AND mobile = ? AND location = ?", garageID, name, mobile, location).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForGarage lists suppliers in a garage
func (r *GormSupplierRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	query := r.db.WithContext(ctx).Model(&catalog.Supplier{}).Where("garage_id = ?", garageID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR mobile ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}

	query = applyPaging(query, filter, SupplierSortFields, "name ASC")
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *catalog.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ catalog.SupplierRepository = (*GormSupplierRepository)(nil)
