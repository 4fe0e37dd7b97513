package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockInwardRepository implements StockInwardRepository using GORM
type GormStockInwardRepository struct {
	db *gorm.DB
}

// NewGormStockInwardRepository creates a new GormStockInwardRepository
func NewGormStockInwardRepository(db *gorm.DB) *GormStockInwardRepository {
	return &GormStockInwardRepository{db: db}
}

// FindByID finds an inward movement by ID
func (r *GormStockInwardRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockInward, error) {
	var movement inventory.StockInward
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByIDForGarage finds an inward movement by ID within a garage
func (r *GormStockInwardRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*inventory.StockInward, error) {
	var movement inventory.StockInward
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByProduct lists inward movements for one part
func (r *GormStockInwardRepository) FindByProduct(ctx context.Context, garageID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockInward, error) {
	var movements []inventory.StockInward
	query := r.db.WithContext(ctx).
		Model(&inventory.StockInward{}).
		Where("garage_id = ? AND product_id = ?", garageID, productID)

	query = applyPaging(query, filter, MovementSortFields, "created_at DESC")
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAllForGarage lists inward movements for a garage
func (r *GormStockInwardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]inventory.StockInward, error) {
	var movements []inventory.StockInward
	query := r.db.WithContext(ctx).
		Model(&inventory.StockInward{}).
		Where("garage_id = ?", garageID)

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}

	query = applyPaging(query, filter, MovementSortFields, "created_at DESC")
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Save creates or updates an inward movement
func (r *GormStockInwardRepository) Save(ctx context.Context, movement *inventory.StockInward) error {
	return r.db.WithContext(ctx).Save(movement).Error
}

// Delete deletes an inward movement
func (r *GormStockInwardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockInward{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStockInwardRepository implements StockInwardRepository
var _ inventory.StockInwardRepository = (*GormStockInwardRepository)(nil)
