package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockOutwardRepository implements StockOutwardRepository using GORM
type GormStockOutwardRepository struct {
	db *gorm.DB
}

// NewGormStockOutwardRepository creates a new GormStockOutwardRepository
func NewGormStockOutwardRepository(db *gorm.DB) *GormStockOutwardRepository {
	return &GormStockOutwardRepository{db: db}
}

// FindByID finds an outward movement by ID
func (r *GormStockOutwardRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockOutward, error) {
	var movement inventory.StockOutward
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByIDForGarage finds an outward movement by ID within a garage
func (r *GormStockOutwardRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*inventory.StockOutward, error) {
	var movement inventory.StockOutward
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

// FindByProduct lists outward movements for one part
func (r *GormStockOutwardRepository) FindByProduct(ctx context.Context, garageID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	var movements []inventory.StockOutward
	query := r.db.WithContext(ctx).
		Model(&inventory.StockOutward{}).
		Where("garage_id = ? AND product_id = ?", garageID, productID)

	query = applyPaging(query, filter, MovementSortFields, "created_at DESC")
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference lists issues tagged with a reference document
func (r *GormStockOutwardRepository) FindByReference(ctx context.Context, garageID uuid.UUID, purpose inventory.UsagePurpose, reference string) ([]inventory.StockOutward, error) {
	var movements []inventory.StockOutward
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND usage_purpose = ? AND reference_document = ?", garageID, purpose, reference).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAllForGarage lists outward movements for a garage
func (r *GormStockOutwardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	var movements []inventory.StockOutward
	query := r.db.WithContext(ctx).
		Model(&inventory.StockOutward{}).
		Where("garage_id = ?", garageID)

	for key, value := range filter.Filters {
		switch key {
		case "usage_purpose":
			query = query.Where("usage_purpose = ?", value)
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

// Save creates or updates an outward movement
func (r *GormStockOutwardRepository) Save(ctx context.Context, movement *inventory.StockOutward) error {
	return r.db.WithContext(ctx).Save(movement).Error
}

// Delete deletes an outward movement
func (r *GormStockOutwardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockOutward{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStockOutwardRepository implements StockOutwardRepository
var _ inventory.StockOutwardRepository = (*GormStockOutwardRepository)(nil)
