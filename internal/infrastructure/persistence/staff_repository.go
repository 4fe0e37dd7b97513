package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStaffRepository implements StaffRepository using GORM
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// FindByID finds a staff member by ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByIDForGarage finds a staff member by ID within a garage
func (r *GormStaffRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByPhone finds a staff member by phone within a garage
func (r *GormStaffRepository) FindByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND phone = ?", garageID, phone).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByStaffNo resolves the short per-garage staff number
func (r *GormStaffRepository) FindByStaffNo(ctx context.Context, garageID uuid.UUID, staffNo int) (*identity.Staff, error) {
	var staff identity.Staff
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND staff_no = ?", garageID, staffNo).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// MaxStaffNo returns the highest staff number assigned in a garage
func (r *GormStaffRepository) MaxStaffNo(ctx context.Context, garageID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&identity.Staff{}).
		Where("garage_id = ?", garageID).
		Select("MAX(staff_no)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// FindAllForGarage finds all staff for a garage
func (r *GormStaffRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	var staff []identity.Staff
	query := r.db.WithContext(ctx).Model(&identity.Staff{}).Where("garage_id = ?", garageID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	query = applyPaging(query, filter, StaffSortFields, "staff_no ASC")
	if err := query.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// Save creates or updates a staff member
func (r *GormStaffRepository) Save(ctx context.Context, s *identity.Staff) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a staff member
func (r *GormStaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Staff{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStaffRepository implements StaffRepository
var _ identity.StaffRepository = (*GormStaffRepository)(nil)
