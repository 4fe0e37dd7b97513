package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Customer, error) {
	var customer registry.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByIDForGarage finds a customer by ID within a garage
func (r *GormCustomerRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*registry.Customer, error) {
	var customer registry.Customer
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByPhone looks up the customer by the (garage, phone) identity
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*registry.Customer, error) {
	var customer registry.Customer
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND phone = ?", garageID, phone).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByPhoneWithVehicles returns the customer and preloads its vehicles
func (r *GormCustomerRepository) FindByPhoneWithVehicles(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*registry.Customer, error) {
	var customer registry.Customer
	if err := r.db.WithContext(ctx).
		Preload("Vehicles").
		Where("garage_id = ? AND phone = ?", garageID, phone).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAllForGarage finds all customers for a garage
func (r *GormCustomerRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]registry.Customer, error) {
	var customers []registry.Customer
	query := r.applyFilters(r.db.WithContext(ctx).Model(&registry.Customer{}).Where("garage_id = ?", garageID), filter)

	query = applyPaging(query, filter, CustomerSortFields, "name ASC")
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *registry.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasDependents reports whether vehicles, jobcards, invoices or estimates
// still reference the customer
func (r *GormCustomerRepository) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&registry.Vehicle{}).
		Where("customer_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&jobcard.Jobcard{}).
		Where("customer_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Document{}).
		Where("customer_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForGarage counts customers matching the filter
func (r *GormCustomerRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&registry.Customer{}).Where("garage_id = ?", garageID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCustomerRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "pincode":
			query = query.Where("pincode = ?", value)
		case "gst":
			query = query.Where("gst = ?", value)
		}
	}
	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ registry.CustomerRepository = (*GormCustomerRepository)(nil)
