package persistence

import (
	"context"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"gorm.io/gorm"
)

// GormJobcardTransactionScope implements the workflow TransactionScope using
// GORM transactions. Finalisation moves stock for every internal part line
// and stamps the booking timeline in the same transaction as the jobcard;
// booking promotion creates the customer, vehicle and jobcard together.
type GormJobcardTransactionScope struct {
	db *gorm.DB
}

// NewGormJobcardTransactionScope creates a new GormJobcardTransactionScope
func NewGormJobcardTransactionScope(db *gorm.DB) *GormJobcardTransactionScope {
	return &GormJobcardTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormJobcardTransactionScope) Execute(ctx context.Context, fn func(repos appjobcard.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormJobcardRepositories{tx: tx})
	})
}

type gormJobcardRepositories struct {
	tx *gorm.DB
}

// JobcardRepo returns the jobcard repository scoped to the current transaction
func (r *gormJobcardRepositories) JobcardRepo() jobcard.JobcardRepository {
	return NewGormJobcardRepository(r.tx)
}

// PartRepo returns the parts-master repository scoped to the current transaction
func (r *gormJobcardRepositories) PartRepo() catalog.PartRepository {
	return NewGormPartRepository(r.tx)
}

// ServiceItemRepo returns the service catalogue repository scoped to the current transaction
func (r *gormJobcardRepositories) ServiceItemRepo() catalog.ServiceItemRepository {
	return NewGormServiceItemRepository(r.tx)
}

// OutwardRepo returns the outward movement repository scoped to the current transaction
func (r *gormJobcardRepositories) OutwardRepo() inventory.StockOutwardRepository {
	return NewGormStockOutwardRepository(r.tx)
}

// BookingRepo returns the booking repository scoped to the current transaction
func (r *gormJobcardRepositories) BookingRepo() booking.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormJobcardRepositories) CustomerRepo() registry.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// VehicleRepo returns the vehicle repository scoped to the current transaction
func (r *gormJobcardRepositories) VehicleRepo() registry.VehicleRepository {
	return NewGormVehicleRepository(r.tx)
}

// BrandRepo returns the vehicle brand repository scoped to the current transaction
func (r *gormJobcardRepositories) BrandRepo() registry.VehicleBrandRepository {
	return NewGormVehicleBrandRepository(r.tx)
}

// ModelRepo returns the vehicle model repository scoped to the current transaction
func (r *gormJobcardRepositories) ModelRepo() registry.VehicleModelRepository {
	return NewGormVehicleModelRepository(r.tx)
}

// StaffRepo returns the staff repository scoped to the current transaction
func (r *gormJobcardRepositories) StaffRepo() identity.StaffRepository {
	return NewGormStaffRepository(r.tx)
}

var _ appjobcard.TransactionScope = (*GormJobcardTransactionScope)(nil)
var _ appjobcard.TransactionalRepositories = (*gormJobcardRepositories)(nil)
