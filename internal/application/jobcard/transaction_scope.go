package jobcard

import (
	"context"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
)

// TransactionScope provides transactional access to the workflow repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the jobcard
// workflow touches within one transaction. Finalisation spans the jobcard,
// the parts master, the stock ledger and the booking timeline; promotion
// additionally spans the customer, vehicle and staff masters. All
// repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	// JobcardRepo returns the jobcard repository scoped to the current transaction
	JobcardRepo() jobcard.JobcardRepository
	// PartRepo returns the parts-master repository scoped to the current transaction
	PartRepo() catalog.PartRepository
	// ServiceItemRepo returns the service catalogue repository scoped to the current transaction
	ServiceItemRepo() catalog.ServiceItemRepository
	// OutwardRepo returns the outward movement repository scoped to the current transaction
	OutwardRepo() inventory.StockOutwardRepository
	// BookingRepo returns the booking repository scoped to the current transaction
	BookingRepo() booking.BookingRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() registry.CustomerRepository
	// VehicleRepo returns the vehicle repository scoped to the current transaction
	VehicleRepo() registry.VehicleRepository
	// BrandRepo returns the vehicle brand repository scoped to the current transaction
	BrandRepo() registry.VehicleBrandRepository
	// ModelRepo returns the vehicle model repository scoped to the current transaction
	ModelRepo() registry.VehicleModelRepository
	// StaffRepo returns the staff repository scoped to the current transaction
	StaffRepo() identity.StaffRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	jobcardRepo     jobcard.JobcardRepository
	partRepo        catalog.PartRepository
	serviceItemRepo catalog.ServiceItemRepository
	outwardRepo     inventory.StockOutwardRepository
	bookingRepo     booking.BookingRepository
	customerRepo    registry.CustomerRepository
	vehicleRepo     registry.VehicleRepository
	brandRepo       registry.VehicleBrandRepository
	modelRepo       registry.VehicleModelRepository
	staffRepo       identity.StaffRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	jobcardRepo jobcard.JobcardRepository,
	partRepo catalog.PartRepository,
	serviceItemRepo catalog.ServiceItemRepository,
	outwardRepo inventory.StockOutwardRepository,
	bookingRepo booking.BookingRepository,
	customerRepo registry.CustomerRepository,
	vehicleRepo registry.VehicleRepository,
	brandRepo registry.VehicleBrandRepository,
	modelRepo registry.VehicleModelRepository,
	staffRepo identity.StaffRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		jobcardRepo:     jobcardRepo,
		partRepo:        partRepo,
		serviceItemRepo: serviceItemRepo,
		outwardRepo:     outwardRepo,
		bookingRepo:     bookingRepo,
		customerRepo:    customerRepo,
		vehicleRepo:     vehicleRepo,
		brandRepo:       brandRepo,
		modelRepo:       modelRepo,
		staffRepo:       staffRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// JobcardRepo returns the jobcard repository.
func (s *NoOpTransactionScope) JobcardRepo() jobcard.JobcardRepository {
	return s.jobcardRepo
}

// PartRepo returns the parts-master repository.
func (s *NoOpTransactionScope) PartRepo() catalog.PartRepository {
	return s.partRepo
}

// ServiceItemRepo returns the service catalogue repository.
func (s *NoOpTransactionScope) ServiceItemRepo() catalog.ServiceItemRepository {
	return s.serviceItemRepo
}

// OutwardRepo returns the outward movement repository.
func (s *NoOpTransactionScope) OutwardRepo() inventory.StockOutwardRepository {
	return s.outwardRepo
}

// BookingRepo returns the booking repository.
func (s *NoOpTransactionScope) BookingRepo() booking.BookingRepository {
	return s.bookingRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() registry.CustomerRepository {
	return s.customerRepo
}

// VehicleRepo returns the vehicle repository.
func (s *NoOpTransactionScope) VehicleRepo() registry.VehicleRepository {
	return s.vehicleRepo
}

// BrandRepo returns the vehicle brand repository.
func (s *NoOpTransactionScope) BrandRepo() registry.VehicleBrandRepository {
	return s.brandRepo
}

// ModelRepo returns the vehicle model repository.
func (s *NoOpTransactionScope) ModelRepo() registry.VehicleModelRepository {
	return s.modelRepo
}

// StaffRepo returns the staff repository.
func (s *NoOpTransactionScope) StaffRepo() identity.StaffRepository {
	return s.staffRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
