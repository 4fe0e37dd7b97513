package inventory

import (
	"context"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to stock repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
//
// Aggregate boundary notes:
//   - PartRepo: the part aggregate owns the running inward/outward counters.
//     Every movement mutates the counters through this repository, using
//     FindByIDForUpdate so the stock guard is evaluated under a row lock.
//   - InwardRepo / OutwardRepo: append-only movement rows that the counters
//     summarise. Rows and counters must change in the same transaction.
type TransactionalRepositories interface {
	// PartRepo returns the parts-master repository scoped to the current transaction
	PartRepo() catalog.PartRepository
	// InwardRepo returns the inward movement repository scoped to the current transaction
	InwardRepo() inventory.StockInwardRepository
	// OutwardRepo returns the outward movement repository scoped to the current transaction
	OutwardRepo() inventory.StockOutwardRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() catalog.SupplierRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	partRepo     catalog.PartRepository
	inwardRepo   inventory.StockInwardRepository
	outwardRepo  inventory.StockOutwardRepository
	supplierRepo catalog.SupplierRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	partRepo catalog.PartRepository,
	inwardRepo inventory.StockInwardRepository,
	outwardRepo inventory.StockOutwardRepository,
	supplierRepo catalog.SupplierRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		partRepo:     partRepo,
		inwardRepo:   inwardRepo,
		outwardRepo:  outwardRepo,
		supplierRepo: supplierRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PartRepo returns the parts-master repository.
func (s *NoOpTransactionScope) PartRepo() catalog.PartRepository {
	return s.partRepo
}

// InwardRepo returns the inward movement repository.
func (s *NoOpTransactionScope) InwardRepo() inventory.StockInwardRepository {
	return s.inwardRepo
}

// OutwardRepo returns the outward movement repository.
func (s *NoOpTransactionScope) OutwardRepo() inventory.StockOutwardRepository {
	return s.outwardRepo
}

// SupplierRepo returns the supplier repository.
func (s *NoOpTransactionScope) SupplierRepo() catalog.SupplierRepository {
	return s.supplierRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
