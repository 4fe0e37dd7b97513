package billing

import (
	"context"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories invoice and
// estimate creation touches within one transaction. Creating an invoice may
// issue stock, so the parts master and the outward ledger share the
// transaction with the document itself.
type TransactionalRepositories interface {
	// DocumentRepo returns the document repository scoped to the current transaction
	DocumentRepo() billing.DocumentRepository
	// PartRepo returns the parts-master repository scoped to the current transaction
	PartRepo() catalog.PartRepository
	// OutwardRepo returns the outward movement repository scoped to the current transaction
	OutwardRepo() inventory.StockOutwardRepository
	// JobcardRepo returns the jobcard repository scoped to the current transaction
	JobcardRepo() jobcard.JobcardRepository
	// GarageRepo returns the garage repository scoped to the current transaction
	GarageRepo() identity.GarageRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() registry.CustomerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	documentRepo billing.DocumentRepository
	partRepo     catalog.PartRepository
	outwardRepo  inventory.StockOutwardRepository
	jobcardRepo  jobcard.JobcardRepository
	garageRepo   identity.GarageRepository
	customerRepo registry.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	documentRepo billing.DocumentRepository,
	partRepo catalog.PartRepository,
	outwardRepo inventory.StockOutwardRepository,
	jobcardRepo jobcard.JobcardRepository,
	garageRepo identity.GarageRepository,
	customerRepo registry.CustomerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		documentRepo: documentRepo,
		partRepo:     partRepo,
		outwardRepo:  outwardRepo,
		jobcardRepo:  jobcardRepo,
		garageRepo:   garageRepo,
		customerRepo: customerRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DocumentRepo returns the document repository.
func (s *NoOpTransactionScope) DocumentRepo() billing.DocumentRepository {
	return s.documentRepo
}

// PartRepo returns the parts-master repository.
func (s *NoOpTransactionScope) PartRepo() catalog.PartRepository {
	return s.partRepo
}

// OutwardRepo returns the outward movement repository.
func (s *NoOpTransactionScope) OutwardRepo() inventory.StockOutwardRepository {
	return s.outwardRepo
}

// JobcardRepo returns the jobcard repository.
func (s *NoOpTransactionScope) JobcardRepo() jobcard.JobcardRepository {
	return s.jobcardRepo
}

// GarageRepo returns the garage repository.
func (s *NoOpTransactionScope) GarageRepo() identity.GarageRepository {
	return s.garageRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() registry.CustomerRepository {
	return s.customerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
