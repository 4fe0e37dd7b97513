package persistence

import (
	"context"

	appbilling "github.com/garagehq/gms-backend/internal/application/billing"
	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"gorm.io/gorm"
)

// GormBillingTransactionScope implements the billing TransactionScope using
// GORM transactions. Document numbering and any stock an invoice issues
// commit atomically with the document itself.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

// DocumentRepo returns the document repository scoped to the current transaction
func (r *gormBillingRepositories) DocumentRepo() billing.DocumentRepository {
	return NewGormDocumentRepository(r.tx)
}

// PartRepo returns the parts-master repository scoped to the current transaction
func (r *gormBillingRepositories) PartRepo() catalog.PartRepository {
	return NewGormPartRepository(r.tx)
}

// OutwardRepo returns the outward movement repository scoped to the current transaction
func (r *gormBillingRepositories) OutwardRepo() inventory.StockOutwardRepository {
	return NewGormStockOutwardRepository(r.tx)
}

// JobcardRepo returns the jobcard repository scoped to the current transaction
func (r *gormBillingRepositories) JobcardRepo() jobcard.JobcardRepository {
	return NewGormJobcardRepository(r.tx)
}

// GarageRepo returns the garage repository scoped to the current transaction
func (r *gormBillingRepositories) GarageRepo() identity.GarageRepository {
	return NewGormGarageRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormBillingRepositories) CustomerRepo() registry.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
