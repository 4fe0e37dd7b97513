package persistence

import (
	"context"

	appinv "github.com/garagehq/gms-backend/internal/application/inventory"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the stock TransactionScope using
// GORM transactions. A movement row and the part counters it drives always
// commit or roll back together.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

// PartRepo returns the parts-master repository scoped to the current transaction
func (r *gormInventoryRepositories) PartRepo() catalog.PartRepository {
	return NewGormPartRepository(r.tx)
}

// InwardRepo returns the inward movement repository scoped to the current transaction
func (r *gormInventoryRepositories) InwardRepo() inventory.StockInwardRepository {
	return NewGormStockInwardRepository(r.tx)
}

// OutwardRepo returns the outward movement repository scoped to the current transaction
func (r *gormInventoryRepositories) OutwardRepo() inventory.StockOutwardRepository {
	return NewGormStockOutwardRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormInventoryRepositories) SupplierRepo() catalog.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
