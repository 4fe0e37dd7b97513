package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// PartRepository defines the interface for parts-master persistence
type PartRepository interface {
	// FindByID finds a part by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Part, error)

	// FindByIDForGarage finds a part by ID within a garage
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Part, error)

	// FindByIDForUpdate finds a part by ID with a row-level exclusive lock.
	// Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, garageID, id uuid.UUID) (*Part, error)

	// FindAllForGarage lists parts in a garage
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Part, error)

	// FindByPartNumber finds a part by its part number within a garage
	FindByPartNumber(ctx context.Context, garageID uuid.UUID, partNumber string) (*Part, error)

	// FindBelowMinimum lists parts at or below their minimum stock threshold
	FindBelowMinimum(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Part, error)

	// Save creates or updates a part
	Save(ctx context.Context, part *Part) error

	// Delete removes a part
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForGarage counts parts matching the filter
	CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error)
}

// ServiceItemRepository defines the interface for service catalogue persistence
type ServiceItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceItem, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*ServiceItem, error)
	// FindByName looks up a service by its (garage, name) identity
	FindByName(ctx context.Context, garageID uuid.UUID, name string) (*ServiceItem, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]ServiceItem, error)
	Save(ctx context.Context, service *ServiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the interface for part category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandRepository defines the interface for parts brand persistence
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Brand, error)
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	// FindByIdentity looks up a supplier by the bulk-import upsert key
	FindByIdentity(ctx context.Context, garageID uuid.UUID, name string, mobile valueobject.Phone, location string) (*Supplier, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
