package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// StockInwardRepository defines the interface for inward movement persistence
type StockInwardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockInward, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*StockInward, error)
	FindByProduct(ctx context.Context, garageID, productID uuid.UUID, filter shared.Filter) ([]StockInward, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]StockInward, error)
	Save(ctx context.Context, movement *StockInward) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockOutwardRepository defines the interface for outward movement persistence
type StockOutwardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockOutward, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*StockOutward, error)
	FindByProduct(ctx context.Context, garageID, productID uuid.UUID, filter shared.Filter) ([]StockOutward, error)
	// FindByReference lists issues tagged with a reference document, e.g.
	// all issues for one jobcard
	FindByReference(ctx context.Context, garageID uuid.UUID, purpose UsagePurpose, reference string) ([]StockOutward, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]StockOutward, error)
	Save(ctx context.Context, movement *StockOutward) error
	Delete(ctx context.Context, id uuid.UUID) error
}
