package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// DocumentRepository defines the interface for invoice/estimate persistence
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Document, error)
	// FindByIDWithLines preloads the line items
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByNumber(ctx context.Context, garageID uuid.UUID, kind DocumentKind, number string) (*Document, error)
	// MaxNumberForYear returns the highest-sequence number issued in a
	// garage for a document kind within a financial year, or empty. The
	// scan includes soft-deleted documents so a deleted number is never
	// reissued. Must be called inside the creating transaction.
	MaxNumberForYear(ctx context.Context, garageID uuid.UUID, kind DocumentKind, fyShort string) (string, error)
	FindByJobcard(ctx context.Context, jobcardID uuid.UUID) ([]Document, error)
	FindByCustomer(ctx context.Context, garageID, customerID uuid.UUID, filter shared.Filter) ([]Document, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, kind DocumentKind, filter shared.Filter) ([]Document, error)
	Save(ctx context.Context, d *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountForGarage(ctx context.Context, garageID uuid.UUID, kind DocumentKind, filter shared.Filter) (int64, error)
}
