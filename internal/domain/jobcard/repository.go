package jobcard

import (
	"context"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// JobcardRepository defines the interface for jobcard persistence
type JobcardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Jobcard, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Jobcard, error)
	// FindByIDWithChildren preloads lines, mechanics, observations, notes
	// and payments
	FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*Jobcard, error)
	// FindByIDForUpdate loads the jobcard with a row-level exclusive lock
	// and the children the mutating commands operate on, serialising edits,
	// payments and status changes. Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Jobcard, error)
	// FindByPublicID resolves the unguessable public view handle
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Jobcard, error)
	FindByNumber(ctx context.Context, garageID uuid.UUID, number string) (*Jobcard, error)
	// MaxNumber returns the jobcard number with the highest numeric suffix
	// in a garage, or empty when the garage has none. Must be called inside
	// the creating transaction.
	MaxNumber(ctx context.Context, garageID uuid.UUID) (string, error)
	FindByCustomer(ctx context.Context, garageID, customerID uuid.UUID, filter shared.Filter) ([]Jobcard, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Jobcard, error)
	Save(ctx context.Context, j *Jobcard) error
	// DeletePartLine and DeleteServiceLine remove a single line row. Save
	// upserts loaded children but never deletes rows dropped from the
	// aggregate's slices, so removals are explicit.
	DeletePartLine(ctx context.Context, jobcardID, lineID uuid.UUID) error
	DeleteServiceLine(ctx context.Context, jobcardID, lineID uuid.UUID) error
	// Delete removes the jobcard and cascades to its children
	Delete(ctx context.Context, id uuid.UUID) error
	CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error)
}

// PaymentRepository defines the interface for payment ledger persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByJobcard returns payments ordered by payment_date desc then
	// created_at desc
	FindByJobcard(ctx context.Context, jobcardID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
