package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the generic persistence contract aggregates share
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// GarageRepository adds garage-scoped lookups. Tenant queries must go through
// these; the unscoped methods exist for internal plumbing only.
type GarageRepository[T any] interface {
	Repository[T]
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*T, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter Filter) ([]T, error)
}

// Filter carries paging, sorting and search options for list queries.
// OrderBy values are validated against per-repository allow-lists before they
// reach SQL.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns the first page sorted by newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Paginated is a page of results with totals
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated assembles a page, deriving the page count from the total
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
