package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// GarageRepository defines the interface for garage persistence
type GarageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Garage, error)
	FindByCode(ctx context.Context, code int) (*Garage, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Garage, error)
	// MaxCode returns the highest garage code assigned so far
	MaxCode(ctx context.Context) (int, error)
	Save(ctx context.Context, g *Garage) error
	Delete(ctx context.Context, id uuid.UUID) error
	// HasDependents reports whether the garage still owns child records
	HasDependents(ctx context.Context, id uuid.UUID) (bool, error)
}

// StaffRepository defines the interface for staff persistence
type StaffRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Staff, error)
	FindByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*Staff, error)
	// FindByStaffNo resolves the short per-garage staff number carried in
	// timeline remarks
	FindByStaffNo(ctx context.Context, garageID uuid.UUID, staffNo int) (*Staff, error)
	// MaxStaffNo returns the highest staff number assigned in a garage
	MaxStaffNo(ctx context.Context, garageID uuid.UUID) (int, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Staff, error)
	Save(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
}
