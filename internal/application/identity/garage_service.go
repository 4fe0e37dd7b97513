// Package identity holds the application services for garage tenants and
// staff accounts.
package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// GarageService handles the tenant lifecycle
type GarageService struct {
	garageRepo identity.GarageRepository
	logger     *zap.Logger
}

// NewGarageService creates a new GarageService
func NewGarageService(garageRepo identity.GarageRepository, logger *zap.Logger) *GarageService {
	return &GarageService{garageRepo: garageRepo, logger: logger}
}

// RegisterGarage creates a tenant with the next short code
func (s *GarageService) RegisterGarage(ctx context.Context, fields identity.GarageFields) (*identity.Garage, error) {
	maxCode, err := s.garageRepo.MaxCode(ctx)
	if err != nil {
		return nil, err
	}
	garage, err := identity.NewGarage(maxCode+1, fields)
	if err != nil {
		return nil, err
	}
	if err := s.garageRepo.Save(ctx, garage); err != nil {
		return nil, err
	}
	s.logger.Info("garage registered",
		zap.String("garage_id", garage.ID.String()),
		zap.Int("code", garage.Code))
	return garage, nil
}

// GetGarage loads a garage by id
func (s *GarageService) GetGarage(ctx context.Context, id uuid.UUID) (*identity.Garage, error) {
	return s.garageRepo.FindByID(ctx, id)
}

// UpdateGarage applies new field values
func (s *GarageService) UpdateGarage(ctx context.Context, id uuid.UUID, fields identity.GarageFields) (*identity.Garage, error) {
	garage, err := s.garageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := garage.Update(fields); err != nil {
		return nil, err
	}
	if err := s.garageRepo.Save(ctx, garage); err != nil {
		return nil, err
	}
	return garage, nil
}

// ListGarages returns a page of garages
func (s *GarageService) ListGarages(ctx context.Context, filter shared.Filter) ([]identity.Garage, error) {
	return s.garageRepo.FindAll(ctx, filter)
}

// DeleteGarage removes a tenant with no dependent records
func (s *GarageService) DeleteGarage(ctx context.Context, id uuid.UUID) error {
	garage, err := s.garageRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hasDeps, err := s.garageRepo.HasDependents(ctx, garage.ID)
	if err != nil {
		return err
	}
	if hasDeps {
		return shared.NewDependentChildrenError("garage", "customers, jobcards or stock records")
	}
	return s.garageRepo.Delete(ctx, garage.ID)
}
