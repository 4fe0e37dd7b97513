package registry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/registry"
)

// VehicleCatalogService resolves brand and model names against the per-garage
// vehicle catalogue, creating rows lazily when a booking names an unknown
// brand or model. Lookups use the normalised name; the original spelling is
// preserved as the display name.
type VehicleCatalogService struct {
	brandRepo registry.VehicleBrandRepository
	modelRepo registry.VehicleModelRepository
	logger    *zap.Logger
}

// NewVehicleCatalogService creates a new VehicleCatalogService
func NewVehicleCatalogService(
	brandRepo registry.VehicleBrandRepository,
	modelRepo registry.VehicleModelRepository,
	logger *zap.Logger,
) *VehicleCatalogService {
	return &VehicleCatalogService{
		brandRepo: brandRepo,
		modelRepo: modelRepo,
		logger:    logger,
	}
}

// EnsureBrand returns the brand row for the name, creating it if absent
func (s *VehicleCatalogService) EnsureBrand(ctx context.Context, garageID uuid.UUID, vehicleType registry.VehicleType, displayName string) (*registry.VehicleBrand, error) {
	normalized := registry.NormalizeName(displayName)
	if existing, err := s.brandRepo.FindByName(ctx, garageID, vehicleType, normalized); err == nil && existing != nil {
		return existing, nil
	}
	brand, err := registry.NewVehicleBrand(garageID, vehicleType, displayName)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	s.logger.Info("vehicle brand created lazily",
		zap.String("garage_id", garageID.String()),
		zap.String("name", normalized))
	return brand, nil
}

// EnsureModel returns the model row under a brand, creating it if absent
func (s *VehicleCatalogService) EnsureModel(ctx context.Context, garageID, brandID uuid.UUID, vehicleType registry.VehicleType, displayName string) (*registry.VehicleModel, error) {
	normalized := registry.NormalizeName(displayName)
	if existing, err := s.modelRepo.FindByName(ctx, garageID, brandID, vehicleType, normalized); err == nil && existing != nil {
		return existing, nil
	}
	model, err := registry.NewVehicleModel(garageID, brandID, vehicleType, displayName)
	if err != nil {
		return nil, err
	}
	if err := s.modelRepo.Save(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

// ListBrands returns the brands for a vehicle type
func (s *VehicleCatalogService) ListBrands(ctx context.Context, garageID uuid.UUID, vehicleType registry.VehicleType) ([]registry.VehicleBrand, error) {
	return s.brandRepo.FindAllForGarage(ctx, garageID, vehicleType)
}

// ListModels returns the models under a brand
func (s *VehicleCatalogService) ListModels(ctx context.Context, garageID, brandID uuid.UUID) ([]registry.VehicleModel, error) {
	return s.modelRepo.FindByBrand(ctx, garageID, brandID)
}
