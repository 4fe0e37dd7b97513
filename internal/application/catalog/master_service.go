package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// MasterService handles the supporting masters around the parts catalogue:
// service items, categories, brands and suppliers.
type MasterService struct {
	serviceRepo  catalog.ServiceItemRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	supplierRepo catalog.SupplierRepository
	logger       *zap.Logger
}

// NewMasterService creates a new MasterService
func NewMasterService(
	serviceRepo catalog.ServiceItemRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	supplierRepo catalog.SupplierRepository,
	logger *zap.Logger,
) *MasterService {
	return &MasterService{
		serviceRepo:  serviceRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// CreateServiceItem adds a labour line to the service catalogue.
// The (garage, name) pair is the item's identity.
func (s *MasterService) CreateServiceItem(ctx context.Context, garageID uuid.UUID, name string, value valueobject.Money, tax, discount valueobject.Percent) (*catalog.ServiceItem, error) {
	if existing, err := s.serviceRepo.FindByName(ctx, garageID, name); err == nil && existing != nil {
		return nil, shared.NewConflictError("service with this name already exists")
	}
	item, err := catalog.NewServiceItem(garageID, name, value, tax, discount)
	if err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateServiceItem replaces the pricing of a service item
func (s *MasterService) UpdateServiceItem(ctx context.Context, garageID, id uuid.UUID, value valueobject.Money, tax, discount valueobject.Percent) (*catalog.ServiceItem, error) {
	item, err := s.serviceRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	if err := item.UpdatePricing(value, tax, discount); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListServiceItems returns the service catalogue for a garage
func (s *MasterService) ListServiceItems(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.ServiceItem, error) {
	return s.serviceRepo.FindAllForGarage(ctx, garageID, filter)
}

// DeleteServiceItem removes a service item
func (s *MasterService) DeleteServiceItem(ctx context.Context, garageID, id uuid.UUID) error {
	if _, err := s.serviceRepo.FindByIDForGarage(ctx, garageID, id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(ctx, id)
}

// CreateCategory adds a parts category
func (s *MasterService) CreateCategory(ctx context.Context, garageID uuid.UUID, name string) (*catalog.Category, error) {
	category, err := catalog.NewCategory(garageID, name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the categories of a garage
func (s *MasterService) ListCategories(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Category, error) {
	return s.categoryRepo.FindAllForGarage(ctx, garageID, filter)
}

// CreateBrand adds a parts brand
func (s *MasterService) CreateBrand(ctx context.Context, garageID uuid.UUID, name string) (*catalog.Brand, error) {
	brand, err := catalog.NewBrand(garageID, name)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// ListBrands returns the parts brands of a garage
func (s *MasterService) ListBrands(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Brand, error) {
	return s.brandRepo.FindAllForGarage(ctx, garageID, filter)
}

// UpsertSupplier finds a supplier by its identity or registers a new one
func (s *MasterService) UpsertSupplier(ctx context.Context, garageID uuid.UUID, name string, mobile valueobject.Phone, location string) (*catalog.Supplier, error) {
	if existing, err := s.supplierRepo.FindByIdentity(ctx, garageID, name, mobile, location); err == nil && existing != nil {
		return existing, nil
	}
	supplier, err := catalog.NewSupplier(garageID, name, mobile, location)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("supplier registered",
		zap.String("garage_id", garageID.String()),
		zap.String("name", name))
	return supplier, nil
}

// ListSuppliers returns the suppliers of a garage
func (s *MasterService) ListSuppliers(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Supplier, error) {
	return s.supplierRepo.FindAllForGarage(ctx, garageID, filter)
}
