// Package registry holds the application services for the customer and
// vehicle masters.
package registry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// CustomerService handles customer registry operations. The (garage, phone)
// pair is the customer identity; every create path funnels through the
// deduplicating upsert.
type CustomerService struct {
	customerRepo registry.CustomerRepository
	vehicleRepo  registry.VehicleRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo registry.CustomerRepository,
	vehicleRepo registry.VehicleRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		logger:       logger,
	}
}

// UpsertCustomer finds the customer by (garage, phone) and merges the
// non-empty request fields onto it, or creates a new customer when the phone
// is unknown. With skipMerge the existing record is returned untouched.
func (s *CustomerService) UpsertCustomer(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone, fields registry.CustomerFields, skipMerge bool) (*registry.Customer, error) {
	existing, err := s.customerRepo.FindByPhone(ctx, garageID, phone)
	if err == nil && existing != nil {
		if skipMerge {
			return existing, nil
		}
		existing.Merge(fields)
		if err := s.customerRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	customer, err := registry.NewCustomer(garageID, fields.Name, phone, fields)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer created",
		zap.String("garage_id", garageID.String()),
		zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

// SearchByPhone returns the customer with its vehicles preloaded, or a
// not-found error. Callers use this to confirm before creating duplicates.
func (s *CustomerService) SearchByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*registry.Customer, error) {
	customer, err := s.customerRepo.FindByPhoneWithVehicles(ctx, garageID, phone)
	if err != nil {
		return nil, shared.NewNotFoundError("customer")
	}
	return customer, nil
}

// GetCustomer loads a customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, garageID, id uuid.UUID) (*registry.Customer, error) {
	return s.customerRepo.FindByIDForGarage(ctx, garageID, id)
}

// ListCustomers returns a page of customers
func (s *CustomerService) ListCustomers(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (shared.Paginated[registry.Customer], error) {
	customers, err := s.customerRepo.FindAllForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[registry.Customer]{}, err
	}
	total, err := s.customerRepo.CountForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[registry.Customer]{}, err
	}
	return shared.NewPaginated(customers, total, filter.Page, filter.PageSize), nil
}

// UpdateCustomer merges new field values onto a customer loaded by id
func (s *CustomerService) UpdateCustomer(ctx context.Context, garageID, id uuid.UUID, fields registry.CustomerFields) (*registry.Customer, error) {
	customer, err := s.customerRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	customer.Merge(fields)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer with no dependent records
func (s *CustomerService) DeleteCustomer(ctx context.Context, garageID, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return err
	}
	hasDeps, err := s.customerRepo.HasDependents(ctx, customer.ID)
	if err != nil {
		return err
	}
	if hasDeps {
		return shared.NewDependentChildrenError("customer", "vehicles, jobcards, invoices or estimates")
	}
	return s.customerRepo.Delete(ctx, customer.ID)
}
