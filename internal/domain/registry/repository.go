package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Customer, error)
	// FindByPhone looks up the customer by the (garage, phone) identity
	FindByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*Customer, error)
	// FindByPhoneWithVehicles returns the customer and preloads its vehicles
	FindByPhoneWithVehicles(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*Customer, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// HasDependents reports whether vehicles, jobcards, invoices or
	// estimates still reference the customer
	HasDependents(ctx context.Context, id uuid.UUID) (bool, error)
	CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error)
}

// VehicleRepository defines the interface for vehicle persistence
type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*Vehicle, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Vehicle, error)
	// FindByCustomerAndModel supports the import-path upsert key
	FindByCustomerAndModel(ctx context.Context, garageID, customerID uuid.UUID, model string) (*Vehicle, error)
	// FindByRegistrationNo enforces registration uniqueness at the
	// application layer before insert
	FindByRegistrationNo(ctx context.Context, garageID uuid.UUID, registrationNo string) (*Vehicle, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]Vehicle, error)
	Save(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	// HasDependents reports whether jobcards, invoices or estimates still
	// reference the vehicle
	HasDependents(ctx context.Context, id uuid.UUID) (bool, error)
}

// VehicleBrandRepository defines the interface for vehicle brand persistence
type VehicleBrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleBrand, error)
	// FindByName looks up a brand by its normalised name within a garage
	// and vehicle type
	FindByName(ctx context.Context, garageID uuid.UUID, vehicleType VehicleType, name string) (*VehicleBrand, error)
	FindAllForGarage(ctx context.Context, garageID uuid.UUID, vehicleType VehicleType) ([]VehicleBrand, error)
	Save(ctx context.Context, brand *VehicleBrand) error
}

// VehicleModelRepository defines the interface for vehicle model persistence
type VehicleModelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleModel, error)
	// FindByName looks up a model by its normalised name within a garage,
	// brand and vehicle type
	FindByName(ctx context.Context, garageID, brandID uuid.UUID, vehicleType VehicleType, name string) (*VehicleModel, error)
	FindByBrand(ctx context.Context, garageID, brandID uuid.UUID) ([]VehicleModel, error)
	Save(ctx context.Context, model *VehicleModel) error
}
