package registry

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// BlobStore is the content-addressed file store used for vehicle photos.
// Implemented by the infrastructure layer (S3 or local stub).
type BlobStore interface {
	// Put stores the bytes and returns an opaque handle
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	// Delete removes a stored blob. Missing blobs are not an error.
	Delete(ctx context.Context, handle string) error
}

// VehicleService handles vehicle registry operations
type VehicleService struct {
	vehicleRepo  registry.VehicleRepository
	customerRepo registry.CustomerRepository
	blobs        BlobStore
	logger       *zap.Logger
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(
	vehicleRepo registry.VehicleRepository,
	customerRepo registry.CustomerRepository,
	blobs BlobStore,
	logger *zap.Logger,
) *VehicleService {
	return &VehicleService{
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		blobs:        blobs,
		logger:       logger,
	}
}

// CreateVehicle registers a vehicle under a customer. Registration-number
// uniqueness across the garage is enforced here rather than by a DB
// constraint because historical rows predate the rule.
func (s *VehicleService) CreateVehicle(ctx context.Context, garageID, customerID uuid.UUID, fields registry.VehicleFields) (*registry.Vehicle, error) {
	if _, err := s.customerRepo.FindByIDForGarage(ctx, garageID, customerID); err != nil {
		return nil, shared.NewNotFoundError("customer")
	}
	if err := s.checkRegistrationUnique(ctx, garageID, fields.RegistrationNo, uuid.Nil); err != nil {
		return nil, err
	}

	vehicle, err := registry.NewVehicle(garageID, customerID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	s.logger.Info("vehicle created",
		zap.String("garage_id", garageID.String()),
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("customer_id", customerID.String()))
	return vehicle, nil
}

// UpsertVehicleForImport finds a vehicle by the (garage, customer, model)
// import key or creates one
func (s *VehicleService) UpsertVehicleForImport(ctx context.Context, garageID, customerID uuid.UUID, fields registry.VehicleFields) (*registry.Vehicle, error) {
	if existing, err := s.vehicleRepo.FindByCustomerAndModel(ctx, garageID, customerID, fields.Model); err == nil && existing != nil {
		return existing, nil
	}
	return s.CreateVehicle(ctx, garageID, customerID, fields)
}

// UpdateVehicle replaces a vehicle's attributes
func (s *VehicleService) UpdateVehicle(ctx context.Context, garageID, id uuid.UUID, fields registry.VehicleFields) (*registry.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegistrationUnique(ctx, garageID, fields.RegistrationNo, vehicle.ID); err != nil {
		return nil, err
	}
	if err := vehicle.Update(fields); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// GetVehicle loads a vehicle by id
func (s *VehicleService) GetVehicle(ctx context.Context, garageID, id uuid.UUID) (*registry.Vehicle, error) {
	return s.vehicleRepo.FindByIDForGarage(ctx, garageID, id)
}

// ListVehiclesForCustomer returns a customer's vehicles
func (s *VehicleService) ListVehiclesForCustomer(ctx context.Context, garageID, customerID uuid.UUID) ([]registry.Vehicle, error) {
	if _, err := s.customerRepo.FindByIDForGarage(ctx, garageID, customerID); err != nil {
		return nil, shared.NewNotFoundError("customer")
	}
	return s.vehicleRepo.FindByCustomer(ctx, customerID)
}

// AttachImage stores the vehicle photo and records its handle, replacing any
// previous photo best-effort
func (s *VehicleService) AttachImage(ctx context.Context, garageID, id uuid.UUID, data []byte, contentType string) (*registry.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	handle, err := s.blobs.Put(ctx, data, contentType)
	if err != nil {
		return nil, shared.NewExternalDependencyError("blob store", err)
	}
	if old := vehicle.ImageHandle; old != "" && old != handle {
		if err := s.blobs.Delete(ctx, old); err != nil {
			s.logger.Warn("failed to delete previous vehicle image",
				zap.String("handle", old), zap.Error(err))
		}
	}
	vehicle.SetImageHandle(handle)
	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle removes a vehicle with no dependent records. The stored photo
// is removed best-effort.
func (s *VehicleService) DeleteVehicle(ctx context.Context, garageID, id uuid.UUID) error {
	vehicle, err := s.vehicleRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return err
	}
	hasDeps, err := s.vehicleRepo.HasDependents(ctx, vehicle.ID)
	if err != nil {
		return err
	}
	if hasDeps {
		return shared.NewDependentChildrenError("vehicle", "jobcards, invoices or estimates")
	}
	if err := s.vehicleRepo.Delete(ctx, vehicle.ID); err != nil {
		return err
	}
	if vehicle.ImageHandle != "" {
		if err := s.blobs.Delete(ctx, vehicle.ImageHandle); err != nil {
			s.logger.Warn("failed to delete vehicle image",
				zap.String("handle", vehicle.ImageHandle), zap.Error(err))
		}
	}
	return nil
}

func (s *VehicleService) checkRegistrationUnique(ctx context.Context, garageID uuid.UUID, registrationNo string, selfID uuid.UUID) error {
	registrationNo = strings.ToUpper(strings.TrimSpace(registrationNo))
	if registrationNo == "" {
		return nil
	}
	existing, err := s.vehicleRepo.FindByRegistrationNo(ctx, garageID, registrationNo)
	if err != nil || existing == nil {
		return nil
	}
	if existing.ID == selfID {
		return nil
	}
	return shared.NewConflictError("a vehicle with this registration number already exists")
}
