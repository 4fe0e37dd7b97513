package jobcard

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// SubscriberProfile is the snapshot of subscriber, vehicle and address data a
// promotion materialises from. The subscriber app owns these records; the
// directory hands the core a read-only copy.
type SubscriberProfile struct {
	Name    string
	Phone   string
	Address string
	City    string
	Pincode string

	VehicleType  registry.VehicleType
	VehicleBrand string
	VehicleModel string
	VehicleCC    string
}

// SubscriberDirectory resolves a booking's subscriber references against the
// subscriber app. Implemented by the infrastructure layer.
type SubscriberDirectory interface {
	Profile(ctx context.Context, subscriberID, vehicleID, addressID uuid.UUID) (SubscriberProfile, error)
}

// PromotionService materialises a customer, a vehicle and a jobcard from a
// booking in one transaction. Promoting an already promoted booking is
// idempotent and returns the existing jobcard.
type PromotionService struct {
	txScope   TransactionScope
	directory SubscriberDirectory
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(txScope TransactionScope, directory SubscriberDirectory, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		txScope:   txScope,
		directory: directory,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PromotionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Promote turns a booking into a jobcard. Every step runs in one
// transaction; a failing step aborts the whole promotion.
func (s *PromotionService) Promote(ctx context.Context, garageID, bookingID, actorID uuid.UUID) (*jobcard.Jobcard, error) {
	var jc *jobcard.Jobcard
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BookingRepo().FindByIDForUpdate(ctx, bookingID)
		if err != nil || b.GarageID != garageID {
			return shared.NewNotFoundError("booking")
		}
		if b.IsPromoted() {
			jc, err = repos.JobcardRepo().FindByID(ctx, *b.JobcardID)
			return err
		}

		profile, err := s.directory.Profile(ctx, b.SubscriberID, b.SubscriberVehicleID, b.SubscriberAddressID)
		if err != nil {
			return shared.NewExternalDependencyError("subscriber directory", err)
		}

		customer, err := s.upsertCustomer(ctx, repos, garageID, profile)
		if err != nil {
			return err
		}
		vehicle, err := s.resolveVehicle(ctx, repos, garageID, customer.ID, profile)
		if err != nil {
			return err
		}

		currentMax, err := repos.JobcardRepo().MaxNumber(ctx, garageID)
		if err != nil {
			return err
		}
		number, err := jobcard.NextNumber(currentMax)
		if err != nil {
			return err
		}

		jc, err = jobcard.NewJobcard(garageID, jobcard.JobcardFields{
			BookingID:  &b.ID,
			CustomerID: customer.ID,
			VehicleID:  &vehicle.ID,
			Number:     number,
		})
		if err != nil {
			return err
		}
		jc.SetCreatedBy(actorID)

		if mechanic := s.resolveMechanic(ctx, repos, garageID, b); mechanic != nil {
			if err := jc.AssignMechanic(mechanic.ID); err != nil {
				return err
			}
		}

		if err := repos.JobcardRepo().Save(ctx, jc); err != nil {
			return err
		}

		b.LinkJobcard(jc.ID, customer.ID, vehicle.ID)
		if _, err := b.Advance(booking.StatusJobCardCreated, jc.Number); err != nil {
			return err
		}
		return repos.BookingRepo().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, jc)
	s.logger.Info("booking promoted",
		zap.String("garage_id", garageID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("jobcard_number", jc.Number))
	return jc, nil
}

func (s *PromotionService) upsertCustomer(ctx context.Context, repos TransactionalRepositories, garageID uuid.UUID, profile SubscriberProfile) (*registry.Customer, error) {
	phone, err := valueobject.NewPhone(profile.Phone)
	if err != nil {
		return nil, shared.NewValidationError("phone", "subscriber phone is not a valid number")
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = phone.E164()
	}
	address := strings.TrimSpace(profile.Address)
	if profile.City != "" {
		address = address + ", " + profile.City
	}
	fields := registry.CustomerFields{
		Name:    name,
		Address: address,
		Pincode: profile.Pincode,
	}

	if existing, err := repos.CustomerRepo().FindByPhone(ctx, garageID, phone); err == nil && existing != nil {
		existing.Merge(fields)
		if err := repos.CustomerRepo().Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	customer, err := registry.NewCustomer(garageID, name, phone, fields)
	if err != nil {
		return nil, err
	}
	if err := repos.CustomerRepo().Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *PromotionService) resolveVehicle(ctx context.Context, repos TransactionalRepositories, garageID, customerID uuid.UUID, profile SubscriberProfile) (*registry.Vehicle, error) {
	vehicleType := profile.VehicleType
	if !vehicleType.IsValid() {
		vehicleType = registry.TwoWheeler
	}

	brand, err := s.ensureBrand(ctx, repos, garageID, vehicleType, profile.VehicleBrand)
	if err != nil {
		return nil, err
	}
	model, err := s.ensureModel(ctx, repos, garageID, brand.ID, vehicleType, profile.VehicleModel)
	if err != nil {
		return nil, err
	}

	if existing, err := repos.VehicleRepo().FindByCustomerAndModel(ctx, garageID, customerID, model.DisplayName); err == nil && existing != nil {
		return existing, nil
	}
	vehicle, err := registry.NewVehicle(garageID, customerID, registry.VehicleFields{
		VehicleType: vehicleType,
		BrandID:     &brand.ID,
		ModelID:     &model.ID,
		Model:       model.DisplayName,
		Make:        brand.DisplayName,
	})
	if err != nil {
		return nil, err
	}
	if err := repos.VehicleRepo().Save(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *PromotionService) ensureBrand(ctx context.Context, repos TransactionalRepositories, garageID uuid.UUID, vehicleType registry.VehicleType, displayName string) (*registry.VehicleBrand, error) {
	normalized := registry.NormalizeName(displayName)
	if existing, err := repos.BrandRepo().FindByName(ctx, garageID, vehicleType, normalized); err == nil && existing != nil {
		return existing, nil
	}
	brand, err := registry.NewVehicleBrand(garageID, vehicleType, displayName)
	if err != nil {
		return nil, err
	}
	if err := repos.BrandRepo().Save(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *PromotionService) ensureModel(ctx context.Context, repos TransactionalRepositories, garageID, brandID uuid.UUID, vehicleType registry.VehicleType, displayName string) (*registry.VehicleModel, error) {
	normalized := registry.NormalizeName(displayName)
	if existing, err := repos.ModelRepo().FindByName(ctx, garageID, brandID, vehicleType, normalized); err == nil && existing != nil {
		return existing, nil
	}
	model, err := registry.NewVehicleModel(garageID, brandID, vehicleType, displayName)
	if err != nil {
		return nil, err
	}
	if err := repos.ModelRepo().Save(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

// resolveMechanic parses the mechanic_assigned remark as a staff reference.
// A missing or unresolvable reference never blocks the promotion.
func (s *PromotionService) resolveMechanic(ctx context.Context, repos TransactionalRepositories, garageID uuid.UUID, b *booking.Booking) *identity.Staff {
	ref, ok := b.MechanicStaffRef()
	if !ok {
		return nil
	}
	if staffID, err := uuid.Parse(ref); err == nil {
		if staff, err := repos.StaffRepo().FindByIDForGarage(ctx, garageID, staffID); err == nil {
			return staff
		}
		return nil
	}
	if staffNo, err := strconv.Atoi(ref); err == nil {
		if staff, err := repos.StaffRepo().FindByStaffNo(ctx, garageID, staffNo); err == nil {
			return staff
		}
	}
	return nil
}

func (s *PromotionService) publishEvents(ctx context.Context, jc *jobcard.Jobcard) {
	if s.publisher == nil || jc == nil {
		return
	}
	events := jc.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish promotion events", zap.Error(err))
	}
	jc.ClearDomainEvents()
}
