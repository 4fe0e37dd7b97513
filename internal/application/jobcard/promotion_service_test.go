package jobcard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// MockSubscriberDirectory is a mock implementation of SubscriberDirectory
type MockSubscriberDirectory struct {
	mock.Mock
}

func (m *MockSubscriberDirectory) Profile(ctx context.Context, subscriberID, vehicleID, addressID uuid.UUID) (SubscriberProfile, error) {
	args := m.Called(ctx, subscriberID, vehicleID, addressID)
	return args.Get(0).(SubscriberProfile), args.Error(1)
}

func testProfile() SubscriberProfile {
	return SubscriberProfile{
		Name:         "Ravi Kumar",
		Phone:        "9876543210",
		Address:      "12 MG Road",
		City:         "Bengaluru",
		Pincode:      "560001",
		VehicleType:  registry.TwoWheeler,
		VehicleBrand: "Royal Enfield",
		VehicleModel: "Classic 350",
	}
}

// createBookingAtMechanicAssigned walks the status graph up to
// mechanic_assigned, carrying the staff reference in the remark
func createBookingAtMechanicAssigned(t *testing.T, garageID uuid.UUID, mechanicRef string) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(garageID, booking.BookingFields{
		SubscriberID:        uuid.New(),
		SubscriberVehicleID: uuid.New(),
		SubscriberAddressID: uuid.New(),
		BookingDate:         time.Now().UTC().Add(24 * time.Hour),
		BookingSlot:         "10:00-11:00",
		BookingAmount:       testMoney(199),
	})
	require.NoError(t, err)
	for _, step := range []struct {
		status booking.Status
		remark string
	}{
		{booking.StatusPickupAssigned, "7"},
		{booking.StatusBikePickedUp, ""},
		{booking.StatusBikeReachedGarage, ""},
		{booking.StatusMechanicAssigned, mechanicRef},
	} {
		_, err = b.Advance(step.status, step.remark)
		require.NoError(t, err)
	}
	b.ClearDomainEvents()
	return b
}

func TestPromotionService_Promote(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()
	actorID := uuid.New()

	t.Run("materialises customer, vehicle and jobcard in one pass", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		b := createBookingAtMechanicAssigned(t, garageID, "42")
		mechanic := createTestMechanic(garageID, 42)
		phone := valueobject.MustNewPhone("9876543210")

		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
		directory.On("Profile", ctx, b.SubscriberID, b.SubscriberVehicleID, b.SubscriberAddressID).
			Return(testProfile(), nil).Once()

		m.customers.On("FindByPhone", ctx, garageID, phone).Return(nil, shared.ErrNotFound).Once()
		var savedCustomer *registry.Customer
		m.customers.On("Save", ctx, mock.AnythingOfType("*registry.Customer")).Run(func(args mock.Arguments) {
			savedCustomer = args.Get(1).(*registry.Customer)
		}).Return(nil).Once()

		m.brands.On("FindByName", ctx, garageID, registry.TwoWheeler, "royalenfield").Return(nil, shared.ErrNotFound).Once()
		var savedBrand *registry.VehicleBrand
		m.brands.On("Save", ctx, mock.AnythingOfType("*registry.VehicleBrand")).Run(func(args mock.Arguments) {
			savedBrand = args.Get(1).(*registry.VehicleBrand)
		}).Return(nil).Once()

		m.models.On("FindByName", ctx, garageID, mock.Anything, registry.TwoWheeler, "classic350").Return(nil, shared.ErrNotFound).Once()
		var savedModel *registry.VehicleModel
		m.models.On("Save", ctx, mock.AnythingOfType("*registry.VehicleModel")).Run(func(args mock.Arguments) {
			savedModel = args.Get(1).(*registry.VehicleModel)
		}).Return(nil).Once()

		m.vehicles.On("FindByCustomerAndModel", ctx, garageID, mock.Anything, "Classic 350").Return(nil, shared.ErrNotFound).Once()
		var savedVehicle *registry.Vehicle
		m.vehicles.On("Save", ctx, mock.AnythingOfType("*registry.Vehicle")).Run(func(args mock.Arguments) {
			savedVehicle = args.Get(1).(*registry.Vehicle)
		}).Return(nil).Once()

		m.jobcards.On("MaxNumber", ctx, garageID).Return("JOB-41", nil).Once()
		m.staff.On("FindByStaffNo", ctx, garageID, 42).Return(mechanic, nil).Once()
		m.jobcards.On("Save", ctx, mock.AnythingOfType("*jobcard.Jobcard")).Return(nil).Once()
		m.bookings.On("Save", ctx, b).Return(nil).Once()

		jc, err := service.Promote(ctx, garageID, b.ID, actorID)

		require.NoError(t, err)
		assert.Equal(t, "JOB-42", jc.Number)
		assert.Equal(t, jobcard.ModeOnline, jc.Mode)
		require.NotNil(t, jc.BookingID)
		assert.Equal(t, b.ID, *jc.BookingID)
		require.NotNil(t, jc.CreatedBy)
		assert.Equal(t, actorID, *jc.CreatedBy)

		require.NotNil(t, savedCustomer)
		assert.Equal(t, "Ravi Kumar", savedCustomer.Name)
		assert.Equal(t, "+919876543210", savedCustomer.Phone.E164())
		assert.Equal(t, "12 MG Road, Bengaluru", savedCustomer.Address)
		assert.Equal(t, savedCustomer.ID, jc.CustomerID)

		require.NotNil(t, savedBrand)
		assert.Equal(t, "royalenfield", savedBrand.Name)
		assert.Equal(t, "Royal Enfield", savedBrand.DisplayName)
		require.NotNil(t, savedModel)
		assert.Equal(t, "classic350", savedModel.Name)
		assert.Equal(t, savedBrand.ID, savedModel.BrandID)

		require.NotNil(t, savedVehicle)
		assert.Equal(t, "Classic 350", savedVehicle.Model)
		assert.Equal(t, "Royal Enfield", savedVehicle.Make)
		require.NotNil(t, jc.VehicleID)
		assert.Equal(t, savedVehicle.ID, *jc.VehicleID)

		require.Len(t, jc.Mechanics, 1)
		assert.Equal(t, mechanic.ID, jc.Mechanics[0].StaffID)

		assert.Equal(t, booking.StatusJobCardCreated, b.CurrentStatus())
		entry := b.FindTimelineEntry(booking.StatusJobCardCreated)
		require.NotNil(t, entry)
		assert.Equal(t, "JOB-42", entry.Remark)
		require.NotNil(t, b.JobcardID)
		assert.Equal(t, jc.ID, *b.JobcardID)

		assert.Len(t, publisher.GetEventsByType(jobcard.EventTypeJobcardCreated), 1)
	})

	t.Run("re-promoting returns the existing jobcard", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())

		b := createBookingAtMechanicAssigned(t, garageID, "42")
		existing := createOpenJobcard(t, garageID, "JOB-42", &b.ID)
		b.LinkJobcard(existing.ID, uuid.New(), uuid.New())

		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
		m.jobcards.On("FindByID", ctx, existing.ID).Return(existing, nil).Once()

		jc, err := service.Promote(ctx, garageID, b.ID, actorID)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, jc.ID)
		directory.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("merges into an existing customer by phone", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())

		b := createBookingAtMechanicAssigned(t, garageID, "42")
		phone := valueobject.MustNewPhone("9876543210")
		existing, err := registry.NewCustomer(garageID, "R. Kumar", phone, registry.CustomerFields{})
		require.NoError(t, err)

		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
		directory.On("Profile", ctx, b.SubscriberID, b.SubscriberVehicleID, b.SubscriberAddressID).
			Return(testProfile(), nil).Once()
		m.customers.On("FindByPhone", ctx, garageID, phone).Return(existing, nil).Once()
		m.customers.On("Save", ctx, existing).Return(nil).Once()

		brand, err := registry.NewVehicleBrand(garageID, registry.TwoWheeler, "Royal Enfield")
		require.NoError(t, err)
		model, err := registry.NewVehicleModel(garageID, brand.ID, registry.TwoWheeler, "Classic 350")
		require.NoError(t, err)
		m.brands.On("FindByName", ctx, garageID, registry.TwoWheeler, "royalenfield").Return(brand, nil).Once()
		m.models.On("FindByName", ctx, garageID, brand.ID, registry.TwoWheeler, "classic350").Return(model, nil).Once()

		vehicle, err := registry.NewVehicle(garageID, existing.ID, registry.VehicleFields{
			VehicleType: registry.TwoWheeler,
			Model:       "Classic 350",
		})
		require.NoError(t, err)
		m.vehicles.On("FindByCustomerAndModel", ctx, garageID, existing.ID, "Classic 350").Return(vehicle, nil).Once()

		m.jobcards.On("MaxNumber", ctx, garageID).Return("", nil).Once()
		m.staff.On("FindByStaffNo", ctx, garageID, 42).Return(nil, shared.ErrNotFound).Once()
		m.jobcards.On("Save", ctx, mock.AnythingOfType("*jobcard.Jobcard")).Return(nil).Once()
		m.bookings.On("Save", ctx, b).Return(nil).Once()

		jc, err := service.Promote(ctx, garageID, b.ID, actorID)

		require.NoError(t, err)
		assert.Equal(t, "JOB-101", jc.Number)
		assert.Equal(t, existing.ID, jc.CustomerID)
		assert.Equal(t, "Ravi Kumar", existing.Name)
		// an unresolvable mechanic reference never blocks the promotion
		assert.Empty(t, jc.Mechanics)
		m.vehicles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.brands.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("resolves a uuid mechanic reference", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())

		mechanic := createTestMechanic(garageID, 3)
		b := createBookingAtMechanicAssigned(t, garageID, mechanic.ID.String())
		phone := valueobject.MustNewPhone("9876543210")
		customer, err := registry.NewCustomer(garageID, "Ravi Kumar", phone, registry.CustomerFields{})
		require.NoError(t, err)
		vehicle, err := registry.NewVehicle(garageID, customer.ID, registry.VehicleFields{Model: "Classic 350"})
		require.NoError(t, err)
		brand, err := registry.NewVehicleBrand(garageID, registry.TwoWheeler, "Royal Enfield")
		require.NoError(t, err)
		model, err := registry.NewVehicleModel(garageID, brand.ID, registry.TwoWheeler, "Classic 350")
		require.NoError(t, err)

		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
		directory.On("Profile", ctx, b.SubscriberID, b.SubscriberVehicleID, b.SubscriberAddressID).
			Return(testProfile(), nil).Once()
		m.customers.On("FindByPhone", ctx, garageID, phone).Return(customer, nil).Once()
		m.customers.On("Save", ctx, customer).Return(nil).Once()
		m.brands.On("FindByName", ctx, garageID, registry.TwoWheeler, "royalenfield").Return(brand, nil).Once()
		m.models.On("FindByName", ctx, garageID, brand.ID, registry.TwoWheeler, "classic350").Return(model, nil).Once()
		m.vehicles.On("FindByCustomerAndModel", ctx, garageID, customer.ID, "Classic 350").Return(vehicle, nil).Once()
		m.jobcards.On("MaxNumber", ctx, garageID).Return("JOB-2", nil).Once()
		m.staff.On("FindByIDForGarage", ctx, garageID, mechanic.ID).Return(mechanic, nil).Once()
		m.jobcards.On("Save", ctx, mock.AnythingOfType("*jobcard.Jobcard")).Return(nil).Once()
		m.bookings.On("Save", ctx, b).Return(nil).Once()

		jc, err := service.Promote(ctx, garageID, b.ID, actorID)

		require.NoError(t, err)
		require.Len(t, jc.Mechanics, 1)
		assert.Equal(t, mechanic.ID, jc.Mechanics[0].StaffID)
		m.staff.AssertNotCalled(t, "FindByStaffNo", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("directory failure aborts the promotion", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())

		b := createBookingAtMechanicAssigned(t, garageID, "42")
		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
		directory.On("Profile", ctx, b.SubscriberID, b.SubscriberVehicleID, b.SubscriberAddressID).
			Return(SubscriberProfile{}, errors.New("connection refused")).Once()

		_, err := service.Promote(ctx, garageID, b.ID, actorID)

		assertDomainCode(t, err, "EXTERNAL_DEPENDENCY_FAILURE")
		m.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.jobcards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid subscriber phone aborts the promotion", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())

		b := createBookingAtMechanicAssigned(t, garageID, "42")
		profile := testProfile()
		profile.Phone = "not-a-number"

		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
		directory.On("Profile", ctx, b.SubscriberID, b.SubscriberVehicleID, b.SubscriberAddressID).
			Return(profile, nil).Once()

		_, err := service.Promote(ctx, garageID, b.ID, actorID)

		assertDomainCode(t, err, "VALIDATION_ERROR")
		m.jobcards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("booking of another garage is invisible", func(t *testing.T) {
		m := newWorkflowMocks()
		directory := new(MockSubscriberDirectory)
		service := NewPromotionService(m.scope(), directory, zap.NewNop())

		b := createBookingAtMechanicAssigned(t, uuid.New(), "42")
		m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()

		_, err := service.Promote(ctx, garageID, b.ID, actorID)

		assertDomainCode(t, err, "NOT_FOUND")
	})
}
