package jobcard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/booking"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]shared.DomainEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEvents() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, len(m.events))
	copy(result, m.events)
	return result
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make([]shared.DomainEvent, 0)
}

// MockJobcardRepository is a mock implementation of jobcard.JobcardRepository
type MockJobcardRepository struct {
	mock.Mock
}

func (m *MockJobcardRepository) FindByID(ctx context.Context, id uuid.UUID) (*jobcard.Jobcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*jobcard.Jobcard, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*jobcard.Jobcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*jobcard.Jobcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*jobcard.Jobcard, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindByNumber(ctx context.Context, garageID uuid.UUID, number string) (*jobcard.Jobcard, error) {
	args := m.Called(ctx, garageID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) MaxNumber(ctx context.Context, garageID uuid.UUID) (string, error) {
	args := m.Called(ctx, garageID)
	return args.String(0), args.Error(1)
}

func (m *MockJobcardRepository) FindByCustomer(ctx context.Context, garageID, customerID uuid.UUID, filter shared.Filter) ([]jobcard.Jobcard, error) {
	args := m.Called(ctx, garageID, customerID, filter)
	return args.Get(0).([]jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]jobcard.Jobcard, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) Save(ctx context.Context, j *jobcard.Jobcard) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobcardRepository) DeletePartLine(ctx context.Context, jobcardID, lineID uuid.UUID) error {
	args := m.Called(ctx, jobcardID, lineID)
	return args.Error(0)
}

func (m *MockJobcardRepository) DeleteServiceLine(ctx context.Context, jobcardID, lineID uuid.UUID) error {
	args := m.Called(ctx, jobcardID, lineID)
	return args.Error(0)
}

func (m *MockJobcardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobcardRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPartRepository is a mock implementation of catalog.PartRepository
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*catalog.Part, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindByIDForUpdate(ctx context.Context, garageID, id uuid.UUID) (*catalog.Part, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Part, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindByPartNumber(ctx context.Context, garageID uuid.UUID, partNumber string) (*catalog.Part, error) {
	args := m.Called(ctx, garageID, partNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindBelowMinimum(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Part, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]catalog.Part), args.Error(1)
}

func (m *MockPartRepository) Save(ctx context.Context, part *catalog.Part) error {
	args := m.Called(ctx, part)
	return args.Error(0)
}

func (m *MockPartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockServiceItemRepository is a mock implementation of catalog.ServiceItemRepository
type MockServiceItemRepository struct {
	mock.Mock
}

func (m *MockServiceItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceItem), args.Error(1)
}

func (m *MockServiceItemRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*catalog.ServiceItem, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceItem), args.Error(1)
}

func (m *MockServiceItemRepository) FindByName(ctx context.Context, garageID uuid.UUID, name string) (*catalog.ServiceItem, error) {
	args := m.Called(ctx, garageID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceItem), args.Error(1)
}

func (m *MockServiceItemRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.ServiceItem, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]catalog.ServiceItem), args.Error(1)
}

func (m *MockServiceItemRepository) Save(ctx context.Context, service *catalog.ServiceItem) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOutwardRepository is a mock implementation of inventory.StockOutwardRepository
type MockOutwardRepository struct {
	mock.Mock
}

func (m *MockOutwardRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockOutward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockOutward), args.Error(1)
}

func (m *MockOutwardRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockOutward), args.Error(1)
}

func (m *MockOutwardRepository) FindByProduct(ctx context.Context, garageID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, productID, filter)
	return args.Get(0).([]inventory.StockOutward), args.Error(1)
}

func (m *MockOutwardRepository) FindByReference(ctx context.Context, garageID uuid.UUID, purpose inventory.UsagePurpose, reference string) ([]inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, purpose, reference)
	return args.Get(0).([]inventory.StockOutward), args.Error(1)
}

func (m *MockOutwardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]inventory.StockOutward), args.Error(1)
}

func (m *MockOutwardRepository) Save(ctx context.Context, movement *inventory.StockOutward) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockOutwardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookingRepository is a mock implementation of booking.BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByIDWithTimeline(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindBySlot(ctx context.Context, subscriberID, vehicleID, garageID uuid.UUID, date time.Time, slot string) (*booking.Booking, error) {
	args := m.Called(ctx, subscriberID, vehicleID, garageID, date, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindBySubscriber(ctx context.Context, subscriberID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	args := m.Called(ctx, subscriberID, filter)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of registry.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*registry.Customer, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*registry.Customer, error) {
	args := m.Called(ctx, garageID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhoneWithVehicles(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*registry.Customer, error) {
	args := m.Called(ctx, garageID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]registry.Customer, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]registry.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *registry.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockVehicleRepository is a mock implementation of registry.VehicleRepository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*registry.Vehicle, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]registry.Vehicle, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]registry.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByCustomerAndModel(ctx context.Context, garageID, customerID uuid.UUID, model string) (*registry.Vehicle, error) {
	args := m.Called(ctx, garageID, customerID, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByRegistrationNo(ctx context.Context, garageID uuid.UUID, registrationNo string) (*registry.Vehicle, error) {
	args := m.Called(ctx, garageID, registrationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]registry.Vehicle, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]registry.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Save(ctx context.Context, vehicle *registry.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockVehicleBrandRepository is a mock implementation of registry.VehicleBrandRepository
type MockVehicleBrandRepository struct {
	mock.Mock
}

func (m *MockVehicleBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.VehicleBrand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.VehicleBrand), args.Error(1)
}

func (m *MockVehicleBrandRepository) FindByName(ctx context.Context, garageID uuid.UUID, vehicleType registry.VehicleType, name string) (*registry.VehicleBrand, error) {
	args := m.Called(ctx, garageID, vehicleType, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.VehicleBrand), args.Error(1)
}

func (m *MockVehicleBrandRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, vehicleType registry.VehicleType) ([]registry.VehicleBrand, error) {
	args := m.Called(ctx, garageID, vehicleType)
	return args.Get(0).([]registry.VehicleBrand), args.Error(1)
}

func (m *MockVehicleBrandRepository) Save(ctx context.Context, brand *registry.VehicleBrand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

// MockVehicleModelRepository is a mock implementation of registry.VehicleModelRepository
type MockVehicleModelRepository struct {
	mock.Mock
}

func (m *MockVehicleModelRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.VehicleModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.VehicleModel), args.Error(1)
}

func (m *MockVehicleModelRepository) FindByName(ctx context.Context, garageID, brandID uuid.UUID, vehicleType registry.VehicleType, name string) (*registry.VehicleModel, error) {
	args := m.Called(ctx, garageID, brandID, vehicleType, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.VehicleModel), args.Error(1)
}

func (m *MockVehicleModelRepository) FindByBrand(ctx context.Context, garageID, brandID uuid.UUID) ([]registry.VehicleModel, error) {
	args := m.Called(ctx, garageID, brandID)
	return args.Get(0).([]registry.VehicleModel), args.Error(1)
}

func (m *MockVehicleModelRepository) Save(ctx context.Context, model *registry.VehicleModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

// MockStaffRepository is a mock implementation of identity.StaffRepository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*identity.Staff, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindByPhone(ctx context.Context, garageID uuid.UUID, phone valueobject.Phone) (*identity.Staff, error) {
	args := m.Called(ctx, garageID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindByStaffNo(ctx context.Context, garageID uuid.UUID, staffNo int) (*identity.Staff, error) {
	args := m.Called(ctx, garageID, staffNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) MaxStaffNo(ctx context.Context, garageID uuid.UUID) (int, error) {
	args := m.Called(ctx, garageID)
	return args.Int(0), args.Error(1)
}

func (m *MockStaffRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	args := m.Called(ctx, garageID, filter)
	return args.Get(0).([]identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) Save(ctx context.Context, s *identity.Staff) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBlobStore is a mock implementation of BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

// workflowMocks bundles the repositories the jobcard workflow touches
type workflowMocks struct {
	jobcards  *MockJobcardRepository
	parts     *MockPartRepository
	services  *MockServiceItemRepository
	outwards  *MockOutwardRepository
	bookings  *MockBookingRepository
	customers *MockCustomerRepository
	vehicles  *MockVehicleRepository
	brands    *MockVehicleBrandRepository
	models    *MockVehicleModelRepository
	staff     *MockStaffRepository
}

func newWorkflowMocks() *workflowMocks {
	return &workflowMocks{
		jobcards:  new(MockJobcardRepository),
		parts:     new(MockPartRepository),
		services:  new(MockServiceItemRepository),
		outwards:  new(MockOutwardRepository),
		bookings:  new(MockBookingRepository),
		customers: new(MockCustomerRepository),
		vehicles:  new(MockVehicleRepository),
		brands:    new(MockVehicleBrandRepository),
		models:    new(MockVehicleModelRepository),
		staff:     new(MockStaffRepository),
	}
}

func (m *workflowMocks) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		m.jobcards, m.parts, m.services, m.outwards, m.bookings,
		m.customers, m.vehicles, m.brands, m.models, m.staff,
	)
}

// Test helpers

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func testMoney(amount float64) valueobject.Money {
	return valueobject.NewMoneyINRFromFloat(amount)
}

func testPercent(value int64) valueobject.Percent {
	return valueobject.MustNewPercent(decimal.NewFromInt(value))
}

func createTestCustomer(garageID uuid.UUID) *registry.Customer {
	customer, _ := registry.NewCustomer(garageID, "Anand Rao", valueobject.MustNewPhone("9876543210"), registry.CustomerFields{})
	return customer
}

func createTestPart(garageID uuid.UUID, stock int) *catalog.Part {
	part, _ := catalog.NewPart(garageID, catalog.PartFields{
		Name:          "Brake Pad",
		PartNumber:    "BP-100",
		CategoryID:    uuid.New(),
		Price:         testMoney(250),
		PurchasePrice: testMoney(150),
	})
	if stock > 0 {
		_ = part.RecordInward(stock)
	}
	return part
}

func createTestMechanic(garageID uuid.UUID, staffNo int) *identity.Staff {
	staff, _ := identity.NewStaff(garageID, staffNo, "Suresh", valueobject.MustNewPhone("9876500001"), identity.RoleMechanic, "")
	return staff
}

func createOpenJobcard(t *testing.T, garageID uuid.UUID, number string, bookingID *uuid.UUID) *jobcard.Jobcard {
	t.Helper()
	jc, err := jobcard.NewJobcard(garageID, jobcard.JobcardFields{
		BookingID:  bookingID,
		CustomerID: uuid.New(),
		Number:     number,
	})
	require.NoError(t, err)
	jc.ClearDomainEvents()
	return jc
}

func createBookedBooking(t *testing.T, garageID uuid.UUID, jobcardNumber string) *booking.Booking {
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
	_, err = b.Advance(booking.StatusJobCardCreated, jobcardNumber)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

// Tests

func TestJobcardService_CreateJobcard(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	t.Run("generates the next number inside the transaction", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		customer := createTestCustomer(garageID)
		m.customers.On("FindByIDForGarage", ctx, garageID, customer.ID).Return(customer, nil).Once()
		m.jobcards.On("MaxNumber", ctx, garageID).Return("JOB-11", nil).Once()
		m.jobcards.On("Save", ctx, mock.AnythingOfType("*jobcard.Jobcard")).Return(nil).Once()

		jc, err := service.CreateJobcard(ctx, garageID, jobcard.JobcardFields{CustomerID: customer.ID}, nil)

		require.NoError(t, err)
		assert.Equal(t, "JOB-12", jc.Number)
		assert.Equal(t, jobcard.ModeOffline, jc.Mode)
		assert.Equal(t, jobcard.StatusOpen, jc.Status)
		assert.Len(t, publisher.GetEventsByType(jobcard.EventTypeJobcardCreated), 1)
		m.jobcards.AssertExpectations(t)
	})

	t.Run("rejects a number already in use", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		customer := createTestCustomer(garageID)
		existing := createOpenJobcard(t, garageID, "JOB-5", nil)
		m.customers.On("FindByIDForGarage", ctx, garageID, customer.ID).Return(customer, nil).Once()
		m.jobcards.On("FindByNumber", ctx, garageID, "JOB-5").Return(existing, nil).Once()

		_, err := service.CreateJobcard(ctx, garageID, jobcard.JobcardFields{CustomerID: customer.ID, Number: "JOB-5"}, nil)

		assertDomainCode(t, err, "CONFLICT")
		m.jobcards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		customerID := uuid.New()
		m.customers.On("FindByIDForGarage", ctx, garageID, customerID).Return(nil, shared.ErrNotFound).Once()

		_, err := service.CreateJobcard(ctx, garageID, jobcard.JobcardFields{CustomerID: customerID}, nil)

		assertDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("rejects a non-mechanic assignment", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		customer := createTestCustomer(garageID)
		clerk, err := identity.NewStaff(garageID, 9, "Meena", valueobject.MustNewPhone("9876500002"), identity.RoleFrontDesk, "")
		require.NoError(t, err)

		m.customers.On("FindByIDForGarage", ctx, garageID, customer.ID).Return(customer, nil).Once()
		m.jobcards.On("MaxNumber", ctx, garageID).Return("", nil).Once()
		m.staff.On("FindByIDForGarage", ctx, garageID, clerk.ID).Return(clerk, nil).Once()

		_, err = service.CreateJobcard(ctx, garageID, jobcard.JobcardFields{CustomerID: customer.ID}, []uuid.UUID{clerk.ID})

		assertDomainCode(t, err, "VALIDATION_ERROR")
		m.jobcards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestJobcardService_AppendPartLine(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	t.Run("internal line inherits name and part number from the master", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		jc := createOpenJobcard(t, garageID, "JOB-1", nil)
		part := createTestPart(garageID, 10)

		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
		m.parts.On("FindByIDForGarage", ctx, garageID, part.ID).Return(part, nil).Once()
		m.jobcards.On("Save", ctx, jc).Return(nil).Once()

		line, err := service.AppendPartLine(ctx, garageID, jc.ID, jobcard.PartLineFields{
			Source:    jobcard.SourceInternal,
			ProductID: &part.ID,
			Quantity:  2,
			Value:     testMoney(250),
		})

		require.NoError(t, err)
		assert.Equal(t, "Brake Pad", line.Name)
		assert.Equal(t, "BP-100", line.PartNumber)
		assert.Len(t, jc.Parts, 1)
	})

	t.Run("finalized jobcard rejects new lines", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		jc := createOpenJobcard(t, garageID, "JOB-1", nil)
		require.NoError(t, jc.Finalize())

		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()

		_, err := service.AppendPartLine(ctx, garageID, jc.ID, jobcard.PartLineFields{
			Source:   jobcard.SourceExternal,
			Name:     "Headlight Bulb",
			Quantity: 1,
			Value:    testMoney(120),
		})

		assertDomainCode(t, err, "ILLEGAL_TRANSITION")
		m.jobcards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("jobcard of another garage is invisible", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		jc := createOpenJobcard(t, uuid.New(), "JOB-1", nil)
		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()

		_, err := service.AppendPartLine(ctx, garageID, jc.ID, jobcard.PartLineFields{
			Source:   jobcard.SourceExternal,
			Name:     "Headlight Bulb",
			Quantity: 1,
			Value:    testMoney(120),
		})

		assertDomainCode(t, err, "NOT_FOUND")
	})
}

func TestJobcardService_AppendServiceLine(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	t.Run("external name is promoted into the service catalogue", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		jc := createOpenJobcard(t, garageID, "JOB-1", nil)

		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
		m.services.On("FindByName", ctx, garageID, "Chain Cleaning").Return(nil, shared.ErrNotFound).Once()

		var promoted *catalog.ServiceItem
		m.services.On("Save", ctx, mock.AnythingOfType("*catalog.ServiceItem")).Run(func(args mock.Arguments) {
			promoted = args.Get(1).(*catalog.ServiceItem)
		}).Return(nil).Once()
		m.jobcards.On("Save", ctx, jc).Return(nil).Once()

		line, err := service.AppendServiceLine(ctx, garageID, jc.ID, jobcard.ServiceLineFields{
			Source:   jobcard.SourceExternal,
			Name:     "Chain Cleaning",
			Quantity: 1,
			Value:    testMoney(300),
		})

		require.NoError(t, err)
		assert.Equal(t, "Chain Cleaning", line.Name)
		require.NotNil(t, promoted)
		assert.Equal(t, "Chain Cleaning", promoted.Name)
		m.services.AssertExpectations(t)
	})

	t.Run("existing catalogue name is not duplicated", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		jc := createOpenJobcard(t, garageID, "JOB-1", nil)
		item, err := catalog.NewServiceItem(garageID, "Chain Cleaning", testMoney(300), testPercent(0), testPercent(0))
		require.NoError(t, err)

		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
		m.services.On("FindByName", ctx, garageID, "Chain Cleaning").Return(item, nil).Once()
		m.jobcards.On("Save", ctx, jc).Return(nil).Once()

		_, err = service.AppendServiceLine(ctx, garageID, jc.ID, jobcard.ServiceLineFields{
			Source:   jobcard.SourceExternal,
			Name:     "Chain Cleaning",
			Quantity: 1,
			Value:    testMoney(300),
		})

		require.NoError(t, err)
		m.services.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestJobcardService_RemoveLine(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

	jc := createOpenJobcard(t, garageID, "JOB-1", nil)
	line, err := jc.AddPart(jobcard.PartLineFields{
		Source:   jobcard.SourceExternal,
		Name:     "Mirror",
		Quantity: 1,
		Value:    testMoney(80),
	})
	require.NoError(t, err)
	serviceLine, err := jc.AddService(jobcard.ServiceLineFields{
		Source:   jobcard.SourceExternal,
		Name:     "Headlight Alignment",
		Quantity: 1,
		Value:    testMoney(120),
	})
	require.NoError(t, err)

	t.Run("removes a parts line and deletes its row", func(t *testing.T) {
		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
		m.jobcards.On("DeletePartLine", ctx, jc.ID, line.ID).Return(nil).Once()
		m.jobcards.On("Save", ctx, jc).Return(nil).Once()

		err := service.RemoveLine(ctx, garageID, jc.ID, line.ID)

		require.NoError(t, err)
		assert.Empty(t, jc.Parts)
		m.jobcards.AssertCalled(t, "DeletePartLine", ctx, jc.ID, line.ID)
	})

	t.Run("removes a services line and deletes its row", func(t *testing.T) {
		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
		m.jobcards.On("DeleteServiceLine", ctx, jc.ID, serviceLine.ID).Return(nil).Once()
		m.jobcards.On("Save", ctx, jc).Return(nil).Once()

		err := service.RemoveLine(ctx, garageID, jc.ID, serviceLine.ID)

		require.NoError(t, err)
		assert.Empty(t, jc.Services)
		m.jobcards.AssertCalled(t, "DeleteServiceLine", ctx, jc.ID, serviceLine.ID)
	})

	t.Run("unknown line id", func(t *testing.T) {
		unknownID := uuid.New()
		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()

		err := service.RemoveLine(ctx, garageID, jc.ID, unknownID)

		assertDomainCode(t, err, "NOT_FOUND")
		m.jobcards.AssertNotCalled(t, "DeletePartLine", ctx, jc.ID, unknownID)
		m.jobcards.AssertNotCalled(t, "DeleteServiceLine", ctx, jc.ID, unknownID)
	})
}

func TestJobcardService_Finalize(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())
	publisher := NewMockEventPublisher()
	service.SetEventPublisher(publisher)

	b := createBookedBooking(t, garageID, "JOB-12")
	jc := createOpenJobcard(t, garageID, "JOB-12", &b.ID)

	partA := createTestPart(garageID, 10)
	partB := createTestPart(garageID, 5)
	partB.Name = "Engine Oil"
	partB.PartNumber = "EO-20W40"

	_, err := jc.AddPart(jobcard.PartLineFields{
		Source:    jobcard.SourceInternal,
		ProductID: &partA.ID,
		Name:      partA.Name,
		Quantity:  2,
		Value:     testMoney(250),
		Tax:       testPercent(18),
	})
	require.NoError(t, err)
	_, err = jc.AddPart(jobcard.PartLineFields{
		Source:    jobcard.SourceInternal,
		ProductID: &partB.ID,
		Name:      partB.Name,
		Quantity:  1,
		Value:     testMoney(450),
	})
	require.NoError(t, err)
	// external lines never touch the stock ledger
	_, err = jc.AddPart(jobcard.PartLineFields{
		Source:   jobcard.SourceExternal,
		Name:     "Imported Gasket",
		Quantity: 1,
		Value:    testMoney(900),
	})
	require.NoError(t, err)

	var issued []*inventory.StockOutward
	m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil)
	m.parts.On("FindByIDForUpdate", ctx, garageID, partA.ID).Return(partA, nil).Once()
	m.parts.On("FindByIDForUpdate", ctx, garageID, partB.ID).Return(partB, nil).Once()
	m.parts.On("Save", ctx, mock.AnythingOfType("*catalog.Part")).Return(nil)
	m.outwards.On("Save", ctx, mock.AnythingOfType("*inventory.StockOutward")).Run(func(args mock.Arguments) {
		issued = append(issued, args.Get(1).(*inventory.StockOutward))
	}).Return(nil)
	m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
	m.bookings.On("Save", ctx, b).Return(nil).Once()
	m.jobcards.On("Save", ctx, jc).Return(nil)

	t.Run("issues one outward row per internal parts line", func(t *testing.T) {
		finalized, err := service.Finalize(ctx, garageID, jc.ID)

		require.NoError(t, err)
		assert.Equal(t, jobcard.StatusFinalized, finalized.Status)
		require.NotNil(t, finalized.FinalizedAt)

		require.Len(t, issued, 2)
		for _, movement := range issued {
			assert.Equal(t, inventory.UsageJobcard, movement.UsagePurpose)
			assert.Equal(t, jc.ID.String(), movement.ReferenceDocument)
			assert.Equal(t, "JOB-12", movement.IssuedTo)
		}
		assert.Equal(t, 2, issued[0].Quantity)
		assert.True(t, issued[0].Rate.Amount().Equal(decimal.NewFromInt(250)))
		assert.Equal(t, 1, issued[1].Quantity)
		assert.True(t, issued[1].Rate.Amount().Equal(decimal.NewFromInt(450)))

		assert.Equal(t, 8, partA.CurrentStock())
		assert.Equal(t, 4, partB.CurrentStock())

		assert.Equal(t, booking.StatusWorkCompleted, b.CurrentStatus())
		entry := b.FindTimelineEntry(booking.StatusWorkCompleted)
		require.NotNil(t, entry)
		assert.Equal(t, "JOB-12", entry.Remark)

		assert.Len(t, publisher.GetEventsByType(jobcard.EventTypeJobcardFinalized), 1)
	})

	t.Run("re-finalizing is rejected without issuing stock again", func(t *testing.T) {
		_, err := service.Finalize(ctx, garageID, jc.ID)

		assertDomainCode(t, err, "ILLEGAL_TRANSITION")
		assert.Len(t, issued, 2)
		assert.Equal(t, 8, partA.CurrentStock())
		assert.Equal(t, 4, partB.CurrentStock())
	})
}

func TestJobcardService_Finalize_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

	jc := createOpenJobcard(t, garageID, "JOB-3", nil)
	part := createTestPart(garageID, 1)
	_, err := jc.AddPart(jobcard.PartLineFields{
		Source:    jobcard.SourceInternal,
		ProductID: &part.ID,
		Name:      part.Name,
		Quantity:  3,
		Value:     testMoney(250),
	})
	require.NoError(t, err)

	m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
	m.parts.On("FindByIDForUpdate", ctx, garageID, part.ID).Return(part, nil).Once()

	_, err = service.Finalize(ctx, garageID, jc.ID)

	assertDomainCode(t, err, "INSUFFICIENT_STOCK")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BP-100", domainErr.Details["part_number"])
	assert.Equal(t, 3, domainErr.Details["requested"])
	assert.Equal(t, 1, domainErr.Details["available"])
	m.outwards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJobcardService_Finalize_AfterBookingCancelled(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

	b := createBookedBooking(t, garageID, "JOB-44")
	_, err := b.Cancel("customer moved the visit")
	require.NoError(t, err)
	jc := createOpenJobcard(t, garageID, "JOB-44", &b.ID)

	m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
	m.bookings.On("FindByIDForUpdate", ctx, b.ID).Return(b, nil).Once()
	m.bookings.On("Save", ctx, b).Return(nil).Once()
	m.jobcards.On("Save", ctx, jc).Return(nil).Once()

	finalized, err := service.Finalize(ctx, garageID, jc.ID)

	require.NoError(t, err)
	assert.Equal(t, jobcard.StatusFinalized, finalized.Status)
	entry := b.FindTimelineEntry(booking.StatusWorkCompleted)
	require.NotNil(t, entry)
	assert.Equal(t, "JOB-44", entry.Remark)
}

func TestJobcardService_AssignMechanic(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

	jc := createOpenJobcard(t, garageID, "JOB-7", nil)
	mechanic := createTestMechanic(garageID, 3)
	// the persisted assignment arrives on the aggregate with the lock load
	require.NoError(t, jc.AssignMechanic(mechanic.ID))

	m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil)
	m.staff.On("FindByIDForGarage", ctx, garageID, mechanic.ID).Return(mechanic, nil)
	m.jobcards.On("Save", ctx, jc).Return(nil)

	t.Run("re-assigning an already assigned mechanic is a no-op", func(t *testing.T) {
		err := service.AssignMechanic(ctx, garageID, jc.ID, mechanic.ID)

		require.NoError(t, err)
		assert.Len(t, jc.Mechanics, 1)
	})

	t.Run("assigns a second mechanic", func(t *testing.T) {
		other := createTestMechanic(garageID, 4)
		m.staff.On("FindByIDForGarage", ctx, garageID, other.ID).Return(other, nil)

		err := service.AssignMechanic(ctx, garageID, jc.ID, other.ID)

		require.NoError(t, err)
		assert.Len(t, jc.Mechanics, 2)
	})
}

func TestJobcardService_Delete(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	t.Run("finalized jobcards cannot be deleted", func(t *testing.T) {
		m := newWorkflowMocks()
		service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

		jc := createOpenJobcard(t, garageID, "JOB-4", nil)
		require.NoError(t, jc.Finalize())

		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()

		err := service.Delete(ctx, garageID, jc.ID)

		assertDomainCode(t, err, "VALIDATION_ERROR")
		m.jobcards.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("open jobcard deletes with its stored photos", func(t *testing.T) {
		m := newWorkflowMocks()
		blobs := new(MockBlobStore)
		service := NewJobcardService(m.scope(), m.jobcards, blobs, zap.NewNop())

		jc := createOpenJobcard(t, garageID, "JOB-4", nil)
		jc.SetDamagePhotoHandles([]string{"photos/a", "photos/b"})

		m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
		m.jobcards.On("Delete", ctx, jc.ID).Return(nil).Once()
		blobs.On("Delete", ctx, "photos/a").Return(nil).Once()
		blobs.On("Delete", ctx, "photos/b").Return(nil).Once()

		err := service.Delete(ctx, garageID, jc.ID)

		require.NoError(t, err)
		blobs.AssertExpectations(t)
	})
}

func TestJobcardService_AttachDamagePhotos(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	blobs := new(MockBlobStore)
	service := NewJobcardService(m.scope(), m.jobcards, blobs, zap.NewNop())

	jc := createOpenJobcard(t, garageID, "JOB-6", nil)
	jc.SetDamagePhotoHandles([]string{"photos/old"})

	blobs.On("Put", ctx, []byte("front"), "image/jpeg").Return("photos/front", nil).Once()
	blobs.On("Put", ctx, []byte("rear"), "image/jpeg").Return("photos/rear", nil).Once()
	m.jobcards.On("FindByIDForUpdate", ctx, jc.ID).Return(jc, nil).Once()
	m.jobcards.On("Save", ctx, jc).Return(nil).Once()

	updated, err := service.AttachDamagePhotos(ctx, garageID, jc.ID, [][]byte{[]byte("front"), []byte("rear")}, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, []string{"photos/old", "photos/front", "photos/rear"}, updated.DamagePhotos())
}

func TestJobcardService_Totals(t *testing.T) {
	ctx := context.Background()
	garageID := uuid.New()

	m := newWorkflowMocks()
	service := NewJobcardService(m.scope(), m.jobcards, new(MockBlobStore), zap.NewNop())

	jc := createOpenJobcard(t, garageID, "JOB-7", nil)
	_, err := jc.AddPart(jobcard.PartLineFields{
		Source:   jobcard.SourceExternal,
		Name:     "Clutch Cable",
		Quantity: 2,
		Value:    testMoney(100),
	})
	require.NoError(t, err)
	_, err = jc.AddPayment(jobcard.PaymentFields{
		Amount: testMoney(50),
		Mode:   jobcard.ModeCash,
	})
	require.NoError(t, err)

	m.jobcards.On("FindByIDWithChildren", ctx, jc.ID).Return(jc, nil).Once()

	totals, err := service.Totals(ctx, garageID, jc.ID)

	require.NoError(t, err)
	assert.True(t, totals.TotalAmount.Amount().Equal(decimal.NewFromInt(200)))
	assert.True(t, totals.ReceivedAmount.Amount().Equal(decimal.NewFromInt(50)))
	assert.True(t, totals.PendingAmount.Amount().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 1, totals.PaymentCount)
}
