package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/identity"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/registry"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// MockDocumentRepository is a mock implementation of billing.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, number string) (*billing.Document, error) {
	args := m.Called(ctx, garageID, kind, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) MaxNumberForYear(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, fyShort string) (string, error) {
	args := m.Called(ctx, garageID, kind, fyShort)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) FindByJobcard(ctx context.Context, jobcardID uuid.UUID) ([]billing.Document, error) {
	args := m.Called(ctx, jobcardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByCustomer(ctx context.Context, garageID, customerID uuid.UUID, filter shared.Filter) ([]billing.Document, error) {
	args := m.Called(ctx, garageID, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, filter shared.Filter) ([]billing.Document, error) {
	args := m.Called(ctx, garageID, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, d *billing.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, garageID, kind, filter)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockStockOutwardRepository is a mock implementation of inventory.StockOutwardRepository
type MockStockOutwardRepository struct {
	mock.Mock
}

func (m *MockStockOutwardRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockOutward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockOutward), args.Error(1)
}

func (m *MockStockOutwardRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockOutward), args.Error(1)
}

func (m *MockStockOutwardRepository) FindByProduct(ctx context.Context, garageID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockOutward), args.Error(1)
}

func (m *MockStockOutwardRepository) FindByReference(ctx context.Context, garageID uuid.UUID, purpose inventory.UsagePurpose, reference string) ([]inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, purpose, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockOutward), args.Error(1)
}

func (m *MockStockOutwardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	args := m.Called(ctx, garageID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockOutward), args.Error(1)
}

func (m *MockStockOutwardRepository) Save(ctx context.Context, movement *inventory.StockOutward) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockOutwardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]jobcard.Jobcard), args.Error(1)
}

func (m *MockJobcardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]jobcard.Jobcard, error) {
	args := m.Called(ctx, garageID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockGarageRepository is a mock implementation of identity.GarageRepository
type MockGarageRepository struct {
	mock.Mock
}

func (m *MockGarageRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Garage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Garage), args.Error(1)
}

func (m *MockGarageRepository) FindByCode(ctx context.Context, code int) (*identity.Garage, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Garage), args.Error(1)
}

func (m *MockGarageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Garage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Garage), args.Error(1)
}

func (m *MockGarageRepository) MaxCode(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockGarageRepository) Save(ctx context.Context, g *identity.Garage) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGarageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGarageRepository) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// documentMocks bundles the repositories behind a no-op transaction scope
type documentMocks struct {
	documents *MockDocumentRepository
	parts     *MockPartRepository
	outwards  *MockStockOutwardRepository
	jobcards  *MockJobcardRepository
	garages   *MockGarageRepository
	customers *MockCustomerRepository
}

func newDocumentMocks() *documentMocks {
	return &documentMocks{
		documents: new(MockDocumentRepository),
		parts:     new(MockPartRepository),
		outwards:  new(MockStockOutwardRepository),
		jobcards:  new(MockJobcardRepository),
		garages:   new(MockGarageRepository),
		customers: new(MockCustomerRepository),
	}
}

func (m *documentMocks) scope() TransactionScope {
	return NewNoOpTransactionScope(m.documents, m.parts, m.outwards, m.jobcards, m.garages, m.customers)
}

func (m *documentMocks) service() *DocumentService {
	return NewDocumentService(m.scope(), m.documents, zap.NewNop())
}

func assertDomainCode(t *testing.T, err error, code string) *shared.DomainError {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
	return domainErr
}

func testMoney(amount float64) valueobject.Money {
	return valueobject.NewMoneyINRFromFloat(amount)
}

func testPercent(value int64) valueobject.Percent {
	return valueobject.MustNewPercent(decimal.NewFromInt(value))
}

func createTestGarage(t *testing.T, code int) *identity.Garage {
	t.Helper()
	garage, err := identity.NewGarage(code, identity.GarageFields{Name: "Sunrise Motors"})
	require.NoError(t, err)
	return garage
}

func createTestCustomer(t *testing.T, garageID uuid.UUID) *registry.Customer {
	t.Helper()
	customer, err := registry.NewCustomer(garageID, "Anand Rao", valueobject.MustNewPhone("9876543210"), registry.CustomerFields{})
	require.NoError(t, err)
	return customer
}

func createTestPart(t *testing.T, garageID uuid.UUID, stock int) *catalog.Part {
	t.Helper()
	part, err := catalog.NewPart(garageID, catalog.PartFields{
		Name:          "Brake Pad",
		PartNumber:    "BP-100",
		CategoryID:    uuid.New(),
		Price:         testMoney(250),
		PurchasePrice: testMoney(150),
	})
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, part.RecordInward(stock))
	}
	part.ClearDomainEvents()
	return part
}

func createTestJobcard(t *testing.T, garageID uuid.UUID, customerID uuid.UUID) *jobcard.Jobcard {
	t.Helper()
	vehicleID := uuid.New()
	jc, err := jobcard.NewJobcard(garageID, jobcard.JobcardFields{
		CustomerID: customerID,
		VehicleID:  &vehicleID,
		Number:     "JOB-120",
	})
	require.NoError(t, err)
	jc.ClearDomainEvents()
	return jc
}

// invoiceDate pins document numbering to the 26-27 financial year
var invoiceDate = time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

func TestDocumentService_CreateInvoice(t *testing.T) {
	garageID := uuid.New()

	t.Run("first invoice of the year gets sequence 1 and issues stock", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)
		part := createTestPart(t, garageID, 5)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("", nil).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, part.ID).Return(part, nil).Once()
		m.parts.On("Save", mock.Anything, part).Return(nil).Once()

		var issued *inventory.StockOutward
		m.outwards.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockOutward")).
			Run(func(args mock.Arguments) {
				issued = args.Get(1).(*inventory.StockOutward)
			}).Return(nil).Once()
		m.documents.On("Save", mock.Anything, mock.AnythingOfType("*billing.Document")).Return(nil).Once()

		doc, err := m.service().CreateInvoice(context.Background(), garageID,
			billing.DocumentFields{
				CustomerID: customer.ID,
				Name:       customer.Name,
				Date:       invoiceDate,
			},
			[]billing.DocumentLineFields{
				{
					Kind:     billing.LinePart,
					Source:   "internal",
					RefID:    &part.ID,
					Name:     part.Name,
					Quantity: 2,
					Value:    testMoney(250),
					Tax:      testPercent(18),
				},
				{
					Kind:     billing.LineService,
					Source:   "external",
					Name:     "General Service",
					Quantity: 1,
					Value:    testMoney(400),
				},
			})

		require.NoError(t, err)
		assert.Equal(t, "7/1/26-27", doc.Number)
		assert.Equal(t, billing.KindInvoice, doc.Kind)
		assert.Equal(t, billing.StatusCreated, doc.Status)
		require.Len(t, doc.Lines, 2)
		assert.True(t, doc.Lines[0].StockIssued)
		assert.False(t, doc.Lines[1].StockIssued)
		assert.Equal(t, 3, part.CurrentStock())

		require.NotNil(t, issued)
		assert.Equal(t, part.ID, issued.ProductID)
		assert.Equal(t, 2, issued.Quantity)
		assert.Equal(t, inventory.UsageInvoice, issued.UsagePurpose)
		assert.Equal(t, doc.ID.String(), issued.ReferenceDocument)
		assert.Equal(t, "7/1/26-27", issued.IssuedTo)

		// 2*250 taxed at 18% plus 400 untaxed
		assert.True(t, doc.Amount.Amount().Equal(decimal.NewFromInt(990)))
		m.documents.AssertExpectations(t)
		m.outwards.AssertExpectations(t)
	})

	t.Run("numbering continues after the current maximum", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("7/41/26-27", nil).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		doc, err := m.service().CreateInvoice(context.Background(), garageID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate},
			[]billing.DocumentLineFields{
				{Kind: billing.LineService, Source: "external", Name: "Wash", Quantity: 1, Value: testMoney(150)},
			})

		require.NoError(t, err)
		assert.Equal(t, "7/42/26-27", doc.Number)
	})

	t.Run("retries with a fresh number when a concurrent create wins the race", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Times(2)
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Times(2)
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("", nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("7/1/26-27", nil).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(shared.NewConflictError("number already taken")).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		doc, err := m.service().CreateInvoice(context.Background(), garageID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate},
			[]billing.DocumentLineFields{
				{Kind: billing.LineService, Source: "external", Name: "Wash", Quantity: 1, Value: testMoney(150)},
			})

		require.NoError(t, err)
		assert.Equal(t, "7/2/26-27", doc.Number)
		m.documents.AssertExpectations(t)
	})

	t.Run("insufficient stock fails the invoice", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)
		part := createTestPart(t, garageID, 2)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("", nil).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, part.ID).Return(part, nil).Once()

		_, err := m.service().CreateInvoice(context.Background(), garageID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate},
			[]billing.DocumentLineFields{
				{Kind: billing.LinePart, Source: "internal", RefID: &part.ID, Name: part.Name, Quantity: 5, Value: testMoney(250)},
			})

		domainErr := assertDomainCode(t, err, "INSUFFICIENT_STOCK")
		assert.Equal(t, 5, domainErr.Details["requested"])
		assert.Equal(t, 2, domainErr.Details["available"])
		m.documents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown customer fails before numbering", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customerID := uuid.New()

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customerID).
			Return(nil, shared.NewNotFoundError("customer")).Once()

		_, err := m.service().CreateInvoice(context.Background(), garageID,
			billing.DocumentFields{CustomerID: customerID, Name: "Anand Rao", Date: invoiceDate}, nil)

		assertDomainCode(t, err, "NOT_FOUND")
		m.documents.AssertNotCalled(t, "MaxNumberForYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_CreateEstimate(t *testing.T) {
	garageID := uuid.New()

	t.Run("estimates never move stock", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 3)
		customer := createTestCustomer(t, garageID)
		part := createTestPart(t, garageID, 5)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindEstimate, "26-27").Return("", nil).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		doc, err := m.service().CreateEstimate(context.Background(), garageID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate},
			[]billing.DocumentLineFields{
				{Kind: billing.LinePart, Source: "internal", RefID: &part.ID, Name: part.Name, Quantity: 2, Value: testMoney(250)},
			})

		require.NoError(t, err)
		assert.Equal(t, "3/1/26-27", doc.Number)
		assert.Equal(t, billing.KindEstimate, doc.Kind)
		assert.False(t, doc.Lines[0].StockIssued)
		assert.Equal(t, 5, part.CurrentStock())
		m.parts.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
		m.outwards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("estimate and invoice sequences are independent", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 3)
		customer := createTestCustomer(t, garageID)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindEstimate, "26-27").Return("3/9/26-27", nil).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		doc, err := m.service().CreateEstimate(context.Background(), garageID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate},
			[]billing.DocumentLineFields{
				{Kind: billing.LineService, Source: "external", Name: "Wash", Quantity: 1, Value: testMoney(150)},
			})

		require.NoError(t, err)
		assert.Equal(t, "3/10/26-27", doc.Number)
		m.documents.AssertNotCalled(t, "MaxNumberForYear", mock.Anything, mock.Anything, billing.KindInvoice, mock.Anything)
	})
}

func TestDocumentService_CreateInvoiceFromJobcard(t *testing.T) {
	garageID := uuid.New()

	t.Run("copies the lines and marks parts of a finalized jobcard issued", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)
		part := createTestPart(t, garageID, 5)
		jc := createTestJobcard(t, garageID, customer.ID)
		_, err := jc.AddPart(jobcard.PartLineFields{
			Source:    jobcard.SourceInternal,
			ProductID: &part.ID,
			Name:      part.Name,
			Quantity:  2,
			Value:     testMoney(250),
			Tax:       testPercent(18),
		})
		require.NoError(t, err)
		_, err = jc.AddService(jobcard.ServiceLineFields{
			Source:   jobcard.SourceExternal,
			Name:     "Chain Cleaning",
			Quantity: 1,
			Value:    testMoney(300),
		})
		require.NoError(t, err)
		require.NoError(t, jc.Finalize())
		jc.ClearDomainEvents()

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.jobcards.On("FindByIDWithChildren", mock.Anything, jc.ID).Return(jc, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("", nil).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		doc, err := m.service().CreateInvoiceFromJobcard(context.Background(), garageID, jc.ID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate})

		require.NoError(t, err)
		require.Len(t, doc.Lines, 2)
		assert.Equal(t, billing.LinePart, doc.Lines[0].Kind)
		assert.Equal(t, "internal", doc.Lines[0].Source)
		assert.True(t, doc.Lines[0].StockIssued)
		assert.Equal(t, billing.LineService, doc.Lines[1].Kind)
		assert.Equal(t, "Chain Cleaning", doc.Lines[1].Name)
		assert.Equal(t, jc.ID, *doc.JobcardID)
		assert.Equal(t, *jc.VehicleID, *doc.VehicleID)
		assert.Equal(t, 5, part.CurrentStock())
		m.parts.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
		m.outwards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("an open jobcard's internal parts issue stock now", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)
		part := createTestPart(t, garageID, 5)
		jc := createTestJobcard(t, garageID, customer.ID)
		_, err := jc.AddPart(jobcard.PartLineFields{
			Source:    jobcard.SourceInternal,
			ProductID: &part.ID,
			Name:      part.Name,
			Quantity:  2,
			Value:     testMoney(250),
		})
		require.NoError(t, err)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.jobcards.On("FindByIDWithChildren", mock.Anything, jc.ID).Return(jc, nil).Once()
		m.documents.On("MaxNumberForYear", mock.Anything, garageID, billing.KindInvoice, "26-27").Return("", nil).Once()
		m.parts.On("FindByIDForUpdate", mock.Anything, garageID, part.ID).Return(part, nil).Once()
		m.parts.On("Save", mock.Anything, part).Return(nil).Once()
		m.outwards.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		m.documents.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		doc, err := m.service().CreateInvoiceFromJobcard(context.Background(), garageID, jc.ID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate})

		require.NoError(t, err)
		assert.True(t, doc.Lines[0].StockIssued)
		assert.Equal(t, 3, part.CurrentStock())
		m.outwards.AssertExpectations(t)
	})

	t.Run("a jobcard from another garage is not found", func(t *testing.T) {
		m := newDocumentMocks()
		garage := createTestGarage(t, 7)
		customer := createTestCustomer(t, garageID)
		jc := createTestJobcard(t, uuid.New(), customer.ID)

		m.garages.On("FindByID", mock.Anything, garageID).Return(garage, nil).Once()
		m.customers.On("FindByIDForGarage", mock.Anything, garageID, customer.ID).Return(customer, nil).Once()
		m.jobcards.On("FindByIDWithChildren", mock.Anything, jc.ID).Return(jc, nil).Once()

		_, err := m.service().CreateInvoiceFromJobcard(context.Background(), garageID, jc.ID,
			billing.DocumentFields{CustomerID: customer.ID, Name: customer.Name, Date: invoiceDate})

		assertDomainCode(t, err, "NOT_FOUND")
		m.documents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_Dispatch(t *testing.T) {
	garageID := uuid.New()

	createDocument := func(t *testing.T) *billing.Document {
		t.Helper()
		doc, err := billing.NewDocument(garageID, billing.KindInvoice, billing.DocumentFields{
			Number:     "7/1/26-27",
			CustomerID: uuid.New(),
			Name:       "Anand Rao",
			Date:       invoiceDate,
		})
		require.NoError(t, err)
		return doc
	}

	t.Run("moves the document forward", func(t *testing.T) {
		m := newDocumentMocks()
		doc := createDocument(t)

		m.documents.On("FindByIDForGarage", mock.Anything, garageID, doc.ID).Return(doc, nil).Once()
		m.documents.On("Save", mock.Anything, doc).Return(nil).Once()

		dispatched, err := m.service().Dispatch(context.Background(), garageID, doc.ID)

		require.NoError(t, err)
		assert.Equal(t, billing.StatusDispatched, dispatched.Status)
	})

	t.Run("a dispatched document cannot be dispatched again", func(t *testing.T) {
		m := newDocumentMocks()
		doc := createDocument(t)
		require.NoError(t, doc.Dispatch())

		m.documents.On("FindByIDForGarage", mock.Anything, garageID, doc.ID).Return(doc, nil).Once()

		_, err := m.service().Dispatch(context.Background(), garageID, doc.ID)

		assertDomainCode(t, err, "ILLEGAL_TRANSITION")
		m.documents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	garageID := uuid.New()

	t.Run("soft deletes by id", func(t *testing.T) {
		m := newDocumentMocks()
		doc, err := billing.NewDocument(garageID, billing.KindInvoice, billing.DocumentFields{
			Number:     "7/3/26-27",
			CustomerID: uuid.New(),
			Name:       "Anand Rao",
			Date:       invoiceDate,
		})
		require.NoError(t, err)

		m.documents.On("FindByIDForGarage", mock.Anything, garageID, doc.ID).Return(doc, nil).Once()
		m.documents.On("Delete", mock.Anything, doc.ID).Return(nil).Once()

		require.NoError(t, m.service().DeleteDocument(context.Background(), garageID, doc.ID))
		m.documents.AssertExpectations(t)
	})
}
