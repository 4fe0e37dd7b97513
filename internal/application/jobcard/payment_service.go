package jobcard

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// PaymentService handles the additive payment ledger on jobcards. Payments
// are accepted for finalized jobcards too.
type PaymentService struct {
	txScope     TransactionScope
	paymentRepo jobcard.PaymentRepository
	jobcardRepo jobcard.JobcardRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	txScope TransactionScope,
	paymentRepo jobcard.PaymentRepository,
	jobcardRepo jobcard.JobcardRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		txScope:     txScope,
		paymentRepo: paymentRepo,
		jobcardRepo: jobcardRepo,
		logger:      logger,
	}
}

// AddPayment appends a payment to a jobcard's ledger
func (s *PaymentService) AddPayment(ctx context.Context, garageID, jobcardID uuid.UUID, fields jobcard.PaymentFields) (*jobcard.Payment, error) {
	var payment *jobcard.Payment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		jc, err := repos.JobcardRepo().FindByIDForUpdate(ctx, jobcardID)
		if err != nil || jc.GarageID != garageID {
			return shared.NewNotFoundError("jobcard")
		}
		payment, err = jc.AddPayment(fields)
		if err != nil {
			return err
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment recorded",
		zap.String("garage_id", garageID.String()),
		zap.String("jobcard_id", jobcardID.String()),
		zap.String("mode", string(fields.Mode)),
		zap.String("amount", fields.Amount.String()))
	return payment, nil
}

// UpdatePayment replaces a payment. Mode-specific carrier fields of the old
// mode are cleared before the new mode's fields are written.
func (s *PaymentService) UpdatePayment(ctx context.Context, garageID, paymentID uuid.UUID, fields jobcard.PaymentFields) (*jobcard.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, shared.NewNotFoundError("payment")
	}
	jc, err := s.jobcardRepo.FindByID(ctx, payment.JobcardID)
	if err != nil || jc.GarageID != garageID {
		return nil, shared.NewNotFoundError("payment")
	}
	if err := payment.Update(fields); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Ledger is the payment list with its derived aggregates
type Ledger struct {
	Payments     []jobcard.Payment
	TotalPaid    valueobject.Money
	PaymentCount int
}

// ListPayments returns the ledger ordered by payment date, newest first
func (s *PaymentService) ListPayments(ctx context.Context, garageID, jobcardID uuid.UUID) (Ledger, error) {
	jc, err := s.jobcardRepo.FindByID(ctx, jobcardID)
	if err != nil || jc.GarageID != garageID {
		return Ledger{}, shared.NewNotFoundError("jobcard")
	}
	payments, err := s.paymentRepo.FindByJobcard(ctx, jobcardID)
	if err != nil {
		return Ledger{}, err
	}

	total := valueobject.ZeroINR()
	for _, p := range payments {
		total = total.MustAdd(p.Amount)
	}
	return Ledger{
		Payments:     payments,
		TotalPaid:    total,
		PaymentCount: len(payments),
	}, nil
}
