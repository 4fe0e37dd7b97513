// Package inventory holds the application services for the stock ledger.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// StockService coordinates stock movements with the part counters. Every
// mutation re-reads the part under a row lock so concurrent issues cannot
// drive current stock negative.
type StockService struct {
	txScope     TransactionScope
	partRepo    catalog.PartRepository
	inwardRepo  inventory.StockInwardRepository
	outwardRepo inventory.StockOutwardRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	txScope TransactionScope,
	partRepo catalog.PartRepository,
	inwardRepo inventory.StockInwardRepository,
	outwardRepo inventory.StockOutwardRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		txScope:     txScope,
		partRepo:    partRepo,
		inwardRepo:  inwardRepo,
		outwardRepo: outwardRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// ReceiveStock records an inward movement and bumps the part's inward counter
// in one transaction
func (s *StockService) ReceiveStock(ctx context.Context, garageID uuid.UUID, fields inventory.StockInwardFields) (*inventory.StockInward, error) {
	movement, err := inventory.NewStockInward(garageID, fields)
	if err != nil {
		return nil, err
	}

	var part *catalog.Part
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		part, err = repos.PartRepo().FindByIDForUpdate(ctx, garageID, fields.ProductID)
		if err != nil {
			return err
		}
		if err := part.RecordInward(fields.Quantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}
		return repos.InwardRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, part)
	s.logger.Info("stock received",
		zap.String("garage_id", garageID.String()),
		zap.String("part_id", fields.ProductID.String()),
		zap.Int("quantity", fields.Quantity))
	return movement, nil
}

// UpdateInwardQuantity edits an inward row's quantity and applies the delta
// to the part counter. The resulting current stock may not go negative.
func (s *StockService) UpdateInwardQuantity(ctx context.Context, garageID, movementID uuid.UUID, newQuantity int) (*inventory.StockInward, error) {
	var movement *inventory.StockInward
	var part *catalog.Part
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = repos.InwardRepo().FindByIDForGarage(ctx, garageID, movementID)
		if err != nil {
			return err
		}
		delta, err := movement.QuantityDelta(newQuantity)
		if err != nil {
			return err
		}
		part, err = repos.PartRepo().FindByIDForUpdate(ctx, garageID, movement.ProductID)
		if err != nil {
			return err
		}
		if err := part.AdjustInward(delta); err != nil {
			return err
		}
		if err := movement.UpdateQuantity(newQuantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}
		return repos.InwardRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, part)
	return movement, nil
}

// DeleteInward removes an inward row and reverses its effect on the part
// counter. Rejected when removing the receipt would drive stock negative.
func (s *StockService) DeleteInward(ctx context.Context, garageID, movementID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movement, err := repos.InwardRepo().FindByIDForGarage(ctx, garageID, movementID)
		if err != nil {
			return err
		}
		part, err := repos.PartRepo().FindByIDForUpdate(ctx, garageID, movement.ProductID)
		if err != nil {
			return err
		}
		if err := part.AdjustInward(-movement.Quantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}
		return repos.InwardRepo().Delete(ctx, movement.ID)
	})
}

// IssueStock records an outward movement and bumps the part's outward
// counter in one transaction. The part row is locked for the duration so the
// availability check cannot race a concurrent issue.
func (s *StockService) IssueStock(ctx context.Context, garageID uuid.UUID, fields inventory.StockOutwardFields) (*inventory.StockOutward, error) {
	movement, err := inventory.NewStockOutward(garageID, fields)
	if err != nil {
		return nil, err
	}

	var part *catalog.Part
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		part, err = repos.PartRepo().FindByIDForUpdate(ctx, garageID, fields.ProductID)
		if err != nil {
			return err
		}
		if err := part.RecordOutward(fields.Quantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}
		return repos.OutwardRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, part)
	s.logger.Info("stock issued",
		zap.String("garage_id", garageID.String()),
		zap.String("part_id", fields.ProductID.String()),
		zap.Int("quantity", fields.Quantity),
		zap.String("purpose", string(fields.UsagePurpose)))
	return movement, nil
}

// ReverseIssue removes an outward row and returns its quantity to stock
func (s *StockService) ReverseIssue(ctx context.Context, garageID, movementID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movement, err := repos.OutwardRepo().FindByIDForGarage(ctx, garageID, movementID)
		if err != nil {
			return err
		}
		part, err := repos.PartRepo().FindByIDForUpdate(ctx, garageID, movement.ProductID)
		if err != nil {
			return err
		}
		if err := part.ReverseOutward(movement.Quantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}
		return repos.OutwardRepo().Delete(ctx, movement.ID)
	})
}

// ListInward returns inward rows, optionally narrowed to one part
func (s *StockService) ListInward(ctx context.Context, garageID uuid.UUID, productID *uuid.UUID, filter shared.Filter) ([]inventory.StockInward, error) {
	if productID != nil {
		return s.inwardRepo.FindByProduct(ctx, garageID, *productID, filter)
	}
	return s.inwardRepo.FindAllForGarage(ctx, garageID, filter)
}

// ListOutward returns outward rows, optionally narrowed to one part
func (s *StockService) ListOutward(ctx context.Context, garageID uuid.UUID, productID *uuid.UUID, filter shared.Filter) ([]inventory.StockOutward, error) {
	if productID != nil {
		return s.outwardRepo.FindByProduct(ctx, garageID, *productID, filter)
	}
	return s.outwardRepo.FindAllForGarage(ctx, garageID, filter)
}

func (s *StockService) publishEvents(ctx context.Context, part *catalog.Part) {
	if s.publisher == nil || part == nil {
		return
	}
	events := part.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish stock events", zap.Error(err))
	}
	part.ClearDomainEvents()
}
