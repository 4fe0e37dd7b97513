// Package catalog holds the application services for the parts and service
// masters.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// PartService handles parts-master operations
type PartService struct {
	partRepo     catalog.PartRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewPartService creates a new PartService
func NewPartService(
	partRepo catalog.PartRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	logger *zap.Logger,
) *PartService {
	return &PartService{
		partRepo:     partRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreatePart validates references and adds a part to the catalogue
func (s *PartService) CreatePart(ctx context.Context, garageID uuid.UUID, fields catalog.PartFields) (*catalog.Part, error) {
	if _, err := s.categoryRepo.FindByID(ctx, fields.CategoryID); err != nil {
		return nil, shared.NewNotFoundError("category")
	}
	if fields.BrandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *fields.BrandID); err != nil {
			return nil, shared.NewNotFoundError("brand")
		}
	}

	part, err := catalog.NewPart(garageID, fields)
	if err != nil {
		return nil, err
	}
	part.AddDomainEvent(catalog.NewPartCreatedEvent(part))

	if err := s.partRepo.Save(ctx, part); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, part)
	s.logger.Info("part created",
		zap.String("garage_id", garageID.String()),
		zap.String("part_id", part.ID.String()),
		zap.String("name", part.Name))
	return part, nil
}

// UpdatePart applies new field values to a part
func (s *PartService) UpdatePart(ctx context.Context, garageID, id uuid.UUID, fields catalog.PartFields) (*catalog.Part, error) {
	part, err := s.partRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	if err := part.Update(fields); err != nil {
		return nil, err
	}
	if err := s.partRepo.Save(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// GetPart loads a part by id
func (s *PartService) GetPart(ctx context.Context, garageID, id uuid.UUID) (*catalog.Part, error) {
	return s.partRepo.FindByIDForGarage(ctx, garageID, id)
}

// ListParts returns a page of parts
func (s *PartService) ListParts(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (shared.Paginated[catalog.Part], error) {
	parts, err := s.partRepo.FindAllForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[catalog.Part]{}, err
	}
	total, err := s.partRepo.CountForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[catalog.Part]{}, err
	}
	return shared.NewPaginated(parts, total, filter.Page, filter.PageSize), nil
}

// ListLowStock returns parts at or below their minimum threshold
func (s *PartService) ListLowStock(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]catalog.Part, error) {
	return s.partRepo.FindBelowMinimum(ctx, garageID, filter)
}

// DeletePart removes a part from the catalogue
func (s *PartService) DeletePart(ctx context.Context, garageID, id uuid.UUID) error {
	part, err := s.partRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return err
	}
	if part.InwardStock > 0 || part.OutwardStock > 0 {
		return shared.NewDependentChildrenError("part", "stock movements")
	}
	return s.partRepo.Delete(ctx, id)
}

func (s *PartService) publishEvents(ctx context.Context, part *catalog.Part) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, part.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish part events", zap.Error(err))
	}
	part.ClearDomainEvents()
}
