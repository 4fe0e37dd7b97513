// Package jobcard holds the application services for the repair workflow:
// jobcard assembly, finalisation, payments and booking promotion.
package jobcard

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/catalog"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// BlobStore is the content-addressed file store used for damage photos and
// the diagram image. Implemented by the infrastructure layer.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, handle string) error
}

// JobcardService handles the jobcard lifecycle. Edits, payments and status
// changes on one jobcard are serialised by a row lock taken inside the
// transaction scope.
type JobcardService struct {
	txScope     TransactionScope
	jobcardRepo jobcard.JobcardRepository
	blobs       BlobStore
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewJobcardService creates a new JobcardService
func NewJobcardService(
	txScope TransactionScope,
	jobcardRepo jobcard.JobcardRepository,
	blobs BlobStore,
	logger *zap.Logger,
) *JobcardService {
	return &JobcardService{
		txScope:     txScope,
		jobcardRepo: jobcardRepo,
		blobs:       blobs,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *JobcardService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateJobcard opens a walk-in jobcard. When no number is supplied the next
// JOB-N is generated inside the creating transaction so concurrent creates
// cannot collide.
func (s *JobcardService) CreateJobcard(ctx context.Context, garageID uuid.UUID, fields jobcard.JobcardFields, mechanicIDs []uuid.UUID) (*jobcard.Jobcard, error) {
	var jc *jobcard.Jobcard
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.CustomerRepo().FindByIDForGarage(ctx, garageID, fields.CustomerID); err != nil {
			return shared.NewNotFoundError("customer")
		}
		if fields.Number == "" {
			currentMax, err := repos.JobcardRepo().MaxNumber(ctx, garageID)
			if err != nil {
				return err
			}
			next, err := jobcard.NextNumber(currentMax)
			if err != nil {
				return err
			}
			fields.Number = next
		} else if existing, err := repos.JobcardRepo().FindByNumber(ctx, garageID, fields.Number); err == nil && existing != nil {
			return shared.NewConflictError("jobcard number already in use")
		}

		var err error
		jc, err = jobcard.NewJobcard(garageID, fields)
		if err != nil {
			return err
		}
		for _, staffID := range mechanicIDs {
			staff, err := repos.StaffRepo().FindByIDForGarage(ctx, garageID, staffID)
			if err != nil {
				return shared.NewNotFoundError("staff")
			}
			if !staff.IsMechanic() {
				return shared.NewValidationError("mechanics", "staff member cannot be assigned as mechanic")
			}
			if err := jc.AssignMechanic(staff.ID); err != nil {
				return err
			}
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, jc)
	s.logger.Info("jobcard created",
		zap.String("garage_id", garageID.String()),
		zap.String("jobcard_id", jc.ID.String()),
		zap.String("number", jc.Number))
	return jc, nil
}

// GetJobcard loads a jobcard with all its children
func (s *JobcardService) GetJobcard(ctx context.Context, garageID, id uuid.UUID) (*jobcard.Jobcard, error) {
	jc, err := s.jobcardRepo.FindByIDWithChildren(ctx, id)
	if err != nil || jc.GarageID != garageID {
		return nil, shared.NewNotFoundError("jobcard")
	}
	return jc, nil
}

// GetJobcardByPublicID resolves the unguessable public view handle
func (s *JobcardService) GetJobcardByPublicID(ctx context.Context, publicID uuid.UUID) (*jobcard.Jobcard, error) {
	jc, err := s.jobcardRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, shared.NewNotFoundError("jobcard")
	}
	return jc, nil
}

// ListJobcards returns a page of jobcards for a garage
func (s *JobcardService) ListJobcards(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (shared.Paginated[jobcard.Jobcard], error) {
	jobcards, err := s.jobcardRepo.FindAllForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[jobcard.Jobcard]{}, err
	}
	total, err := s.jobcardRepo.CountForGarage(ctx, garageID, filter)
	if err != nil {
		return shared.Paginated[jobcard.Jobcard]{}, err
	}
	return shared.NewPaginated(jobcards, total, filter.Page, filter.PageSize), nil
}

// UpdateContent edits the intake fields of an open jobcard
func (s *JobcardService) UpdateContent(ctx context.Context, garageID, id uuid.UUID, update jobcard.ContentUpdate) (*jobcard.Jobcard, error) {
	var jc *jobcard.Jobcard
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		jc, err = s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		if err := jc.UpdateContent(update); err != nil {
			return err
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}
	return jc, nil
}

// AppendPartLine adds a parts line to an open jobcard. Internal lines must
// reference a part of the same garage.
func (s *JobcardService) AppendPartLine(ctx context.Context, garageID, id uuid.UUID, fields jobcard.PartLineFields) (*jobcard.PartLine, error) {
	var line *jobcard.PartLine
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		jc, err := s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		if fields.Source == jobcard.SourceInternal && fields.ProductID != nil {
			part, err := repos.PartRepo().FindByIDForGarage(ctx, garageID, *fields.ProductID)
			if err != nil {
				return shared.NewNotFoundError("part")
			}
			if fields.Name == "" {
				fields.Name = part.Name
			}
			if fields.PartNumber == "" {
				fields.PartNumber = part.PartNumber
			}
		}
		line, err = jc.AddPart(fields)
		if err != nil {
			return err
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// AppendServiceLine adds a services line to an open jobcard. External names
// are opportunistically promoted into the per-garage service catalogue keyed
// by (garage, name) so they can be re-used as internal lines later.
func (s *JobcardService) AppendServiceLine(ctx context.Context, garageID, id uuid.UUID, fields jobcard.ServiceLineFields) (*jobcard.ServiceLine, error) {
	var line *jobcard.ServiceLine
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		jc, err := s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		switch fields.Source {
		case jobcard.SourceInternal:
			if fields.ServiceID != nil {
				item, err := repos.ServiceItemRepo().FindByIDForGarage(ctx, garageID, *fields.ServiceID)
				if err != nil {
					return shared.NewNotFoundError("service")
				}
				if fields.Name == "" {
					fields.Name = item.Name
				}
			}
		case jobcard.SourceExternal:
			if err := s.promoteExternalService(ctx, repos, garageID, fields); err != nil {
				return err
			}
		}
		line, err = jc.AddService(fields)
		if err != nil {
			return err
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveLine drops a line from an open jobcard, searching parts then services
func (s *JobcardService) RemoveLine(ctx context.Context, garageID, id, lineID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		jc, err := s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		// Save never deletes children absent from the slices, so the
		// removed row is deleted explicitly in the same transaction.
		if err := jc.RemovePart(lineID); err == nil {
			if err := repos.JobcardRepo().DeletePartLine(ctx, jc.ID, lineID); err != nil {
				return err
			}
		} else if err := jc.RemoveService(lineID); err == nil {
			if err := repos.JobcardRepo().DeleteServiceLine(ctx, jc.ID, lineID); err != nil {
				return err
			}
		} else {
			return shared.NewNotFoundError("jobcard line")
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
}

// AssignMechanic adds a mechanic to a jobcard
func (s *JobcardService) AssignMechanic(ctx context.Context, garageID, id, staffID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		jc, err := s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		staff, err := repos.StaffRepo().FindByIDForGarage(ctx, garageID, staffID)
		if err != nil {
			return shared.NewNotFoundError("staff")
		}
		if !staff.IsMechanic() {
			return shared.NewValidationError("staff_id", "staff member cannot be assigned as mechanic")
		}
		if err := jc.AssignMechanic(staff.ID); err != nil {
			return err
		}
		return repos.JobcardRepo().Save(ctx, jc)
	})
}

// AttachDamagePhotos stores the uploaded photos and appends their handles
func (s *JobcardService) AttachDamagePhotos(ctx context.Context, garageID, id uuid.UUID, photos [][]byte, contentType string) (*jobcard.Jobcard, error) {
	handles := make([]string, 0, len(photos))
	for _, data := range photos {
		handle, err := s.blobs.Put(ctx, data, contentType)
		if err != nil {
			return nil, shared.NewExternalDependencyError("blob store", err)
		}
		handles = append(handles, handle)
	}

	var jc *jobcard.Jobcard
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		jc, err = s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		jc.SetDamagePhotoHandles(append(jc.DamagePhotos(), handles...))
		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}
	return jc, nil
}

// Finalize flips the jobcard to finalized and, in the same transaction,
// issues stock for every internal parts line and appends work_completed to
// the originating booking's timeline
func (s *JobcardService) Finalize(ctx context.Context, garageID, id uuid.UUID) (*jobcard.Jobcard, error) {
	var jc *jobcard.Jobcard
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		jc, err = s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		if err := jc.Finalize(); err != nil {
			return err
		}

		for _, line := range jc.InternalParts() {
			if err := issueForLine(ctx, repos, garageID, jc, line); err != nil {
				return err
			}
		}

		if jc.BookingID != nil {
			b, err := repos.BookingRepo().FindByIDForUpdate(ctx, *jc.BookingID)
			if err != nil {
				return err
			}
			// Recorded outside the status graph: a booking cancelled
			// after promotion must not block finalisation.
			if _, err := b.RecordWorkCompleted(jc.Number); err != nil {
				return err
			}
			if err := repos.BookingRepo().Save(ctx, b); err != nil {
				return err
			}
		}

		return repos.JobcardRepo().Save(ctx, jc)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, jc)
	s.logger.Info("jobcard finalized",
		zap.String("garage_id", garageID.String()),
		zap.String("jobcard_id", jc.ID.String()),
		zap.String("number", jc.Number))
	return jc, nil
}

// Delete removes an open jobcard with all its children. Stored photos are
// removed best-effort after the transaction commits.
func (s *JobcardService) Delete(ctx context.Context, garageID, id uuid.UUID) error {
	var handles []string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		jc, err := s.lockJobcard(ctx, repos, garageID, id)
		if err != nil {
			return err
		}
		if err := jc.EnsureDeletable(); err != nil {
			return err
		}
		handles = jc.DamagePhotos()
		if jc.DiagramImageHandle != "" {
			handles = append(handles, jc.DiagramImageHandle)
		}
		return repos.JobcardRepo().Delete(ctx, jc.ID)
	})
	if err != nil {
		return err
	}

	for _, handle := range handles {
		if err := s.blobs.Delete(ctx, handle); err != nil {
			s.logger.Warn("failed to delete jobcard photo",
				zap.String("handle", handle), zap.Error(err))
		}
	}
	return nil
}

// Totals computes the financial summary of a jobcard
func (s *JobcardService) Totals(ctx context.Context, garageID, id uuid.UUID) (jobcard.Totals, error) {
	jc, err := s.GetJobcard(ctx, garageID, id)
	if err != nil {
		return jobcard.Totals{}, err
	}
	return jc.ComputeTotals()
}

// issueForLine issues stock for one internal parts line at the line's rate,
// discount and tax, locking the product row first
func issueForLine(ctx context.Context, repos TransactionalRepositories, garageID uuid.UUID, jc *jobcard.Jobcard, line jobcard.PartLine) error {
	part, err := repos.PartRepo().FindByIDForUpdate(ctx, garageID, *line.ProductID)
	if err != nil {
		return err
	}
	if err := part.RecordOutward(line.Quantity); err != nil {
		return err
	}
	if err := repos.PartRepo().Save(ctx, part); err != nil {
		return err
	}

	now := jc.JobDate
	movement, err := inventory.NewStockOutward(garageID, inventory.StockOutwardFields{
		ProductID:         *line.ProductID,
		Quantity:          line.Quantity,
		Rate:              line.Value,
		Discount:          line.Discount,
		GST:               line.Tax,
		TotalPrice:        line.Value.MultiplyByInt(int64(line.Quantity)),
		IssuedTo:          jc.Number,
		IssuedDate:        &now,
		UsagePurpose:      inventory.UsageJobcard,
		ReferenceDocument: jc.ID.String(),
	})
	if err != nil {
		return err
	}
	return repos.OutwardRepo().Save(ctx, movement)
}

func (s *JobcardService) lockJobcard(ctx context.Context, repos TransactionalRepositories, garageID, id uuid.UUID) (*jobcard.Jobcard, error) {
	jc, err := repos.JobcardRepo().FindByIDForUpdate(ctx, id)
	if err != nil || jc.GarageID != garageID {
		return nil, shared.NewNotFoundError("jobcard")
	}
	return jc, nil
}

func (s *JobcardService) promoteExternalService(ctx context.Context, repos TransactionalRepositories, garageID uuid.UUID, fields jobcard.ServiceLineFields) error {
	if existing, err := repos.ServiceItemRepo().FindByName(ctx, garageID, fields.Name); err == nil && existing != nil {
		return nil
	}
	item, err := catalog.NewServiceItem(garageID, fields.Name, fields.Value, fields.Tax, fields.Discount)
	if err != nil {
		// an unpromotable name never blocks the line itself
		s.logger.Warn("skipping service catalogue promotion", zap.Error(err))
		return nil
	}
	return repos.ServiceItemRepo().Save(ctx, item)
}

func (s *JobcardService) publishEvents(ctx context.Context, jc *jobcard.Jobcard) {
	if s.publisher == nil || jc == nil {
		return
	}
	events := jc.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish jobcard events", zap.Error(err))
	}
	jc.ClearDomainEvents()
}
