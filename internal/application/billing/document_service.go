// Package billing holds the application service for invoice and estimate
// projection.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/inventory"
	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// numberRetries bounds the retry loop when concurrent creates race on the
// same document number
const numberRetries = 3

// DocumentService creates and manages invoices and estimates. Numbers are
// generated per garage and financial year inside the creating transaction;
// a unique-index conflict from a concurrent create is retried with a fresh
// number.
type DocumentService struct {
	txScope      TransactionScope
	documentRepo billing.DocumentRepository
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(txScope TransactionScope, documentRepo billing.DocumentRepository, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		txScope:      txScope,
		documentRepo: documentRepo,
		logger:       logger,
	}
}

// CreateInvoice creates an invoice from direct line selections. Internal part
// lines issue stock in the same transaction.
func (s *DocumentService) CreateInvoice(ctx context.Context, garageID uuid.UUID, fields billing.DocumentFields, lines []billing.DocumentLineFields) (*billing.Document, error) {
	return s.create(ctx, garageID, billing.KindInvoice, fields, lines, nil)
}

// CreateEstimate creates an estimate from direct line selections. Estimates
// never move stock.
func (s *DocumentService) CreateEstimate(ctx context.Context, garageID uuid.UUID, fields billing.DocumentFields, lines []billing.DocumentLineFields) (*billing.Document, error) {
	return s.create(ctx, garageID, billing.KindEstimate, fields, lines, nil)
}

// CreateInvoiceFromJobcard copies the jobcard's lines onto a new invoice.
// Internal parts already issued through jobcard finalisation are marked
// issued; anything still pending issues stock in the same transaction.
func (s *DocumentService) CreateInvoiceFromJobcard(ctx context.Context, garageID, jobcardID uuid.UUID, fields billing.DocumentFields) (*billing.Document, error) {
	return s.create(ctx, garageID, billing.KindInvoice, fields, nil, &jobcardID)
}

// CreateEstimateFromJobcard copies the jobcard's lines onto a new estimate
func (s *DocumentService) CreateEstimateFromJobcard(ctx context.Context, garageID, jobcardID uuid.UUID, fields billing.DocumentFields) (*billing.Document, error) {
	return s.create(ctx, garageID, billing.KindEstimate, fields, nil, &jobcardID)
}

func (s *DocumentService) create(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, fields billing.DocumentFields, lines []billing.DocumentLineFields, jobcardID *uuid.UUID) (*billing.Document, error) {
	var doc *billing.Document
	var lastErr error
	for attempt := 0; attempt < numberRetries; attempt++ {
		lastErr = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			garage, err := repos.GarageRepo().FindByID(ctx, garageID)
			if err != nil {
				return shared.NewNotFoundError("garage")
			}
			if _, err := repos.CustomerRepo().FindByIDForGarage(ctx, garageID, fields.CustomerID); err != nil {
				return shared.NewNotFoundError("customer")
			}

			var jc *jobcard.Jobcard
			if jobcardID != nil {
				jc, err = repos.JobcardRepo().FindByIDWithChildren(ctx, *jobcardID)
				if err != nil || jc.GarageID != garageID {
					return shared.NewNotFoundError("jobcard")
				}
				fields.JobcardID = jobcardID
				if fields.VehicleID == nil {
					fields.VehicleID = jc.VehicleID
				}
			}

			date := fields.Date
			if date.IsZero() {
				date = time.Now().UTC()
			}
			fyShort := billing.FinancialYearShort(date)
			currentMax, err := repos.DocumentRepo().MaxNumberForYear(ctx, garageID, kind, fyShort)
			if err != nil {
				return err
			}
			fields.Number, err = billing.NextDocumentNumber(garage.Code, currentMax, date)
			if err != nil {
				return err
			}

			doc, err = billing.NewDocument(garageID, kind, fields)
			if err != nil {
				return err
			}

			if jc != nil {
				if err := copyJobcardLines(doc, jc); err != nil {
					return err
				}
			} else {
				for _, lf := range lines {
					if _, err := doc.AddLine(lf); err != nil {
						return err
					}
				}
			}

			if kind == billing.KindInvoice {
				if err := s.issuePendingStock(ctx, repos, garageID, doc); err != nil {
					return err
				}
			}
			return repos.DocumentRepo().Save(ctx, doc)
		})
		if lastErr == nil {
			s.logger.Info("document created",
				zap.String("garage_id", garageID.String()),
				zap.String("kind", string(kind)),
				zap.String("number", doc.Number))
			return doc, nil
		}
		if !isNumberConflict(lastErr) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// copyJobcardLines projects the jobcard's part and service lines onto the
// document. Parts from a finalized jobcard have already moved stock and are
// marked issued.
func copyJobcardLines(doc *billing.Document, jc *jobcard.Jobcard) error {
	issued := !jc.IsOpen()
	for _, p := range jc.Parts {
		line, err := doc.AddLine(billing.DocumentLineFields{
			Kind:     billing.LinePart,
			Source:   string(p.Source),
			RefID:    p.ProductID,
			Name:     p.Name,
			Code:     p.Code,
			Quantity: p.Quantity,
			Value:    p.Value,
			Tax:      p.Tax,
			Discount: p.Discount,
		})
		if err != nil {
			return err
		}
		if issued && line.Source == "internal" {
			if err := doc.MarkStockIssued(line.ID); err != nil {
				return err
			}
		}
	}
	for _, sv := range jc.Services {
		if _, err := doc.AddLine(billing.DocumentLineFields{
			Kind:     billing.LineService,
			Source:   string(sv.Source),
			RefID:    sv.ServiceID,
			Name:     sv.Name,
			Code:     sv.Code,
			Quantity: sv.Quantity,
			Value:    sv.Value,
			Tax:      sv.Tax,
			Discount: sv.Discount,
		}); err != nil {
			return err
		}
	}
	return nil
}

// issuePendingStock emits an outward movement for every internal part line
// that has not moved stock yet, locking each product row first
func (s *DocumentService) issuePendingStock(ctx context.Context, repos TransactionalRepositories, garageID uuid.UUID, doc *billing.Document) error {
	for _, line := range doc.UnissuedInternalParts() {
		part, err := repos.PartRepo().FindByIDForUpdate(ctx, garageID, *line.RefID)
		if err != nil {
			return err
		}
		if err := part.RecordOutward(line.Quantity); err != nil {
			return err
		}
		if err := repos.PartRepo().Save(ctx, part); err != nil {
			return err
		}

		movement, err := inventory.NewStockOutward(garageID, inventory.StockOutwardFields{
			ProductID:         *line.RefID,
			Quantity:          line.Quantity,
			Rate:              line.Value,
			Discount:          line.Discount,
			GST:               line.Tax,
			TotalPrice:        line.Value.MultiplyByInt(int64(line.Quantity)),
			IssuedTo:          doc.Number,
			IssuedDate:        &doc.Date,
			UsagePurpose:      inventory.UsageInvoice,
			ReferenceDocument: doc.ID.String(),
		})
		if err != nil {
			return err
		}
		if err := repos.OutwardRepo().Save(ctx, movement); err != nil {
			return err
		}
		if err := doc.MarkStockIssued(line.ID); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch moves a document forward to dispatched
func (s *DocumentService) Dispatch(ctx context.Context, garageID, id uuid.UUID) (*billing.Document, error) {
	doc, err := s.documentRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Dispatch(); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocument loads a document with its lines
func (s *DocumentService) GetDocument(ctx context.Context, garageID, id uuid.UUID) (*billing.Document, error) {
	doc, err := s.documentRepo.FindByIDWithLines(ctx, id)
	if err != nil || doc.GarageID != garageID {
		return nil, shared.NewNotFoundError("document")
	}
	return doc, nil
}

// ListDocuments returns a page of documents of one kind
func (s *DocumentService) ListDocuments(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, filter shared.Filter) (shared.Paginated[billing.Document], error) {
	docs, err := s.documentRepo.FindAllForGarage(ctx, garageID, kind, filter)
	if err != nil {
		return shared.Paginated[billing.Document]{}, err
	}
	total, err := s.documentRepo.CountForGarage(ctx, garageID, kind, filter)
	if err != nil {
		return shared.Paginated[billing.Document]{}, err
	}
	return shared.NewPaginated(docs, total, filter.Page, filter.PageSize), nil
}

// DeleteDocument removes a document. Numbers of deleted documents are never
// reissued because generation always builds on the maximum ever assigned.
func (s *DocumentService) DeleteDocument(ctx context.Context, garageID, id uuid.UUID) error {
	doc, err := s.documentRepo.FindByIDForGarage(ctx, garageID, id)
	if err != nil {
		return err
	}
	return s.documentRepo.Delete(ctx, doc.ID)
}

func isNumberConflict(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == "CONFLICT"
	}
	return false
}
