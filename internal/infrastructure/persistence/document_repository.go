package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/billing"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	var doc billing.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByIDForGarage finds a document by ID within a garage
func (r *GormDocumentRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*billing.Document, error) {
	var doc billing.Document
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByIDWithLines preloads the line items
func (r *GormDocumentRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	var doc billing.Document
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByNumber finds a document by its number within a garage
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, number string) (*billing.Document, error) {
	var doc billing.Document
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND kind = ? AND number = ?", garageID, kind, number).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// MaxNumberForYear returns the highest-sequence number issued in a garage for
// a document kind within a financial year, or empty. The scan includes
// soft-deleted documents so a deleted number is never reissued. Must be
// called inside the creating transaction.
func (r *GormDocumentRepository) MaxNumberForYear(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, fyShort string) (string, error) {
	var number *string
	if err := r.db.WithContext(ctx).
		Unscoped().
		Model(&billing.Document{}).
		Where("garage_id = ? AND kind = ? AND number LIKE ?", garageID, kind, "%/"+fyShort).
		Order("(split_part(number, '/', 2))::int DESC").
		Limit(1).
		Pluck("number", &number).Error; err != nil {
		return "", err
	}
	if number == nil {
		return "", nil
	}
	return *number, nil
}

// FindByJobcard lists documents projected from one jobcard
func (r *GormDocumentRepository) FindByJobcard(ctx context.Context, jobcardID uuid.UUID) ([]billing.Document, error) {
	var docs []billing.Document
	if err := r.db.WithContext(ctx).
		Where("jobcard_id = ?", jobcardID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByCustomer lists documents for one customer
func (r *GormDocumentRepository) FindByCustomer(ctx context.Context, garageID, customerID uuid.UUID, filter shared.Filter) ([]billing.Document, error) {
	var docs []billing.Document
	query := r.db.WithContext(ctx).
		Model(&billing.Document{}).
		Where("garage_id = ? AND customer_id = ?", garageID, customerID)

	query = applyPaging(query, filter, DocumentSortFields, "date DESC, created_at DESC")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindAllForGarage lists documents of one kind for a garage
func (r *GormDocumentRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, filter shared.Filter) ([]billing.Document, error) {
	var docs []billing.Document
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&billing.Document{}).Where("garage_id = ? AND kind = ?", garageID, kind),
		filter,
	)

	query = applyPaging(query, filter, DocumentSortFields, "date DESC, created_at DESC")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save creates or updates a document together with its loaded lines.
// A unique violation on the (garage, number) index surfaces as a conflict so
// the numbering retry loop can pick a fresh sequence.
func (r *GormDocumentRepository) Save(ctx context.Context, d *billing.Document) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(d).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError("document number already taken")
	}
	return err
}

// Delete soft-deletes a document; its number stays reserved
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForGarage counts documents matching the filter
func (r *GormDocumentRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, kind billing.DocumentKind, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(
		r.db.WithContext(ctx).Model(&billing.Document{}).Where("garage_id = ? AND kind = ?", garageID, kind),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDocumentRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "date_from":
			query = query.Where("date >= ?", value)
		case "date_to":
			query = query.Where("date <= ?", value)
		}
	}
	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ billing.DocumentRepository = (*GormDocumentRepository)(nil)
