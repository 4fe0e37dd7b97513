package persistence

import (
	"context"
	"errors"

	"github.com/garagehq/gms-backend/internal/domain/jobcard"
	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobcardRepository implements JobcardRepository using GORM
type GormJobcardRepository struct {
	db *gorm.DB
}

// NewGormJobcardRepository creates a new GormJobcardRepository
func NewGormJobcardRepository(db *gorm.DB) *GormJobcardRepository {
	return &GormJobcardRepository{db: db}
}

// FindByID finds a jobcard by ID
func (r *GormJobcardRepository) FindByID(ctx context.Context, id uuid.UUID) (*jobcard.Jobcard, error) {
	var jc jobcard.Jobcard
	if err := r.db.WithContext(ctx).First(&jc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &jc, nil
}

// FindByIDForGarage finds a jobcard by ID within a garage
func (r *GormJobcardRepository) FindByIDForGarage(ctx context.Context, garageID, id uuid.UUID) (*jobcard.Jobcard, error) {
	var jc jobcard.Jobcard
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&jc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &jc, nil
}

// FindByIDWithChildren preloads lines, mechanics, observations, notes and
// payments
func (r *GormJobcardRepository) FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*jobcard.Jobcard, error) {
	var jc jobcard.Jobcard
	if err := r.db.WithContext(ctx).
		Preload("Parts").
		Preload("Services").
		Preload("Mechanics").
		Preload("Observations").
		Preload("Notes").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC, created_at DESC")
		}).
		First(&jc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &jc, nil
}

// FindByIDForUpdate loads the jobcard with a row-level exclusive lock,
// together with the lines, mechanics, observations and notes the mutating
// commands operate on. The lock is taken on the jobcards row first; the
// children are read under it. Must be called inside a transaction.
func (r *GormJobcardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*jobcard.Jobcard, error) {
	var jc jobcard.Jobcard
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Parts").
		Preload("Services").
		Preload("Mechanics").
		Preload("Observations").
		Preload("Notes").
		First(&jc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &jc, nil
}

// FindByPublicID resolves the unguessable public view handle
func (r *GormJobcardRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*jobcard.Jobcard, error) {
	var jc jobcard.Jobcard
	if err := r.db.WithContext(ctx).
		Preload("Parts").
		Preload("Services").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC, created_at DESC")
		}).
		First(&jc, "public_id = ?", publicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &jc, nil
}

// FindByNumber finds a jobcard by its number within a garage
func (r *GormJobcardRepository) FindByNumber(ctx context.Context, garageID uuid.UUID, number string) (*jobcard.Jobcard, error) {
	var jc jobcard.Jobcard
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND jobcard_number = ?", garageID, number).
		First(&jc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &jc, nil
}

// MaxNumber returns the jobcard number with the highest numeric suffix in a
// garage, or empty when the garage has none. Must be called inside the
// creating transaction.
func (r *GormJobcardRepository) MaxNumber(ctx context.Context, garageID uuid.UUID) (string, error) {
	var number *string
	if err := r.db.WithContext(ctx).
		Model(&jobcard.Jobcard{}).
		Where("garage_id = ?", garageID).
		Order("(split_part(jobcard_number, '-', 2))::int DESC").
		Limit(1).
		Pluck("jobcard_number", &number).Error; err != nil {
		return "", err
	}
	if number == nil {
		return "", nil
	}
	return *number, nil
}

// FindByCustomer lists jobcards for one customer
func (r *GormJobcardRepository) FindByCustomer(ctx context.Context, garageID, customerID uuid.UUID, filter shared.Filter) ([]jobcard.Jobcard, error) {
	var jobcards []jobcard.Jobcard
	query := r.db.WithContext(ctx).
		Model(&jobcard.Jobcard{}).
		Where("garage_id = ? AND customer_id = ?", garageID, customerID)

	query = applyPaging(query, filter, JobcardSortFields, "job_date DESC, created_at DESC")
	if err := query.Find(&jobcards).Error; err != nil {
		return nil, err
	}
	return jobcards, nil
}

// FindAllForGarage lists jobcards for a garage
func (r *GormJobcardRepository) FindAllForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) ([]jobcard.Jobcard, error) {
	var jobcards []jobcard.Jobcard
	query := r.applyFilters(r.db.WithContext(ctx).Model(&jobcard.Jobcard{}).Where("garage_id = ?", garageID), filter)

	query = applyPaging(query, filter, JobcardSortFields, "job_date DESC, created_at DESC")
	if err := query.Find(&jobcards).Error; err != nil {
		return nil, err
	}
	return jobcards, nil
}

// Save creates or updates a jobcard together with its loaded children.
// Children dropped from the aggregate's slices are not deleted here; line
// removal goes through DeletePartLine and DeleteServiceLine.
func (r *GormJobcardRepository) Save(ctx context.Context, j *jobcard.Jobcard) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(j).Error
}

// DeletePartLine removes one parts line row
func (r *GormJobcardRepository) DeletePartLine(ctx context.Context, jobcardID, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&jobcard.PartLine{}, "id = ? AND jobcard_id = ?", lineID, jobcardID).Error
}

// DeleteServiceLine removes one services line row
func (r *GormJobcardRepository) DeleteServiceLine(ctx context.Context, jobcardID, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&jobcard.ServiceLine{}, "id = ? AND jobcard_id = ?", lineID, jobcardID).Error
}

// Delete removes the jobcard and cascades to its children
func (r *GormJobcardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&jobcard.PartLine{}, "jobcard_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&jobcard.ServiceLine{}, "jobcard_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&jobcard.Mechanic{}, "jobcard_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&jobcard.Observation{}, "jobcard_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&jobcard.Note{}, "jobcard_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&jobcard.Payment{}, "jobcard_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&jobcard.Jobcard{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForGarage counts jobcards matching the filter
func (r *GormJobcardRepository) CountForGarage(ctx context.Context, garageID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&jobcard.Jobcard{}).Where("garage_id = ?", garageID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormJobcardRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("jobcard_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "mode":
			query = query.Where("mode = ?", value)
		case "vehicle_id":
			query = query.Where("vehicle_id = ?", value)
		case "date_from":
			query = query.Where("job_date >= ?", value)
		case "date_to":
			query = query.Where("job_date <= ?", value)
		}
	}
	return query
}

// Ensure GormJobcardRepository implements JobcardRepository
var _ jobcard.JobcardRepository = (*GormJobcardRepository)(nil)
