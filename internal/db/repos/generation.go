// Package repos provides database access for the studyforge API
package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/db/models"
)

// GenerationRepository handles database operations for generation jobs.
// Every mutation is a single conditional update keyed on the record's
// current status, so concurrent callers racing on the same job resolve to
// exactly one winner and the loser observes zero rows matched.
type GenerationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new generation repository instance
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a new generation in the database
func (r *GenerationRepository) Create(ctx context.Context, gen *models.Generation) error {
	if err := models.ValidateOwnerID(gen.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(gen).Error
}

// GetByID retrieves a generation scoped to its owner. Another owner's
// record is indistinguishable from a missing one.
func (r *GenerationRepository) GetByID(ctx context.Context, ownerID uint, id uuid.UUID) (*models.Generation, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var gen models.Generation
	err := r.db.WithContext(ctx).
		Where(models.Generation{ID: id, OwnerID: ownerID}).
		First(&gen).Error
	if err != nil {
		return nil, err
	}
	return &gen, nil
}

// GetByIDSystem retrieves a generation without an owner constraint. Only
// the worker path uses this; it acts with system authority.
func (r *GenerationRepository) GetByIDSystem(ctx context.Context, id uuid.UUID) (*models.Generation, error) {
	var gen models.Generation
	err := r.db.WithContext(ctx).
		Where(models.Generation{ID: id}).
		First(&gen).Error
	if err != nil {
		return nil, err
	}
	return &gen, nil
}

// List retrieves all generations for an owner, newest first
func (r *GenerationRepository) List(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.Generation, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}

	qry := models.Generation{OwnerID: ownerID}
	if opts != nil && opts.GenerationStatus != nil {
		qry.Status = *opts.GenerationStatus
	}

	query := r.db.WithContext(ctx).Where(qry)
	if opts != nil {
		limit := opts.Limit
		if limit <= 0 {
			limit = models.DefaultLimit
		}
		query = query.Limit(limit).Offset(opts.Offset)
	}

	var gens []models.Generation
	err := query.Order(models.GenerationCreatedAtField + " DESC").Find(&gens).Error
	return gens, err
}

// Transition applies updates to a generation only if its current status is
// in the acceptable set. It returns false with no error when the record
// did not match, which callers must treat as "another actor progressed the
// job" rather than a failure.
func (r *GenerationRepository) Transition(
	ctx context.Context,
	id uuid.UUID,
	from []models.GenerationStatus,
	updates map[string]interface{},
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Generation{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition generation: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// TransitionOwned is Transition with an additional owner constraint, used
// for the owner-initiated cancel. A record owned by someone else matches
// zero rows exactly like a missing or already-terminal one.
func (r *GenerationRepository) TransitionOwned(
	ctx context.Context,
	ownerID uint,
	id uuid.UUID,
	from []models.GenerationStatus,
	updates map[string]interface{},
) (bool, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return false, fmt.Errorf("invalid owner_id: %w", err)
	}
	res := r.db.WithContext(ctx).Model(&models.Generation{}).
		Where("id = ? AND owner_id = ? AND status IN ?", id, ownerID, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition generation: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AdvanceProgress moves progress forward while the job is processing. The
// progress guard lives in the WHERE clause so a backward report can never
// mutate the record, no matter how calls interleave.
func (r *GenerationRepository) AdvanceProgress(
	ctx context.Context,
	id uuid.UUID,
	pct int,
	metadata datatypes.JSON,
) (bool, error) {
	updates := map[string]interface{}{
		models.GenerationProgressField:  pct,
		models.GenerationUpdatedAtField: time.Now().UTC(),
	}
	if metadata != nil {
		updates["metadata"] = metadata
	}

	res := r.db.WithContext(ctx).Model(&models.Generation{}).
		Where("id = ? AND status = ? AND progress <= ?", id, models.GenerationStatusProcessing, pct).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to advance progress: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IsNotFound reports whether err is the store's record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
