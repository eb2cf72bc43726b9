// Package services provides business logic for the studyforge API
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/studyforge/studyforge/internal/db/models"
	"github.com/studyforge/studyforge/internal/db/repos"
	"github.com/studyforge/studyforge/internal/logger"
	"github.com/studyforge/studyforge/pkg/types"
)

// Generation owns the generation job lifecycle: submission, the worker
// claim/progress/complete/fail protocol, and owner-initiated cancellation.
// It holds no in-process locks; every transition is one conditional update
// against the store, so any number of workers and cancel requests may race
// on the same job and exactly one wins.
type Generation struct {
	repo      *repos.GenerationRepository
	eventRepo *repos.GenerationEventRepository
	trigger   PipelineTrigger
}

// NewGenerationService creates a new generation service instance
func NewGenerationService(
	repo *repos.GenerationRepository,
	eventRepo *repos.GenerationEventRepository,
	trigger PipelineTrigger,
) *Generation {
	if trigger == nil {
		trigger = NewLogTrigger()
	}
	return &Generation{
		repo:      repo,
		eventRepo: eventRepo,
		trigger:   trigger,
	}
}

// Submit validates the source URL and creates a queued job. It returns as
// soon as the record exists; the pipeline notification is fire-and-forget.
func (s *Generation) Submit(ctx context.Context, ownerID uint, sourceURL string) (*models.Generation, error) {
	if err := types.ValidateSourceURL(sourceURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	gen := &models.Generation{
		OwnerID:   ownerID,
		SourceURL: sourceURL,
		Status:    models.GenerationStatusQueued,
		Progress:  0,
	}
	if err := s.repo.Create(ctx, gen); err != nil {
		return nil, fmt.Errorf("failed to create generation: %w", err)
	}

	s.recordEvent(gen.ID, "", models.GenerationStatusQueued, models.OwnerActor(ownerID))

	// Notify the pipeline outside the request path. The job is already
	// durable; a lost notification only delays pickup.
	go func() {
		if err := s.trigger.NotifyQueued(context.Background(), gen.ID); err != nil {
			logger.ErrorWithFields("Pipeline trigger failed", map[string]interface{}{
				"generation_id": gen.ID.String(),
				"error":         err.Error(),
			})
		}
	}()

	return gen, nil
}

// Claim moves a queued job to processing on behalf of a worker. A false
// result means another actor progressed the job first (in practice, a
// cancel) and the worker must not start work.
func (s *Generation) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	applied, err := s.repo.Transition(ctx, id,
		[]models.GenerationStatus{models.GenerationStatusQueued},
		map[string]interface{}{
			models.GenerationStatusField:    models.GenerationStatusProcessing,
			"started_at":                    now,
			models.GenerationUpdatedAtField: now,
		})
	if err != nil {
		return false, err
	}
	if applied {
		s.recordEvent(id, models.GenerationStatusQueued, models.GenerationStatusProcessing, models.SystemActor())
	}
	return applied, nil
}

// ReportProgress advances a processing job's progress. Progress is
// monotonically non-decreasing: a backward report returns
// ErrProgressRegression and never mutates the record. A false result with
// no error means the job left processing (canceled mid-flight) and the
// worker must stop.
func (s *Generation) ReportProgress(ctx context.Context, id uuid.UUID, pct int, meta *models.VideoMetadata) (bool, error) {
	if pct < 0 || pct > 100 {
		return false, ErrInvalidProgress
	}

	var metaJSON datatypes.JSON
	if meta != nil {
		var err error
		metaJSON, err = meta.ToJSON()
		if err != nil {
			return false, err
		}
	}

	applied, err := s.repo.AdvanceProgress(ctx, id, pct, metaJSON)
	if err != nil {
		return false, err
	}
	if applied {
		return true, nil
	}

	// Zero rows matched: either the job is no longer processing, or the
	// report went backward. The follow-up read only disambiguates the
	// outcome we report; the record was not touched either way.
	gen, err := s.repo.GetByIDSystem(ctx, id)
	if err != nil {
		if repos.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read generation after progress no-op: %w", err)
	}
	if gen.Status == models.GenerationStatusProcessing && gen.Progress > pct {
		return false, ErrProgressRegression
	}
	return false, nil
}

// Complete finishes a processing job with its produced artifact reference.
// Progress is forced to 100 on the same conditional write. A false result
// means the job was canceled or failed first; the worker must discard the
// produced artifacts.
func (s *Generation) Complete(ctx context.Context, id uuid.UUID, resultRef string, meta *models.VideoMetadata) (bool, error) {
	if resultRef == "" {
		return false, fmt.Errorf("result reference cannot be empty")
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		models.GenerationStatusField:    models.GenerationStatusCompleted,
		models.GenerationProgressField:  100,
		"result_ref":                    resultRef,
		"completed_at":                  now,
		models.GenerationUpdatedAtField: now,
	}
	if meta != nil {
		metaJSON, err := meta.ToJSON()
		if err != nil {
			return false, err
		}
		updates["metadata"] = metaJSON
	}

	applied, err := s.repo.Transition(ctx, id,
		[]models.GenerationStatus{models.GenerationStatusProcessing},
		updates)
	if err != nil {
		return false, err
	}
	if applied {
		s.recordEvent(id, models.GenerationStatusProcessing, models.GenerationStatusCompleted, models.SystemActor())
	}
	return applied, nil
}

// Fail marks a queued or processing job as failed with the worker's error
// message. The message is captured into the record, never thrown to any
// caller; owners see it on their next get or list.
func (s *Generation) Fail(ctx context.Context, id uuid.UUID, errMsg string) (bool, error) {
	if errMsg == "" {
		errMsg = "generation pipeline failed"
	}

	fromStatus := s.peekStatus(ctx, id)

	now := time.Now().UTC()
	applied, err := s.repo.Transition(ctx, id,
		[]models.GenerationStatus{models.GenerationStatusQueued, models.GenerationStatusProcessing},
		map[string]interface{}{
			models.GenerationStatusField:    models.GenerationStatusFailed,
			"error":                         errMsg,
			"completed_at":                  now,
			models.GenerationUpdatedAtField: now,
		})
	if err != nil {
		return false, err
	}
	if applied {
		s.recordEvent(id, fromStatus, models.GenerationStatusFailed, models.SystemActor())
	}
	return applied, nil
}

// Cancel terminates a queued or processing job on behalf of its owner.
// A missing record, someone else's record, and an already-terminal record
// all produce the same ErrGenerationNotFound so the caller learns nothing
// about jobs it does not own.
func (s *Generation) Cancel(ctx context.Context, ownerID uint, id uuid.UUID) (*models.Generation, error) {
	fromStatus := s.peekStatus(ctx, id)

	now := time.Now().UTC()
	applied, err := s.repo.TransitionOwned(ctx, ownerID, id,
		[]models.GenerationStatus{models.GenerationStatusQueued, models.GenerationStatusProcessing},
		map[string]interface{}{
			models.GenerationStatusField:    models.GenerationStatusCanceled,
			"completed_at":                  now,
			models.GenerationUpdatedAtField: now,
		})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrGenerationNotFound
	}

	s.recordEvent(id, fromStatus, models.GenerationStatusCanceled, models.OwnerActor(ownerID))

	gen, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read canceled generation: %w", err)
	}
	return gen, nil
}

// Get retrieves a job scoped to its owner
func (s *Generation) Get(ctx context.Context, ownerID uint, id uuid.UUID) (*models.Generation, error) {
	gen, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return gen, nil
}

// List retrieves all jobs for an owner, newest first
func (s *Generation) List(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.Generation, error) {
	return s.repo.List(ctx, ownerID, opts)
}

// Events returns the transition history for a job the owner can see
func (s *Generation) Events(ctx context.Context, ownerID uint, id uuid.UUID) ([]models.GenerationEvent, error) {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByGeneration(ctx, id)
}

// peekStatus reads the current status for audit purposes only. The value
// is informational; the transition itself is still guarded by its own
// conditional update.
func (s *Generation) peekStatus(ctx context.Context, id uuid.UUID) models.GenerationStatus {
	gen, err := s.repo.GetByIDSystem(ctx, id)
	if err != nil {
		return ""
	}
	return gen.Status
}

// recordEvent appends a transition to the audit log. Event writes are
// best-effort: a failure is logged and never propagated, so audit issues
// cannot block or roll back a lifecycle transition.
func (s *Generation) recordEvent(id uuid.UUID, from, to models.GenerationStatus, actor models.Actor) {
	if s.eventRepo == nil {
		return
	}
	event := &models.GenerationEvent{
		GenerationID: id,
		FromStatus:   from,
		ToStatus:     to,
		ActorType:    actor.Type,
		ActorOwnerID: actor.OwnerID,
	}
	if err := s.eventRepo.Append(context.Background(), event); err != nil {
		logger.ErrorWithFields("Failed to record generation event", map[string]interface{}{
			"generation_id": id.String(),
			"to_status":     to.String(),
			"error":         err.Error(),
		})
	}
}
