package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/db/models"
)

// GenerationEventRepository handles the transition audit log
type GenerationEventRepository struct {
	db *gorm.DB
}

// NewGenerationEventRepository creates a new event repository instance
func NewGenerationEventRepository(db *gorm.DB) *GenerationEventRepository {
	return &GenerationEventRepository{db: db}
}

// Append records a single status transition
func (r *GenerationEventRepository) Append(ctx context.Context, event *models.GenerationEvent) error {
	if event.GenerationID == uuid.Nil {
		return fmt.Errorf("event generation id cannot be empty")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByGeneration returns the transition history for one job, oldest first
func (r *GenerationEventRepository) ListByGeneration(ctx context.Context, generationID uuid.UUID) ([]models.GenerationEvent, error) {
	var events []models.GenerationEvent
	err := r.db.WithContext(ctx).
		Where(models.GenerationEvent{GenerationID: generationID}).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
