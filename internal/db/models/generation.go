package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Field names for the generation model
const (
	// GenerationStatusField is the field name for generation status
	GenerationStatusField = "status"
	// GenerationProgressField is the field name for generation progress
	GenerationProgressField = "progress"
	// GenerationCreatedAtField is the field name for the creation timestamp
	GenerationCreatedAtField = "created_at"
	// GenerationUpdatedAtField is the field name for the update timestamp
	GenerationUpdatedAtField = "updated_at"
)

// GenerationStatus represents the current state of a generation job
type GenerationStatus string

// Generation status constants
const (
	// GenerationStatusQueued indicates the job is waiting for a worker to claim it
	GenerationStatusQueued GenerationStatus = "queued"
	// GenerationStatusProcessing indicates a worker is generating artifacts
	GenerationStatusProcessing GenerationStatus = "processing"
	// GenerationStatusCompleted indicates the job finished and produced a result
	GenerationStatusCompleted GenerationStatus = "completed"
	// GenerationStatusFailed indicates the worker reported a failure
	GenerationStatusFailed GenerationStatus = "failed"
	// GenerationStatusCanceled indicates the owner canceled the job
	GenerationStatusCanceled GenerationStatus = "canceled"
)

// GenerationStatuses lists every valid status
var GenerationStatuses = []GenerationStatus{
	GenerationStatusQueued,
	GenerationStatusProcessing,
	GenerationStatusCompleted,
	GenerationStatusFailed,
	GenerationStatusCanceled,
}

// String returns the string representation of the generation status
func (s GenerationStatus) String() string {
	return string(s)
}

// Terminal reports whether the status permits no further transitions
func (s GenerationStatus) Terminal() bool {
	switch s {
	case GenerationStatusCompleted, GenerationStatusFailed, GenerationStatusCanceled:
		return true
	case GenerationStatusQueued, GenerationStatusProcessing:
		return false
	}
	return false
}

// CanTransitionTo reports whether the edge s -> to is part of the lifecycle.
// queued may move to processing or canceled; processing may move to any
// terminal state; failed is additionally reachable from queued so a worker
// can surface errors before claiming. Terminal states have no outgoing edges.
func (s GenerationStatus) CanTransitionTo(to GenerationStatus) bool {
	switch s {
	case GenerationStatusQueued:
		return to == GenerationStatusProcessing ||
			to == GenerationStatusCanceled ||
			to == GenerationStatusFailed
	case GenerationStatusProcessing:
		return to == GenerationStatusCompleted ||
			to == GenerationStatusFailed ||
			to == GenerationStatusCanceled
	case GenerationStatusCompleted, GenerationStatusFailed, GenerationStatusCanceled:
		return false
	}
	return false
}

// ParseGenerationStatus converts a string to a GenerationStatus
func ParseGenerationStatus(str string) (GenerationStatus, error) {
	for _, status := range GenerationStatuses {
		if str == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid generation status: %s", str)
}

// UnmarshalJSON implements json.Unmarshaler for GenerationStatus
func (s *GenerationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseGenerationStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// MarshalJSON implements json.Marshaler for GenerationStatus
func (s GenerationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// VideoMetadata holds descriptive fields the worker discovers about the
// source video. All fields are optional until the worker reports them.
type VideoMetadata struct {
	Title           string `json:"title,omitempty"`
	ChannelName     string `json:"channel_name,omitempty"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// ToJSON serializes the metadata into a JSONB column value
func (m *VideoMetadata) ToJSON() (datatypes.JSON, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal video metadata: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// Generation represents one tracked request to turn a source video into
// generated learning artifacts. Status is mutated only through the
// conditional updates in the generation repository.
type Generation struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uint             `json:"owner_id" gorm:"not null;index"`
	SourceURL   string           `json:"source_url" gorm:"not null;type:text"`
	Status      GenerationStatus `json:"status" gorm:"not null;index"`
	Progress    int              `json:"progress" gorm:"not null;default:0"`
	Metadata    datatypes.JSON   `json:"metadata,omitempty" gorm:"type:jsonb"`
	Error       string           `json:"error,omitempty" gorm:"type:text"`
	ResultRef   string           `json:"result_ref,omitempty" gorm:"type:text"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time        `json:"updated_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// Validate ensures the generation data is consistent
func (g *Generation) Validate() error {
	if err := ValidateOwnerID(g.OwnerID); err != nil {
		return err
	}
	if g.SourceURL == "" {
		return fmt.Errorf("source url cannot be empty")
	}
	if g.Progress < 0 || g.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	return nil
}

// DecodedMetadata unmarshals the stored metadata column, returning nil when
// the worker has not reported any metadata yet.
func (g *Generation) DecodedMetadata() (*VideoMetadata, error) {
	if len(g.Metadata) == 0 {
		return nil, nil
	}
	var meta VideoMetadata
	if err := json.Unmarshal(g.Metadata, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video metadata: %w", err)
	}
	return &meta, nil
}

// BeforeCreate is a GORM hook that runs before inserting a new generation
func (g *Generation) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = GenerationStatusQueued
	}
	return g.Validate()
}
