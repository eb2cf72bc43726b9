// Package types defines the public request and response types for the API
package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge/internal/db/models"
)

// maxSourceURLLength bounds submitted source URLs
const maxSourceURLLength = 2048

// ValidateSourceURL checks that a submitted source reference is a
// syntactically valid http(s) URL. It does not resolve the URL or verify
// the video exists; that is the pipeline's job.
func ValidateSourceURL(source string) error {
	if source == "" {
		return fmt.Errorf("source url cannot be empty")
	}
	if len(source) > maxSourceURLLength {
		return fmt.Errorf("source url length must be less than or equal to %d characters", maxSourceURLLength)
	}

	parsed, err := url.ParseRequestURI(source)
	if err != nil {
		return fmt.Errorf("invalid source url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid source url: scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid source url: missing host")
	}
	return nil
}

// SubmitGenerationRequest is the body for submitting a new generation job
type SubmitGenerationRequest struct {
	SourceURL string `json:"source_url"`
}

// Validate ensures the submission request is well formed
func (r *SubmitGenerationRequest) Validate() error {
	return ValidateSourceURL(r.SourceURL)
}

// ProgressRequest is the worker body for reporting progress
type ProgressRequest struct {
	Progress int                   `json:"progress"`
	Metadata *models.VideoMetadata `json:"metadata,omitempty"`
}

// CompleteRequest is the worker body for reporting successful completion
type CompleteRequest struct {
	ResultRef string                `json:"result_ref"`
	Metadata  *models.VideoMetadata `json:"metadata,omitempty"`
}

// Validate ensures the completion request carries a result reference
func (r *CompleteRequest) Validate() error {
	if r.ResultRef == "" {
		return fmt.Errorf("result_ref cannot be empty")
	}
	return nil
}

// FailRequest is the worker body for reporting a pipeline failure
type FailRequest struct {
	Error string `json:"error"`
}

// Validate ensures the failure request carries an error message
func (r *FailRequest) Validate() error {
	if r.Error == "" {
		return fmt.Errorf("error message cannot be empty")
	}
	return nil
}

// GenerationResponse is the owner-facing projection of a generation job
type GenerationResponse struct {
	ID          uuid.UUID               `json:"id"`
	SourceURL   string                  `json:"source_url"`
	Status      models.GenerationStatus `json:"status"`
	Progress    int                     `json:"progress"`
	Metadata    *models.VideoMetadata   `json:"metadata,omitempty"`
	Error       string                  `json:"error,omitempty"`
	ResultRef   string                  `json:"result_ref,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	StartedAt   *time.Time              `json:"started_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
}

// NewGenerationResponse projects a stored generation into its public shape
func NewGenerationResponse(gen *models.Generation) GenerationResponse {
	resp := GenerationResponse{
		ID:          gen.ID,
		SourceURL:   gen.SourceURL,
		Status:      gen.Status,
		Progress:    gen.Progress,
		Error:       gen.Error,
		ResultRef:   gen.ResultRef,
		CreatedAt:   gen.CreatedAt,
		UpdatedAt:   gen.UpdatedAt,
		StartedAt:   gen.StartedAt,
		CompletedAt: gen.CompletedAt,
	}
	// A metadata column that fails to decode is dropped from the
	// projection rather than failing the read.
	if meta, err := gen.DecodedMetadata(); err == nil {
		resp.Metadata = meta
	}
	return resp
}

// SubmitGenerationResponse is returned when a job is accepted
type SubmitGenerationResponse struct {
	ID     uuid.UUID               `json:"id"`
	Status models.GenerationStatus `json:"status"`
}

// CancelGenerationResponse is returned when a job is canceled
type CancelGenerationResponse struct {
	ID     uuid.UUID               `json:"id"`
	Status models.GenerationStatus `json:"status"`
}

// ApplyResponse reports the outcome of a worker state-mutating call.
// Applied false means the conditional update matched zero rows and the
// worker must abandon further work on the job.
type ApplyResponse struct {
	Applied bool `json:"applied"`
}
