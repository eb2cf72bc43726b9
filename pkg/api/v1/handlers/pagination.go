package handlers

import "github.com/studyforge/studyforge/internal/db/models"

const (
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = models.DefaultLimit
	// MaxPageSize is the maximum allowed page size
	MaxPageSize = 500
)

// getPaginationOptions returns a ListOptions struct with validated
// pagination parameters
func getPaginationOptions(page, limit int) *models.ListOptions {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return &models.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
