package types

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	// Total number of items returned in this page
	Total int `json:"total"`

	// Current page number (1-based)
	Page int `json:"page"`

	// Maximum number of items per page
	Limit int `json:"limit"`

	// Number of items skipped from the beginning of the result set
	Offset int `json:"offset"`
}

// ListResponse defines a generic response structure for listing resources
type ListResponse[T any] struct {
	// Array of resource items
	Rows []T `json:"rows"`

	// Pagination information for the result set
	Pagination PaginationResponse `json:"pagination"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	// Error message describing what went wrong
	Error string `json:"error"`

	// Optional additional details about the error
	Details interface{} `json:"details,omitempty"`
}

// ErrInvalidInput creates an error response for invalid input
func ErrInvalidInput(details interface{}) ErrorResponse {
	return ErrorResponse{
		Error:   "Invalid input",
		Details: details,
	}
}

// ErrNotFound creates an error response for a missing or inaccessible resource
func ErrNotFound(message string) ErrorResponse {
	return ErrorResponse{
		Error: message,
	}
}

// ErrServer creates an error response for internal server errors
func ErrServer(details interface{}) ErrorResponse {
	return ErrorResponse{
		Error:   "Internal server error",
		Details: details,
	}
}

// ErrUnauthorized creates an error response for missing or invalid credentials
func ErrUnauthorized(message string) ErrorResponse {
	return ErrorResponse{
		Error: message,
	}
}
