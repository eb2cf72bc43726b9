// Package models defines the database models for the studyforge API
package models

import "fmt"

// DefaultLimit is the default number of rows returned by list queries
const DefaultLimit = 50

// ListOptions provides pagination options for list queries
type ListOptions struct {
	Limit  int
	Offset int
	// GenerationStatus filters generations by status when set
	GenerationStatus *GenerationStatus
}

// ValidateOwnerID ensures the owner ID refers to a real user scope
func ValidateOwnerID(ownerID uint) error {
	if ownerID == 0 {
		return fmt.Errorf("owner id cannot be 0")
	}
	return nil
}
