package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActorType identifies who caused a status transition
type ActorType string

// Actor type constants
const (
	// ActorTypeSystem marks transitions driven by the pipeline worker
	ActorTypeSystem ActorType = "system"
	// ActorTypeOwner marks transitions driven by the owning user
	ActorTypeOwner ActorType = "owner"
)

// Actor is an explicit reference to whoever caused a transition. A system
// actor carries no owner id; an owner actor always does.
type Actor struct {
	Type    ActorType
	OwnerID *uint
}

// SystemActor returns the actor used for worker-driven transitions
func SystemActor() Actor {
	return Actor{Type: ActorTypeSystem}
}

// OwnerActor returns the actor for a user-driven transition
func OwnerActor(ownerID uint) Actor {
	return Actor{Type: ActorTypeOwner, OwnerID: &ownerID}
}

// GenerationEvent records one winning status transition for audit purposes
type GenerationEvent struct {
	gorm.Model
	GenerationID uuid.UUID        `json:"generation_id" gorm:"type:uuid;not null;index"`
	FromStatus   GenerationStatus `json:"from_status" gorm:"not null"`
	ToStatus     GenerationStatus `json:"to_status" gorm:"not null"`
	ActorType    ActorType        `json:"actor_type" gorm:"not null"`
	ActorOwnerID *uint            `json:"actor_owner_id,omitempty"`
}

// Actor reconstructs the actor reference stored on the event
func (e *GenerationEvent) Actor() Actor {
	if e.ActorType == ActorTypeOwner && e.ActorOwnerID != nil {
		return OwnerActor(*e.ActorOwnerID)
	}
	return SystemActor()
}
