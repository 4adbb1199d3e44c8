package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an activity-log record emitted after a mutating operation
// commits. It is a single tagged struct rather than a type hierarchy: the
// Action field discriminates, the payload is shared by all variants.
type DomainEvent struct {
	ID           uuid.UUID
	Action       EventAction
	ActingUserID uuid.UUID
	EntityType   EntityType
	EntityID     uuid.UUID
	Description  string
	OccurredAt   time.Time
}

// NewEvent builds a DomainEvent with a fresh ID and the current time.
func NewEvent(action EventAction, actingUserID uuid.UUID, entityType EntityType, entityID uuid.UUID, description string) DomainEvent {
	return DomainEvent{
		ID:           uuid.New(),
		Action:       action,
		ActingUserID: actingUserID,
		EntityType:   entityType,
		EntityID:     entityID,
		Description:  description,
		OccurredAt:   time.Now().UTC(),
	}
}
