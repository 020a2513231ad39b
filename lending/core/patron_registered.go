package core

import (
	"time"
)

// PatronRegisteredEventType is the event type identifier.
const PatronRegisteredEventType = "PatronRegistered"

// PatronRegistered represents when a patron gets a library membership.
type PatronRegistered struct {
	EventType      EventTypeString
	PatronID       PatronIDString
	Name           string
	MembershipTier MembershipTier
	OccurredAt     OccurredAtTS
}

// BuildPatronRegistered creates a new PatronRegistered event.
func BuildPatronRegistered(patronID PatronIDString, name string, tier MembershipTier, occurredAt time.Time) PatronRegistered {
	return PatronRegistered{
		EventType:      PatronRegisteredEventType,
		PatronID:       patronID,
		Name:           name,
		MembershipTier: tier,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e PatronRegistered) IsEventType() string {
	return PatronRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e PatronRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
