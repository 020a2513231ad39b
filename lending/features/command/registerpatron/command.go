package registerpatron

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "RegisterPatron"
)

// Command represents the intent of a librarian to register a patron.
type Command struct {
	PatronID   core.PatronIDString
	Name       string
	Tier       core.MembershipTier
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID core.PatronIDString, name string, tier core.MembershipTier, occurredAt time.Time) Command {
	return Command{
		PatronID:   patronID,
		Name:       name,
		Tier:       tier,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
