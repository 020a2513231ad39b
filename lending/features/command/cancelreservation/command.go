package cancelreservation

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the intent of a patron to withdraw one of their reservations.
type Command struct {
	PatronID      core.PatronIDString
	ReservationID core.ReservationIDString
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID core.PatronIDString, reservationID core.ReservationIDString, occurredAt time.Time) Command {
	return Command{
		PatronID:      patronID,
		ReservationID: reservationID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
