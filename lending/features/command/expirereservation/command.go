package expirereservation

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "ExpireReservation"
)

// Command represents the intent to expire a READY reservation whose hold ran out.
type Command struct {
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	PatronID      core.PatronIDString
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	reservationID core.ReservationIDString,
	bookID core.BookIDString,
	patronID core.PatronIDString,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID: reservationID,
		BookID:        bookID,
		PatronID:      patronID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
