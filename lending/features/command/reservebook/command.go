package reservebook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "Reserve"
)

// Command represents the intent of a patron to reserve a book.
type Command struct {
	ReservationID core.ReservationIDString
	PatronID      core.PatronIDString
	BookID        core.BookIDString
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	reservationID core.ReservationIDString,
	patronID core.PatronIDString,
	bookID core.BookIDString,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID: reservationID,
		PatronID:      patronID,
		BookID:        bookID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
