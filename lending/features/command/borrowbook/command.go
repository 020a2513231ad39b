package borrowbook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "Borrow"
)

// Command represents the intent of a patron to borrow a book.
// DurationDays of zero or less falls back to the policy's loan duration.
type Command struct {
	PatronID     core.PatronIDString
	BookID       core.BookIDString
	DurationDays int
	OccurredAt   core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID core.PatronIDString, bookID core.BookIDString, durationDays int, occurredAt time.Time) Command {
	return Command{
		PatronID:     patronID,
		BookID:       bookID,
		DurationDays: durationDays,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}
