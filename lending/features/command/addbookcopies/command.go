package addbookcopies

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "AddBookCopies"
)

// Command represents the intent of a librarian to add copies of a book.
// ISBN, Title, and Author are only taken from the first command for a BookID.
type Command struct {
	BookID     core.BookIDString
	ISBN       core.ISBNString
	Title      string
	Author     string
	Copies     int
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	bookID core.BookIDString,
	isbn core.ISBNString,
	title string,
	author string,
	copies int,
	occurredAt time.Time,
) Command {

	return Command{
		BookID:     bookID,
		ISBN:       isbn,
		Title:      title,
		Author:     author,
		Copies:     copies,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
