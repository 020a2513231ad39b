package catalog

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Status is the derived view of a book's availability.
type Status = string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusReserved  Status = "RESERVED"
	StatusBorrowed  Status = "BORROWED"
)

// Book is the projected catalog record of one book.
type Book struct {
	ID          core.BookIDString
	ISBN        core.ISBNString
	Title       string
	Author      string
	Exists      bool
	TotalCopies int
	OnLoan      int
	OnHold      int
}

// Project replays the catalog relevant events of one book.
func Project(history core.DomainEvents, bookID core.BookIDString) Book {
	book := Book{ID: bookID}

	for _, event := range history {
		book.Apply(event)
	}

	return book
}

// Apply folds one event into the book. Events of other books are ignored.
func (b *Book) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.BookAddedToCatalog:
		if e.BookID != b.ID {
			return
		}

		if !b.Exists {
			b.Exists = true
			b.ISBN = e.ISBN
			b.Title = e.Title
			b.Author = e.Author
		}

		b.TotalCopies += e.Copies

	case core.BookBorrowed:
		if e.BookID != b.ID {
			return
		}

		b.OnLoan++

		if e.FromHold {
			b.OnHold--
		}

	case core.BookReturned:
		if e.BookID == b.ID {
			b.OnLoan--
		}

	case core.BookReserved:
		if e.BookID == b.ID && e.State == core.ReservationStateReady {
			b.OnHold++
		}

	case core.ReservationBecameReady:
		if e.BookID == b.ID {
			b.OnHold++
		}

	case core.ReservationCancelled:
		if e.BookID == b.ID && e.WasReady {
			b.OnHold--
		}

	case core.ReservationExpired:
		if e.BookID == b.ID {
			b.OnHold--
		}
	}
}

// AvailableCopies is the number of copies that can be borrowed by anyone.
func (b Book) AvailableCopies() int {
	return b.TotalCopies - b.OnLoan - b.OnHold
}

// Status derives AVAILABLE, RESERVED, or BORROWED from availability and the book's reservation queue.
func (b Book) Status(q *queue.Queue) Status {
	switch {
	case b.AvailableCopies() > 0:
		return StatusAvailable
	case q != nil && q.HasActive():
		return StatusReserved
	default:
		return StatusBorrowed
	}
}
