package bookavailability

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// ReadyHold describes the copy currently set aside for a READY reservation.
type ReadyHold struct {
	ReservationID  core.ReservationIDString
	PatronID       core.PatronIDString
	ReadyExpiresAt time.Time
}

// BookAvailability represents the query result for one book.
// QueueLength counts the PENDING and READY reservations.
type BookAvailability struct {
	BookID           core.BookIDString
	ISBN             core.ISBNString
	Title            string
	Author           string
	TotalCopies      int
	AvailableCopies  int
	Status           catalog.Status
	QueueLength      int
	ReadyReservation *ReadyHold
	SequenceNumber   uint
}
