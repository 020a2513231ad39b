package readyreservations

import (
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// ReadyReservations represents the query result, ordered by ReadyExpiresAt.
type ReadyReservations struct {
	Reservations   []queue.Reservation
	Count          int
	SequenceNumber uint
}
