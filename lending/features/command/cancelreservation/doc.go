// Package cancelreservation implements the CancelReservation use case.
//
// The command only names the reservation, so the handler first looks up the reservation's book
// and then decides within the usual boundary of that book and the patron. Cancelling a READY
// reservation releases its copy to the next patron in the queue.
package cancelreservation
