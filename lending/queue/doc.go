// Package queue is the reservation queue engine: a per-book FIFO of reservations projected from the
// event history, with the promotion rule that hands a freed copy to the earliest PENDING reservation.
//
// The queue never holds more than one READY reservation, and PENDING reservations are promoted
// strictly in the order they were queued (ties broken by the lower reservation id).
package queue
