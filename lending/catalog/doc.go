// Package catalog projects books and their copy counters from the event history.
//
// Availability is never stored: AvailableCopies is TotalCopies minus the copies on loan minus the
// copies set aside for a READY reservation, and Status is derived from availability and the queue.
package catalog
