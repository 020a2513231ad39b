// Package expirereservation implements the expiry of one READY reservation whose hold window ran out.
// It is the unit of work of the expiry sweeper.
package expirereservation
