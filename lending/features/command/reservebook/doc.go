// Package reservebook implements the Reserve use case.
//
// The caller generates the reservation id, so a retried Reserve with the same id does not queue
// the patron twice. A reservation is READY right away only if a copy is free and nobody is
// waiting. Otherwise it joins the queue as PENDING.
package reservebook
