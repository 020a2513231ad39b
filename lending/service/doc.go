// Package service is the entry point of the lending system.
//
// Service exposes Borrow, ReturnBook, Reserve, CancelReservation, and RunExpirySweep together with the
// catalog, patron, and fine operations around them. Each operation builds a command or query with the
// current time, delegates to its feature handler, and signals the notification collaborator after the
// transition has been committed.
//
// Handlers bundles the feature handlers. With an Observability config every handler is wrapped with
// metrics and logging.
package service
