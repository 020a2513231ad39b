// Package ledger derives the patron-facing lending ledger from the event history.
//
// Every completed Borrow, Return, Reserve, CancelReservation, and fine payment has exactly one
// primary event, which maps 1:1 to a ledger Entry. Internal events (promotion, expiry, catalog,
// and membership changes) produce no entry.
package ledger
