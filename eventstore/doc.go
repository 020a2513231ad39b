// Package eventstore provides the core abstractions of the lending ledger:
// an append-only event store with dynamic consistency boundaries.
//
// A consistency boundary is not a fixed stream but a Filter, usually
// "all events that mention this book OR this patron". A command handler
// queries the events matching its filter, decides, and appends the new events
// with the same filter and the sequence number it observed. The append fails
// with ErrConcurrencyConflict if any event matching the filter was appended
// in the meantime, which turns every lending transition into a compare-and-swap
// keyed by (book, patron).
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyPredicateOf(
//			P("BookID", bookID.String()),
//			P("PatronID", patronID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	// decide ...
//
//	err = store.Append(ctx, filter, maxSeq, newEvents...)
//
// Engines live in the sub packages postgresengine and sqliteengine.
package eventstore
