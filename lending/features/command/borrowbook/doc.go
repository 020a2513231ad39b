// Package borrowbook implements the Borrow use case.
//
// A patron borrows a copy of a book, either the copy held for their READY reservation or one
// from general availability. The checks run in a fixed order so that callers always see the
// same error for the same situation: NotFound, FinesOutstanding, AlreadyBorrowed, LimitExceeded,
// and finally Unavailable.
//
// The consistency boundary is every event of the book plus every event of the patron, so two
// patrons racing for the last copy contend on the book, and one patron borrowing two books at
// once contends on the patron's loan count.
package borrowbook
