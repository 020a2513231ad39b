// Package sqliteengine provides the SQLite engine of the lending ledger, built on the pure Go
// modernc.org/sqlite driver and sqlx.
//
// SQLite allows a single writer at a time. Appends run in a BEGIN IMMEDIATE transaction
// (the DSN carries _txlock=immediate), read the filter's max sequence number, compare it with the
// expected one, and insert. Payload predicates use json_extract on the payload column.
//
// The engine serves single-node deployments and is the store behind the test suites:
// NewTestEventStore creates a fresh in-memory store per test.
package sqliteengine
