// Package bookavailability answers how many copies of a book can be borrowed right now,
// together with the derived status and the state of the book's reservation queue.
package bookavailability
