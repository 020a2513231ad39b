// Package readyreservations lists READY reservations across all books.
// The expiry sweeper uses it with ExpiredBefore set to find holds that ran out.
package readyreservations
