// Package payfine implements paying (part of) a patron's outstanding fines.
// Paying the whole balance lifts the block on new borrowing.
package payfine
