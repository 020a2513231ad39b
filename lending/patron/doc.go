// Package patron projects a patron's account (membership, loans, reservations, and fines) from the event history.
package patron
