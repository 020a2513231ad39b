package ledger

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// EntryType is the kind of a ledger entry.
type EntryType = string

const (
	EntryBorrow            EntryType = "BORROW"
	EntryReturn            EntryType = "RETURN"
	EntryReserve           EntryType = "RESERVE"
	EntryCancelReservation EntryType = "CANCEL_RESERVATION"
	EntryFinePayment       EntryType = "FINE_PAYMENT"
)

// IsKnownEntryType reports whether entryType is one of the ledger entry types.
func IsKnownEntryType(entryType EntryType) bool {
	switch entryType {
	case EntryBorrow, EntryReturn, EntryReserve, EntryCancelReservation, EntryFinePayment:
		return true
	default:
		return false
	}
}

// Entry is one immutable record of a completed transition.
// Amount is the late fee for RETURN and the paid amount for FINE_PAYMENT, zero otherwise.
type Entry struct {
	Sequence      uint
	Type          EntryType
	PatronID      core.PatronIDString
	BookID        core.BookIDString
	ReservationID core.ReservationIDString
	Timestamp     time.Time
	Amount        core.Money
}

// EntryFrom maps the primary event of a transition to its ledger entry.
// The second return value is false for events that have no ledger entry.
func EntryFrom(sequence uint, event core.DomainEvent) (Entry, bool) {
	switch e := event.(type) {
	case core.BookBorrowed:
		return Entry{
			Sequence:      sequence,
			Type:          EntryBorrow,
			PatronID:      e.PatronID,
			BookID:        e.BookID,
			ReservationID: e.ReservationID,
			Timestamp:     e.OccurredAt,
		}, true

	case core.BookReturned:
		return Entry{
			Sequence:  sequence,
			Type:      EntryReturn,
			PatronID:  e.PatronID,
			BookID:    e.BookID,
			Timestamp: e.OccurredAt,
			Amount:    e.LateFee,
		}, true

	case core.BookReserved:
		return Entry{
			Sequence:      sequence,
			Type:          EntryReserve,
			PatronID:      e.PatronID,
			BookID:        e.BookID,
			ReservationID: e.ReservationID,
			Timestamp:     e.OccurredAt,
		}, true

	case core.ReservationCancelled:
		return Entry{
			Sequence:      sequence,
			Type:          EntryCancelReservation,
			PatronID:      e.PatronID,
			BookID:        e.BookID,
			ReservationID: e.ReservationID,
			Timestamp:     e.OccurredAt,
		}, true

	case core.FinePaid:
		return Entry{
			Sequence:  sequence,
			Type:      EntryFinePayment,
			PatronID:  e.PatronID,
			Timestamp: e.OccurredAt,
			Amount:    e.Amount,
		}, true

	default:
		return Entry{}, false
	}
}

// EventTypes returns the event types that produce ledger entries, optionally narrowed to one entry type.
func EventTypes(only EntryType) []core.EventTypeString {
	all := map[EntryType]core.EventTypeString{
		EntryBorrow:            core.BookBorrowedEventType,
		EntryReturn:            core.BookReturnedEventType,
		EntryReserve:           core.BookReservedEventType,
		EntryCancelReservation: core.ReservationCancelledEventType,
		EntryFinePayment:       core.FinePaidEventType,
	}

	if eventType, ok := all[only]; ok {
		return []core.EventTypeString{eventType}
	}

	return []core.EventTypeString{
		core.BookBorrowedEventType,
		core.BookReturnedEventType,
		core.BookReservedEventType,
		core.ReservationCancelledEventType,
		core.FinePaidEventType,
	}
}
