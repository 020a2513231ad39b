package ledgerhistory

import (
	"fmt"
	"slices"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/ledger"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// Project implements the query logic of a patron's ledger history.
//
// Query Logic:
//
//	GIVEN: the ledger relevant events of the patron, already narrowed by type and time range
//	WHEN: LedgerHistory query is executed
//	THEN: one page of entries, highest sequence first
func Project(history []shell.SequencedEvent, query Query) LedgerHistory {
	entries := make([]ledger.Entry, 0, len(history))

	for _, sequenced := range history {
		entry, ok := ledger.EntryFrom(sequenced.Sequence, sequenced.Event)
		if !ok || entry.PatronID != query.PatronID {
			continue
		}

		if query.Type != "" && entry.Type != query.Type {
			continue
		}

		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b ledger.Entry) int {
		switch {
		case a.Sequence > b.Sequence:
			return -1
		case a.Sequence < b.Sequence:
			return 1
		default:
			return 0
		}
	})

	total := len(entries)
	start := min(query.Offset, total)
	end := min(start+query.Limit, total)

	return LedgerHistory{
		Entries: entries[start:end],
		Total:   total,
		Limit:   query.Limit,
		Offset:  query.Offset,
	}
}

// Validate rejects entry types that do not exist.
func Validate(query Query) error {
	if query.Type != "" && !ledger.IsKnownEntryType(query.Type) {
		return fmt.Errorf("%w: unknown ledger entry type %q", core.ErrInvalidInput, query.Type)
	}

	if !query.From.IsZero() && !query.Until.IsZero() && query.Until.Before(query.From) {
		return fmt.Errorf("%w: until lies before from", core.ErrInvalidInput)
	}

	return nil
}

// BuildEventFilter selects the patron's ledger relevant events within the time range of the query.
func BuildEventFilter(query Query) eventstore.Filter {
	eventTypes := ledger.EventTypes(query.Type)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("PatronID", query.PatronID)).
		Finalize().
		WithOccurredBetween(query.From, query.Until)
}
