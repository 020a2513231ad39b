package ledgerhistory

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/ledger"
)

const (
	queryType = "LedgerHistory"

	DefaultLimit = 50
	MaxLimit     = 200
)

// Query represents the intent to read a page of a patron's ledger.
// An empty Type selects all entry types, zero From or Until leave that side of the time range open.
type Query struct {
	PatronID core.PatronIDString
	Type     ledger.EntryType
	From     time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// BuildQuery creates a new Query. A Limit of zero or less becomes DefaultLimit, more than MaxLimit becomes MaxLimit.
func BuildQuery(
	patronID core.PatronIDString,
	entryType ledger.EntryType,
	from time.Time,
	until time.Time,
	limit int,
	offset int,
) Query {

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Query{
		PatronID: patronID,
		Type:     entryType,
		From:     from,
		Until:    until,
		Limit:    limit,
		Offset:   max(offset, 0),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
