package patronaccount

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	queryType = "PatronAccount"
)

// Query represents the intent to look up a patron's account. AsOf decides which loans count as overdue.
type Query struct {
	PatronID core.PatronIDString
	AsOf     time.Time
}

// BuildQuery creates a new Query with the provided patron ID.
func BuildQuery(patronID core.PatronIDString, asOf time.Time) Query {
	return Query{
		PatronID: patronID,
		AsOf:     asOf,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
