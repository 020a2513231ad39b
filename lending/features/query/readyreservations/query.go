package readyreservations

import (
	"time"
)

const (
	queryType = "ReadyReservations"
)

// Query represents the intent to list READY reservations.
// A zero ExpiredBefore lists all of them, otherwise only those whose hold ended before it.
type Query struct {
	ExpiredBefore time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(expiredBefore time.Time) Query {
	return Query{
		ExpiredBefore: expiredBefore,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
