package loansduesoon

import (
	"time"
)

const (
	queryType = "LoansDueSoon"
)

// Query represents the intent to list open loans with a due date in [AsOf, AsOf+Window].
type Query struct {
	AsOf   time.Time
	Window time.Duration
}

// BuildQuery creates a new Query.
func BuildQuery(asOf time.Time, window time.Duration) Query {
	return Query{
		AsOf:   asOf,
		Window: window,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
