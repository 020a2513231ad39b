package bookavailability

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	queryType = "BookAvailability"
)

// Query represents the intent to look up the availability of one book.
type Query struct {
	BookID core.BookIDString
}

// BuildQuery creates a new Query with the provided book ID.
func BuildQuery(bookID core.BookIDString) Query {
	return Query{
		BookID: bookID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
