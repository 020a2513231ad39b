// Package httpapi is the thin HTTP adapter of the lending system.
//
// It maps requests onto service.Service and business errors onto status codes, nothing more.
// Callers are identified by an HS256 bearer token issued by the identity collaborator. The token's
// "sub" claim is the patron id and its "role" claim is either "patron" or "librarian".
// A librarian may act for a patron by passing patronId in the request body or query.
package httpapi
