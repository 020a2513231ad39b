// Package addbookcopies implements adding a book to the catalog or adding copies to a known book.
package addbookcopies
