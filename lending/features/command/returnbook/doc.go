// Package returnbook implements the Return use case.
//
// Returning a late copy accrues a fee of feePerDay for every started day past the due date.
// The released copy goes to the earliest PENDING reservation of the book, if there is one.
package returnbook
