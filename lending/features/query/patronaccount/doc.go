// Package patronaccount projects the account of one patron: tier and limits, outstanding fines,
// open and past loans, and active reservations.
package patronaccount
