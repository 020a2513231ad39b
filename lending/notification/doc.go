// Package notification tells patrons about changes they have to act on: a reserved copy waiting
// for pickup, or a loan falling due soon.
//
// Notifications are sent after the transition that caused them committed. Delivery is best effort.
// The Dispatcher buffers notifications and hands them to a Sender in the background, so a slow or
// failing broker never holds up a borrow or a return.
package notification
