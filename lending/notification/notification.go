package notification

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// Kind tells what a notification is about.
type Kind = string

const (
	KindReservationReady Kind = "RESERVATION_READY"
	KindLoanDueSoon      Kind = "LOAN_DUE_SOON"
)

// Notification is the message sent to a patron.
// For RESERVATION_READY, Deadline is the end of the hold window, for LOAN_DUE_SOON it is the due date.
type Notification struct {
	Kind          Kind                     `json:"kind"`
	PatronID      core.PatronIDString      `json:"patronId"`
	BookID        core.BookIDString        `json:"bookId"`
	ReservationID core.ReservationIDString `json:"reservationId,omitempty"`
	Deadline      time.Time                `json:"deadline"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ReservationReady builds the notification for a promoted or immediately READY reservation.
func ReservationReady(event core.ReservationBecameReady) Notification {
	return Notification{
		Kind:          KindReservationReady,
		PatronID:      event.PatronID,
		BookID:        event.BookID,
		ReservationID: event.ReservationID,
		Deadline:      event.ReadyExpiresAt,
		CreatedAt:     event.OccurredAt,
	}
}

// LoanDueSoon builds the reminder for an open loan.
func LoanDueSoon(patronID core.PatronIDString, bookID core.BookIDString, dueAt time.Time, now time.Time) Notification {
	return Notification{
		Kind:      KindLoanDueSoon,
		PatronID:  patronID,
		BookID:    bookID,
		Deadline:  dueAt,
		CreatedAt: now,
	}
}

// Sender delivers one notification.
type Sender interface {
	Send(ctx context.Context, notification Notification) error
}

// Notifier accepts notifications without blocking. The Dispatcher implements it.
type Notifier interface {
	Notify(notification Notification) bool
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// Notify drops the notification.
func (Discard) Notify(Notification) bool {
	return false
}
