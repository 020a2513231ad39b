package httpapi

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/features/query/bookavailability"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/ledgerhistory"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/patronaccount"
	"github.com/AntonStoeckl/library-lending-go/lending/service"
)

type borrowRequest struct {
	PatronID     string `json:"patronId"`
	BookID       string `json:"bookId"`
	DurationDays int    `json:"durationDays"`
}

type borrowResponse struct {
	BookID   string    `json:"bookId"`
	PatronID string    `json:"patronId"`
	DueAt    time.Time `json:"dueAt"`
	FromHold bool      `json:"fromHold"`
}

type returnResponse struct {
	BookID                string `json:"bookId"`
	PatronID              string `json:"patronId"`
	LateFee               string `json:"lateFee"`
	LateFeeCents          int64  `json:"lateFeeCents"`
	OutstandingFines      string `json:"outstandingFines"`
	OutstandingFinesCents int64  `json:"outstandingFinesCents"`
}

type reserveRequest struct {
	PatronID      string `json:"patronId"`
	BookID        string `json:"bookId"`
	ReservationID string `json:"reservationId"`
}

type reserveResponse struct {
	ReservationID  string     `json:"reservationId"`
	BookID         string     `json:"bookId"`
	PatronID       string     `json:"patronId"`
	State          string     `json:"state"`
	ReadyExpiresAt *time.Time `json:"readyExpiresAt,omitempty"`
}

type payFineRequest struct {
	PatronID              string `json:"patronId"`
	AmountCents           int64  `json:"amountCents"`
	Method                string `json:"method"`
	ExternalTransactionID string `json:"externalTransactionId"`
}

type payFineResponse struct {
	PatronID            string `json:"patronId"`
	RemainingFines      string `json:"remainingFines"`
	RemainingFinesCents int64  `json:"remainingFinesCents"`
}

type addBookRequest struct {
	BookID string `json:"bookId"`
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Copies int    `json:"copies"`
}

type addBookResponse struct {
	BookID      string `json:"bookId"`
	TotalCopies int    `json:"totalCopies"`
}

type registerPatronRequest struct {
	PatronID string `json:"patronId"`
	Name     string `json:"name"`
	Tier     string `json:"tier"`
}

type sweepResponse struct {
	Expired  int `json:"expired"`
	Promoted int `json:"promoted"`
	Failed   int `json:"failed"`
}

type readyHoldResponse struct {
	ReservationID  string    `json:"reservationId"`
	PatronID       string    `json:"patronId"`
	ReadyExpiresAt time.Time `json:"readyExpiresAt"`
}

type bookResponse struct {
	BookID           string             `json:"bookId"`
	ISBN             string             `json:"isbn"`
	Title            string             `json:"title"`
	Author           string             `json:"author"`
	TotalCopies      int                `json:"totalCopies"`
	AvailableCopies  int                `json:"availableCopies"`
	Status           string             `json:"status"`
	QueueLength      int                `json:"queueLength"`
	ReadyReservation *readyHoldResponse `json:"readyReservation,omitempty"`
}

func bookResponseFrom(availability bookavailability.BookAvailability) bookResponse {
	response := bookResponse{
		BookID:          availability.BookID,
		ISBN:            availability.ISBN,
		Title:           availability.Title,
		Author:          availability.Author,
		TotalCopies:     availability.TotalCopies,
		AvailableCopies: availability.AvailableCopies,
		Status:          availability.Status,
		QueueLength:     availability.QueueLength,
	}

	if hold := availability.ReadyReservation; hold != nil {
		response.ReadyReservation = &readyHoldResponse{
			ReservationID:  hold.ReservationID,
			PatronID:       hold.PatronID,
			ReadyExpiresAt: hold.ReadyExpiresAt,
		}
	}

	return response
}

type loanResponse struct {
	BookID     string    `json:"bookId"`
	BorrowedAt time.Time `json:"borrowedAt"`
	DueAt      time.Time `json:"dueAt"`
	Overdue    bool      `json:"overdue"`
}

type returnedLoanResponse struct {
	BookID       string    `json:"bookId"`
	BorrowedAt   time.Time `json:"borrowedAt"`
	DueAt        time.Time `json:"dueAt"`
	ReturnedAt   time.Time `json:"returnedAt"`
	LateFeeCents int64     `json:"lateFeeCents"`
}

type reservationResponse struct {
	ReservationID string    `json:"reservationId"`
	BookID        string    `json:"bookId"`
	State         string    `json:"state"`
	QueuedAt      time.Time `json:"queuedAt"`
}

type accountResponse struct {
	PatronID         string                 `json:"patronId"`
	Name             string                 `json:"name"`
	Tier             string                 `json:"tier"`
	BorrowLimit      int                    `json:"borrowLimit"`
	ReservationLimit int                    `json:"reservationLimit"`
	Fines            string                 `json:"fines"`
	FinesCents       int64                  `json:"finesCents"`
	BorrowingBlocked bool                   `json:"borrowingBlocked"`
	Loans            []loanResponse         `json:"loans"`
	Returned         []returnedLoanResponse `json:"returned"`
	Reservations     []reservationResponse  `json:"reservations"`
}

func accountResponseFrom(account patronaccount.PatronAccount) accountResponse {
	response := accountResponse{
		PatronID:         account.PatronID,
		Name:             account.Name,
		Tier:             account.Tier,
		BorrowLimit:      account.BorrowLimit,
		ReservationLimit: account.ReservationLimit,
		Fines:            account.Fines.String(),
		FinesCents:       account.Fines.Cents(),
		BorrowingBlocked: account.BorrowingBlocked,
		Loans:            make([]loanResponse, 0, len(account.Loans)),
		Returned:         make([]returnedLoanResponse, 0, len(account.Returned)),
		Reservations:     make([]reservationResponse, 0, len(account.Reservations)),
	}

	for _, loan := range account.Loans {
		response.Loans = append(response.Loans, loanResponse(loan))
	}

	for _, record := range account.Returned {
		response.Returned = append(response.Returned, returnedLoanResponse{
			BookID:       record.BookID,
			BorrowedAt:   record.BorrowedAt,
			DueAt:        record.DueAt,
			ReturnedAt:   record.ReturnedAt,
			LateFeeCents: record.LateFee.Cents(),
		})
	}

	for _, reservation := range account.Reservations {
		response.Reservations = append(response.Reservations, reservationResponse{
			ReservationID: reservation.ID,
			BookID:        reservation.BookID,
			State:         reservation.State,
			QueuedAt:      reservation.QueuedAt,
		})
	}

	return response
}

type ledgerEntryResponse struct {
	Sequence      uint      `json:"sequence"`
	Type          string    `json:"type"`
	PatronID      string    `json:"patronId"`
	BookID        string    `json:"bookId,omitempty"`
	ReservationID string    `json:"reservationId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	AmountCents   int64     `json:"amountCents"`
}

type ledgerResponse struct {
	Entries []ledgerEntryResponse `json:"entries"`
	Total   int                   `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

func ledgerResponseFrom(history ledgerhistory.LedgerHistory) ledgerResponse {
	response := ledgerResponse{
		Entries: make([]ledgerEntryResponse, 0, len(history.Entries)),
		Total:   history.Total,
		Limit:   history.Limit,
		Offset:  history.Offset,
	}

	for _, entry := range history.Entries {
		response.Entries = append(response.Entries, ledgerEntryResponse{
			Sequence:      entry.Sequence,
			Type:          entry.Type,
			PatronID:      entry.PatronID,
			BookID:        entry.BookID,
			ReservationID: entry.ReservationID,
			Timestamp:     entry.Timestamp,
			AmountCents:   entry.Amount.Cents(),
		})
	}

	return response
}

func sweepResponseFrom(result service.SweepResult) sweepResponse {
	return sweepResponse{
		Expired:  result.ExpiredCount,
		Promoted: result.PromotedCount,
		Failed:   result.FailedCount,
	}
}
