package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/service"
)

// actingPatron resolves the patron a request acts for. Patrons act for themselves.
// Librarians name the patron in the body or, for requests without a body, in the patronId query parameter.
func actingPatron(c echo.Context, requested string) (core.PatronIDString, error) {
	identity, _ := IdentityFrom(c)

	if requested == "" {
		requested = c.QueryParam("patronId")
	}

	switch {
	case identity.Role == RoleLibrarian && requested == "":
		return "", fmt.Errorf("%w: patronId is required when a librarian acts for a patron", core.ErrInvalidInput)
	case identity.Role == RoleLibrarian:
		return requested, nil
	case requested != "" && requested != identity.PatronID:
		return "", ErrForbidden
	default:
		return identity.PatronID, nil
	}
}

func bind(c echo.Context, request any) error {
	if err := c.Bind(request); err != nil {
		return fmt.Errorf("%w: invalid request body", ErrBadRequest)
	}

	return nil
}

// Borrow handles POST /loans.
func (s *Server) Borrow(c echo.Context) error {
	var request borrowRequest
	if err := bind(c, &request); err != nil {
		return s.respondError(c, err)
	}

	patronID, err := actingPatron(c, request.PatronID)
	if err != nil {
		return s.respondError(c, err)
	}

	if request.BookID == "" {
		return invalidInput(c, "bookId is required")
	}

	result, err := s.service.Borrow(c.Request().Context(), patronID, request.BookID, request.DurationDays)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, borrowResponse{
		BookID:   request.BookID,
		PatronID: patronID,
		DueAt:    result.DueAt,
		FromHold: result.FromHold,
	})
}

// ReturnBook handles DELETE /loans/:bookId.
func (s *Server) ReturnBook(c echo.Context) error {
	patronID, err := actingPatron(c, "")
	if err != nil {
		return s.respondError(c, err)
	}

	bookID := c.Param("bookId")

	result, err := s.service.ReturnBook(c.Request().Context(), patronID, bookID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, returnResponse{
		BookID:                bookID,
		PatronID:              patronID,
		LateFee:               result.LateFee.String(),
		LateFeeCents:          result.LateFee.Cents(),
		OutstandingFines:      result.OutstandingFines.String(),
		OutstandingFinesCents: result.OutstandingFines.Cents(),
	})
}

// Reserve handles POST /reservations. A client supplied reservationId makes retries idempotent.
func (s *Server) Reserve(c echo.Context) error {
	var request reserveRequest
	if err := bind(c, &request); err != nil {
		return s.respondError(c, err)
	}

	patronID, err := actingPatron(c, request.PatronID)
	if err != nil {
		return s.respondError(c, err)
	}

	if request.BookID == "" {
		return invalidInput(c, "bookId is required")
	}

	var result service.ReserveResult

	if request.ReservationID != "" {
		result, err = s.service.ReserveWithID(c.Request().Context(), request.ReservationID, patronID, request.BookID)
	} else {
		result, err = s.service.Reserve(c.Request().Context(), patronID, request.BookID)
	}

	if err != nil {
		return s.respondError(c, err)
	}

	response := reserveResponse{
		ReservationID: result.ReservationID,
		BookID:        request.BookID,
		PatronID:      patronID,
		State:         result.State,
	}

	if !result.ReadyExpiresAt.IsZero() {
		response.ReadyExpiresAt = &result.ReadyExpiresAt
	}

	return c.JSON(http.StatusCreated, response)
}

// CancelReservation handles DELETE /reservations/:reservationId.
func (s *Server) CancelReservation(c echo.Context) error {
	patronID, err := actingPatron(c, "")
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.service.CancelReservation(c.Request().Context(), patronID, c.Param("reservationId")); err != nil {
		return s.respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// BookAvailability handles GET /books/:bookId.
func (s *Server) BookAvailability(c echo.Context) error {
	availability, err := s.service.BookAvailability(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, bookResponseFrom(availability))
}

// PatronAccount handles GET /me.
func (s *Server) PatronAccount(c echo.Context) error {
	patronID, err := actingPatron(c, "")
	if err != nil {
		return s.respondError(c, err)
	}

	account, err := s.service.PatronAccount(c.Request().Context(), patronID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, accountResponseFrom(account))
}

// LedgerHistory handles GET /me/ledger?type=&from=&until=&limit=&offset=. Times are RFC 3339.
func (s *Server) LedgerHistory(c echo.Context) error {
	patronID, err := actingPatron(c, "")
	if err != nil {
		return s.respondError(c, err)
	}

	filter := service.LedgerFilter{Type: c.QueryParam("type")}

	if filter.From, err = parseTimeParam(c, "from"); err != nil {
		return invalidInput(c, "from must be an RFC 3339 timestamp")
	}

	if filter.Until, err = parseTimeParam(c, "until"); err != nil {
		return invalidInput(c, "until must be an RFC 3339 timestamp")
	}

	if filter.Limit, err = parseIntParam(c, "limit"); err != nil {
		return invalidInput(c, "limit must be a number")
	}

	if filter.Offset, err = parseIntParam(c, "offset"); err != nil {
		return invalidInput(c, "offset must be a number")
	}

	history, err := s.service.LedgerHistory(c.Request().Context(), patronID, filter)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, ledgerResponseFrom(history))
}

// PayFine handles POST /me/fines/payments.
func (s *Server) PayFine(c echo.Context) error {
	var request payFineRequest
	if err := bind(c, &request); err != nil {
		return s.respondError(c, err)
	}

	patronID, err := actingPatron(c, request.PatronID)
	if err != nil {
		return s.respondError(c, err)
	}

	remaining, err := s.service.PayFine(
		c.Request().Context(),
		patronID,
		core.Cents(request.AmountCents),
		request.Method,
		request.ExternalTransactionID,
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, payFineResponse{
		PatronID:            patronID,
		RemainingFines:      remaining.String(),
		RemainingFinesCents: remaining.Cents(),
	})
}

// AddBookCopies handles POST /admin/books.
func (s *Server) AddBookCopies(c echo.Context) error {
	var request addBookRequest
	if err := bind(c, &request); err != nil {
		return s.respondError(c, err)
	}

	total, err := s.service.AddBookCopies(
		c.Request().Context(),
		request.BookID,
		request.ISBN,
		request.Title,
		request.Author,
		request.Copies,
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, addBookResponse{BookID: request.BookID, TotalCopies: total})
}

// RegisterPatron handles POST /admin/patrons.
func (s *Server) RegisterPatron(c echo.Context) error {
	var request registerPatronRequest
	if err := bind(c, &request); err != nil {
		return s.respondError(c, err)
	}

	if err := s.service.RegisterPatron(c.Request().Context(), request.PatronID, request.Name, request.Tier); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, request)
}

// RunExpirySweep handles POST /admin/sweeps.
func (s *Server) RunExpirySweep(c echo.Context) error {
	result, err := s.service.RunExpirySweep(c.Request().Context())
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, sweepResponseFrom(result))
}

func parseTimeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339, raw)
}

func parseIntParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}
