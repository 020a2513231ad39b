package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("patrons may only act for themselves")
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Ordered, the first match wins.
var errorMappings = []errorMapping{
	{ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{core.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{core.ErrNotOwned, http.StatusForbidden, "NOT_OWNED"},
	{core.ErrInvalidInput, http.StatusUnprocessableEntity, "INVALID_INPUT"},
	{core.ErrAlreadyBorrowed, http.StatusConflict, "ALREADY_BORROWED"},
	{core.ErrAlreadyReserved, http.StatusConflict, "ALREADY_RESERVED"},
	{core.ErrLimitExceeded, http.StatusConflict, "LIMIT_EXCEEDED"},
	{core.ErrReservationLimitExceeded, http.StatusConflict, "RESERVATION_LIMIT_EXCEEDED"},
	{core.ErrFinesOutstanding, http.StatusConflict, "FINES_OUTSTANDING"},
	{core.ErrUnavailable, http.StatusConflict, "UNAVAILABLE"},
	{core.ErrNotBorrowed, http.StatusConflict, "NOT_BORROWED"},
	{core.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{core.ErrConflict, http.StatusConflict, "CONFLICT"},
	{core.ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
}

// StatusOf maps an error of the lending service to an HTTP status and an error code.
func StatusOf(err error) (int, string) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.err) {
			return mapping.status, mapping.code
		}
	}

	return http.StatusInternalServerError, "INTERNAL"
}

func errorBody(code string, message string) echo.Map {
	return echo.Map{"error": code, "message": message}
}

func (s *Server) respondError(c echo.Context, err error) error {
	status, code := StatusOf(err)

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), logMsgRequestFailed,
			logAttrMethod, c.Request().Method,
			logAttrPath, c.Path(),
			logAttrError, err.Error(),
		)
	}

	return c.JSON(status, errorBody(code, err.Error()))
}

func invalidInput(c echo.Context, message string) error {
	return c.JSON(http.StatusUnprocessableEntity, errorBody("INVALID_INPUT", message))
}
