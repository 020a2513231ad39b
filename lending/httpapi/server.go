package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-lending-go/lending/service"
)

const (
	logMsgRequestFailed = "request failed"

	logAttrMethod = "method"
	logAttrPath   = "path"
	logAttrError  = "error"
)

// Server translates HTTP requests into calls of the lending service.
type Server struct {
	service *service.Service
	logger  *slog.Logger
}

// NewServer builds the echo instance with all routes registered.
func NewServer(svc *service.Service, jwtSecret []byte, logger *slog.Logger) *echo.Echo {
	s := &Server{service: svc, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	identity := JWTIdentity(jwtSecret)
	asPatron := []echo.MiddlewareFunc{identity, RequireRole(RolePatron, RoleLibrarian)}

	e.GET("/books/:bookId", s.BookAvailability, identity)

	e.POST("/loans", s.Borrow, asPatron...)
	e.DELETE("/loans/:bookId", s.ReturnBook, asPatron...)
	e.POST("/reservations", s.Reserve, asPatron...)
	e.DELETE("/reservations/:reservationId", s.CancelReservation, asPatron...)
	e.GET("/me", s.PatronAccount, asPatron...)
	e.GET("/me/ledger", s.LedgerHistory, asPatron...)
	e.POST("/me/fines/payments", s.PayFine, asPatron...)

	admin := e.Group("/admin", identity, RequireRole(RoleLibrarian))
	admin.POST("/books", s.AddBookCopies)
	admin.POST("/patrons", s.RegisterPatron)
	admin.POST("/sweeps", s.RunExpirySweep)

	return e
}
