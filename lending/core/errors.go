package core

import "errors"

// Business errors. Decide functions wrap them with details via fmt.Errorf("%w: ...").
var (
	ErrNotFound                 = errors.New("not found")
	ErrAlreadyBorrowed          = errors.New("already borrowed")
	ErrAlreadyReserved          = errors.New("already reserved")
	ErrLimitExceeded            = errors.New("borrow limit exceeded")
	ErrReservationLimitExceeded = errors.New("reservation limit exceeded")
	ErrFinesOutstanding         = errors.New("fines outstanding")
	ErrUnavailable              = errors.New("no copy available")
	ErrNotBorrowed              = errors.New("not borrowed")
	ErrNotOwned                 = errors.New("reservation not owned by patron")
	ErrInvalidState             = errors.New("invalid reservation state")
	ErrInvalidInput             = errors.New("invalid input")
)

// Infrastructure outcomes, surfaced after the command handlers exhausted their retries.
var (
	// ErrConflict means the transition lost a concurrent race; the caller may retry.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrStoreUnavailable means the event store could not be reached or failed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsBusinessError reports whether err is one of the business rule violations above.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrAlreadyBorrowed, ErrAlreadyReserved, ErrLimitExceeded, ErrReservationLimitExceeded,
		ErrFinesOutstanding, ErrUnavailable, ErrNotBorrowed, ErrNotOwned, ErrInvalidState, ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
