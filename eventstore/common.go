package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName        = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection       = errors.New("nil database connection supplied")
	ErrNoEventsToAppend            = errors.New("no events to append")
	ErrConcurrencyConflict         = errors.New("concurrency error, no rows were affected")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrAppendingEventFailed        = errors.New("appending event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint

// IsStoreFailure reports whether err originates from the database layer rather than from a lost race.
// Such failures are transient from the caller's point of view and may be retried.
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrQueryingEventsFailed) ||
		errors.Is(err, ErrAppendingEventFailed) ||
		errors.Is(err, ErrScanningDBRowFailed) ||
		errors.Is(err, ErrGettingRowsAffectedFailed)
}
