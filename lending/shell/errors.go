package shell

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// TranslateStoreError maps what is left of an event store error after the retries to the
// lending error taxonomy: a lost race becomes core.ErrConflict, a database failure core.ErrStoreUnavailable.
// Business errors, context errors, and nil pass through unchanged.
func TranslateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return fmt.Errorf("%w: %w", core.ErrConflict, err)
	case eventstore.IsStoreFailure(err):
		return fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	default:
		return err
	}
}
