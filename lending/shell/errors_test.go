package shell_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

func Test_TranslateStoreError(t *testing.T) {
	// arrange
	businessErr := fmt.Errorf("%w: patron p-1", core.ErrNotFound)
	storeErr := errors.Join(eventstore.ErrAppendingEventFailed, errors.New("connection refused"))

	// act + assert
	assert.NoError(t, shell.TranslateStoreError(nil))

	conflict := shell.TranslateStoreError(eventstore.ErrConcurrencyConflict)
	assert.ErrorIs(t, conflict, core.ErrConflict)
	assert.ErrorIs(t, conflict, eventstore.ErrConcurrencyConflict)

	unavailable := shell.TranslateStoreError(storeErr)
	assert.ErrorIs(t, unavailable, core.ErrStoreUnavailable)

	assert.Equal(t, businessErr, shell.TranslateStoreError(businessErr))
	assert.Equal(t, context.Canceled, shell.TranslateStoreError(context.Canceled))
}

func Test_StatusOf(t *testing.T) {
	testCases := []struct {
		description string
		result      shell.HandlerResult
		err         error
		expected    string
	}{
		{"success", shell.HandlerResult{}, nil, shell.StatusSuccess},
		{"idempotent", shell.HandlerResult{Idempotent: true}, nil, shell.StatusIdempotent},
		{"business rejection", shell.HandlerResult{}, fmt.Errorf("%w: x", core.ErrLimitExceeded), shell.StatusRejected},
		{"conflict", shell.HandlerResult{}, fmt.Errorf("%w: x", core.ErrConflict), shell.StatusConcurrencyConflict},
		{"canceled", shell.HandlerResult{}, context.Canceled, shell.StatusCanceled},
		{"timeout", shell.HandlerResult{}, context.DeadlineExceeded, shell.StatusTimeout},
		{"store failure", shell.HandlerResult{}, core.ErrStoreUnavailable, shell.StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, shell.StatusOf(tc.result, tc.err))
		})
	}
}
