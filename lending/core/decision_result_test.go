package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

func Test_SuccessDecision_Keeps_Event_Order(t *testing.T) {
	// arrange
	now := time.Now()
	returned := core.BuildBookReturned("b-1", "p-1", now, 0, 0, now)
	promoted := core.BuildReservationBecameReady("r-1", "b-1", "p-2", now.Add(72*time.Hour), now)

	// act
	result := core.SuccessDecision(returned, promoted)

	// assert
	assert.True(t, result.HasEventsToAppend())
	assert.False(t, result.IsIdempotent())
	assert.NoError(t, result.HasError())
	assert.Equal(t, core.DomainEvents{returned, promoted}, result.Events)
}

func Test_ErrorDecision_Has_No_Events(t *testing.T) {
	// act
	result := core.ErrorDecision(fmt.Errorf("%w: book b-1", core.ErrUnavailable))

	// assert
	assert.False(t, result.HasEventsToAppend())
	assert.ErrorIs(t, result.HasError(), core.ErrUnavailable)
	assert.True(t, core.IsBusinessError(result.HasError()))
}

func Test_IdempotentDecision(t *testing.T) {
	// act
	result := core.IdempotentDecision()

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
	assert.NoError(t, result.HasError())
}

func Test_IsBusinessError_Excludes_Infrastructure(t *testing.T) {
	assert.False(t, core.IsBusinessError(core.ErrConflict))
	assert.False(t, core.IsBusinessError(core.ErrStoreUnavailable))
	assert.False(t, core.IsBusinessError(nil))
}

func Test_Policy_LoanDurationFor(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()

	// act + assert
	assert.Equal(t, 14*24*time.Hour, policy.LoanDurationFor(0))
	assert.Equal(t, 7*24*time.Hour, policy.LoanDurationFor(7))
	assert.Equal(t, 3*24*time.Hour, policy.HoldWindow)
	assert.Equal(t, core.Cents(10), policy.FeePerDay)
}

func Test_ToOccurredAt_Normalizes(t *testing.T) {
	// arrange
	local := time.Date(2025, time.June, 1, 10, 0, 0, 1500, time.FixedZone("CEST", 2*3600))

	// act
	normalized := core.ToOccurredAt(local)

	// assert
	assert.Equal(t, time.UTC, normalized.Location())
	assert.Equal(t, 1000, normalized.Nanosecond())
	assert.True(t, normalized.Equal(local.Truncate(time.Microsecond)))
}
