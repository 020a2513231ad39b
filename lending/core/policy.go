package core

import "time"

const (
	DefaultLoanDays       = 14
	DefaultHoldDays       = 3
	DefaultFeePerDayCents = 10
	MaxLoanDays           = 365
)

// Policy holds the deployment parameters of the lending rules.
type Policy struct {
	LoanDuration time.Duration
	HoldWindow   time.Duration
	FeePerDay    Money
}

// DefaultPolicy lends for 14 days, holds READY reservations for 3 days, and charges 0.10 per late day.
func DefaultPolicy() Policy {
	return Policy{
		LoanDuration: DefaultLoanDays * day,
		HoldWindow:   DefaultHoldDays * day,
		FeePerDay:    Cents(DefaultFeePerDayCents),
	}
}

// LoanDurationFor returns the loan duration for the requested number of days,
// falling back to the policy default for zero or negative values. Callers reject more than MaxLoanDays.
func (p Policy) LoanDurationFor(durationDays int) time.Duration {
	if durationDays <= 0 {
		return p.LoanDuration
	}

	return time.Duration(durationDays) * day
}
