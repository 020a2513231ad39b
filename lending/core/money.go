package core

import (
	"fmt"
	"time"
)

// Money is an amount in cents. Fee arithmetic is exact integer arithmetic.
type Money int64

// Cents builds a Money amount.
func Cents(cents int64) Money {
	return Money(cents)
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) IsPositive() bool {
	return m > 0
}

// String renders the amount with two decimals, e.g. "0.30".
func (m Money) String() string {
	sign := ""
	value := int64(m)

	if value < 0 {
		sign = "-"
		value = -value
	}

	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}

const day = 24 * time.Hour

// LateFee computes max(0, ceil((returnedAt - dueAt) / 1 day)) * feePerDay.
func LateFee(dueAt time.Time, returnedAt time.Time, feePerDay Money) Money {
	overdue := returnedAt.Sub(dueAt)
	if overdue <= 0 {
		return 0
	}

	days := int64(overdue / day)
	if overdue%day != 0 {
		days++
	}

	return Money(days) * feePerDay
}
