package core

import (
	"slices"
	"time"
)

// FinePaidEventType is the event type identifier.
const FinePaidEventType = "FinePaid"

// PaymentMethod is how a fine was paid.
type PaymentMethod = string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCash       PaymentMethod = "cash"
	PaymentOnline     PaymentMethod = "online"
)

// IsKnownPaymentMethod reports whether method is accepted for fine payments.
func IsKnownPaymentMethod(method PaymentMethod) bool {
	return slices.Contains([]PaymentMethod{PaymentCreditCard, PaymentDebitCard, PaymentCash, PaymentOnline}, method)
}

// FinePaid represents when a patron pays (part of) the outstanding fines.
type FinePaid struct {
	EventType             EventTypeString
	PatronID              PatronIDString
	Amount                Money
	PaymentMethod         PaymentMethod
	ExternalTransactionID string `json:",omitempty"`
	OccurredAt            OccurredAtTS
}

// BuildFinePaid creates a new FinePaid event.
func BuildFinePaid(
	patronID PatronIDString,
	amount Money,
	method PaymentMethod,
	externalTransactionID string,
	occurredAt time.Time,
) FinePaid {

	return FinePaid{
		EventType:             FinePaidEventType,
		PatronID:              patronID,
		Amount:                amount,
		PaymentMethod:         method,
		ExternalTransactionID: externalTransactionID,
		OccurredAt:            ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FinePaid) IsEventType() string {
	return FinePaidEventType
}

// HasOccurredAt returns when this event occurred.
func (e FinePaid) HasOccurredAt() time.Time {
	return e.OccurredAt
}
