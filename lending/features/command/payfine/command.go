package payfine

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "PayFine"
)

// Command represents a payment towards the fines of a patron.
type Command struct {
	PatronID              core.PatronIDString
	Amount                core.Money
	Method                core.PaymentMethod
	ExternalTransactionID string
	OccurredAt            core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	patronID core.PatronIDString,
	amount core.Money,
	method core.PaymentMethod,
	externalTransactionID string,
	occurredAt time.Time,
) Command {

	return Command{
		PatronID:              patronID,
		Amount:                amount,
		Method:                method,
		ExternalTransactionID: externalTransactionID,
		OccurredAt:            core.ToOccurredAt(occurredAt),
	}
}
