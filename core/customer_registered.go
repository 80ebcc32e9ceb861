package core

import (
	"time"
)

// CustomerRegisteredEventType is the event type identifier.
const CustomerRegisteredEventType = "CustomerRegistered"

// CustomerRegistered represents a customer being admitted to the simulation with a profile and a wallet.
type CustomerRegistered struct {
	CustomerID CustomerIDString
	Profile    string
	Balance    CentsInt64
	HasCar     bool
	OccurredAt OccurredAtTS
}

// BuildCustomerRegistered creates a new CustomerRegistered event.
func BuildCustomerRegistered(
	customerID CustomerIDString,
	profile string,
	balance CentsInt64,
	hasCar bool,
	occurredAt time.Time,
) CustomerRegistered {

	return CustomerRegistered{
		CustomerID: customerID,
		Profile:    profile,
		Balance:    balance,
		HasCar:     hasCar,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CustomerRegistered) IsEventType() string {
	return CustomerRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e CustomerRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CustomerRegistered) IsErrorEvent() bool {
	return false
}

func (e CustomerRegistered) HasCustomerID() CustomerIDString {
	return e.CustomerID
}
