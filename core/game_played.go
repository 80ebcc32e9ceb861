package core

import (
	"time"
)

// GamePlayedEventType is the event type identifier.
const GamePlayedEventType = "GamePlayed"

// GamePlayed represents the outcome of one bet at a game table.
// Payout is zero for a lost bet.
type GamePlayed struct {
	CustomerID    CustomerIDString
	Game          string
	TableInstance int
	Amount        CentsInt64
	Won           bool
	Payout        CentsInt64
	OccurredAt    OccurredAtTS
}

// BuildGamePlayed creates a new GamePlayed event.
func BuildGamePlayed(
	customerID CustomerIDString,
	game string,
	tableInstance int,
	amount CentsInt64,
	won bool,
	payout CentsInt64,
	occurredAt time.Time,
) GamePlayed {

	return GamePlayed{
		CustomerID:    customerID,
		Game:          game,
		TableInstance: tableInstance,
		Amount:        amount,
		Won:           won,
		Payout:        payout,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e GamePlayed) IsEventType() string {
	return GamePlayedEventType
}

// HasOccurredAt returns when this event occurred.
func (e GamePlayed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e GamePlayed) IsErrorEvent() bool {
	return false
}

func (e GamePlayed) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

// Net is the change of the customer's balance caused by this game.
func (e GamePlayed) Net() CentsInt64 {
	return e.Payout - e.Amount
}
