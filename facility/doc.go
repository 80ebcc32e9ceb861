// Package facility is the concurrent core of the casino floor simulation.
//
// Customers (Agent) run as one goroutine each and compete for capacity-bounded resources:
// parking slots and hotel rooms (Pool), game tables with FIFO wait-lists drained by dealer
// goroutines (GameTable), restaurant seats (Restaurant) and bar order queues (Bar, OrderQueue).
// The lobby (Registry) is the set of customers currently free to act.
//
// An agent is a member of exactly one collection at a time. Every move between the lobby and a
// resource goes through Registry.MoveOut and Registry.MoveIn, which take the locks in the one
// global order: resource mutex, then registry mutex, then (leaf) ledger mutex.
//
// Expected outcomes like insufficient funds, full parking or a full restaurant are booleans,
// never errors. Errors are reserved for layout validation and invariant audits.
package facility
