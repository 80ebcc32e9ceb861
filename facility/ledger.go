package facility

import "sync"

// Ledger is the balance of one agent. All operations serialize through one mutex,
// which is a leaf in the lock order: no other lock is ever taken while it is held.
type Ledger struct {
	mu      sync.Mutex
	balance Money
}

// NewLedger creates a ledger with the given opening balance; negative balances open at zero.
func NewLedger(balance Money) *Ledger {
	return &Ledger{balance: max(balance, 0)}
}

// Debit subtracts amount if the balance covers it and reports whether it did.
// A negative amount is rejected.
func (l *Ledger) Debit(amount Money) bool {
	if amount < 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.balance {
		return false
	}

	l.balance -= amount

	return true
}

// Credit adds amount. A negative amount is ignored.
func (l *Ledger) Credit(amount Money) {
	if amount < 0 {
		return
	}

	l.mu.Lock()
	l.balance += amount
	l.mu.Unlock()
}

// Balance returns a consistent snapshot of the balance.
func (l *Ledger) Balance() Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balance
}
