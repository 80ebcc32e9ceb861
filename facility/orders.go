package facility

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// OrderStatus only ever moves forward: waiting, in progress, processed.
type OrderStatus int

const (
	OrderWaiting OrderStatus = iota
	OrderInProgress
	OrderProcessed
)

func (s OrderStatus) String() string {
	switch s {
	case OrderWaiting:
		return "waiting"
	case OrderInProgress:
		return "in_progress"
	case OrderProcessed:
		return "processed"
	default:
		return "unknown"
	}
}

// Order is placed by one customer at one venue.
type Order struct {
	id         uuid.UUID
	customerID uuid.UUID
	venue      string
	items      []MenuItem
	total      Money

	mu     sync.Mutex
	status OrderStatus
}

// NewOrder creates a waiting order.
func NewOrder(customerID uuid.UUID, venue string, items []MenuItem) *Order {
	return &Order{
		id:         uuid.New(),
		customerID: customerID,
		venue:      venue,
		items:      slices.Clone(items),
		total:      total(items),
	}
}

func (o *Order) ID() uuid.UUID {
	return o.id
}

func (o *Order) CustomerID() uuid.UUID {
	return o.customerID
}

func (o *Order) Items() []MenuItem {
	return o.items
}

func (o *Order) Total() Money {
	return o.total
}

func (o *Order) Status() OrderStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.status
}

func (o *Order) advance(to OrderStatus) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if to != o.status+1 {
		return false
	}

	o.status = to

	return true
}

// OrderQueue is a FIFO of orders served by staff goroutines.
type OrderQueue struct {
	mu     sync.Mutex
	orders []*Order
	ready  chan struct{}
	served atomic.Int64
}

func NewOrderQueue() *OrderQueue {
	return &OrderQueue{ready: make(chan struct{}, 1)}
}

// PlaceFunded debits the order total from ledger and enqueues the order in one critical section.
// Nothing changes if the ledger cannot cover the total.
func (q *OrderQueue) PlaceFunded(o *Order, ledger *Ledger) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !ledger.Debit(o.total) {
		return false
	}

	q.orders = append(q.orders, o)
	q.signal()

	return true
}

// Place enqueues an order that is paid for later.
func (q *OrderQueue) Place(o *Order) {
	q.mu.Lock()
	q.orders = append(q.orders, o)
	q.signal()
	q.mu.Unlock()
}

// Pending returns the number of orders not yet picked up by staff.
func (q *OrderQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.orders)
}

// Served returns the number of processed orders.
func (q *OrderQueue) Served() int64 {
	return q.served.Load()
}

// next pops the oldest order and marks it in progress.
func (q *OrderQueue) next() *Order {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.orders) == 0 {
		return nil
	}

	o := q.orders[0]
	q.orders = slices.Delete(q.orders, 0, 1)
	o.advance(OrderInProgress)

	if len(q.orders) > 0 {
		q.signal()
	}

	return o
}

func (q *OrderQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// serve is one staff member's loop.
func (q *OrderQueue) serve(ctx context.Context, env *environment, venue, venueType string) {
	for {
		o := q.next()
		if o == nil {
			select {
			case <-ctx.Done():
				return
			case <-q.ready:
				continue
			}
		}

		for _, item := range o.items {
			if !sleepContext(ctx, env.scaled(item.PrepTime)) {
				break
			}
		}

		// An order that was cut short by shutdown is still handed out.
		o.advance(OrderProcessed)
		q.served.Add(1)

		env.observer.debug(ctx, logMsgOrderServed, logAttrVenue, venue, logAttrOrderID, o.id.String())
		env.observer.count(ctx, metricOrdersServed, map[string]string{logAttrVenue: venue, logAttrVenueType: venueType})

		if ctx.Err() != nil {
			return
		}
	}
}
