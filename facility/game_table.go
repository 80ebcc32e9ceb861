package facility

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Dealer is one table instance of a game. All dealers of a game drain the same wait-list.
type Dealer struct {
	Instance int
	Capacity int
}

// Outcome is the result of one agent's turn in a dispatch round.
type Outcome struct {
	Agent  *Agent
	Bet    Money
	Played bool
	Won    bool
	Payout Money
}

// GameTable is a named game with a FIFO wait-list. The mutex guards waiting and playing;
// an agent popped for a round stays in playing until it is returned to the lobby.
type GameTable struct {
	name           string
	handle         TableHandle
	winProbability float64
	payout         int64
	dealers        []Dealer

	registry *Registry
	env      *environment

	mu       sync.Mutex
	waiting  []*Agent
	playing  map[uuid.UUID]*Agent
	arrivals chan struct{}
}

func newGameTable(env *environment, name string, winProbability float64, payout int64, dealers []Dealer) *GameTable {
	return &GameTable{
		name:           name,
		winProbability: winProbability,
		payout:         payout,
		dealers:        dealers,
		env:            env,
		playing:        make(map[uuid.UUID]*Agent),
		arrivals:       make(chan struct{}, 1),
	}
}

func (t *GameTable) Name() string {
	return t.name
}

func (t *GameTable) Handle() TableHandle {
	return t.handle
}

func (t *GameTable) Dealers() []Dealer {
	return t.dealers
}

// Waiting returns the number of agents in the wait-list.
func (t *GameTable) Waiting() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.waiting)
}

// Playing returns the number of agents being resolved right now.
func (t *GameTable) Playing() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.playing)
}

// Join moves a from the lobby to the end of the wait-list and wakes a dealer.
func (t *GameTable) Join(a *Agent) bool {
	ok := t.registry.MoveOut(&t.mu, a, Waiting, func() bool {
		t.waiting = append(t.waiting, a)
		return true
	})

	if ok {
		t.signal()
	}

	return ok
}

// withdraw takes a still waiting agent back to the lobby. It reports false once a dealer has popped a.
func (t *GameTable) withdraw(a *Agent) bool {
	return t.registry.MoveIn(&t.mu, a, func() bool {
		i := slices.Index(t.waiting, a)
		if i < 0 {
			return false
		}

		t.waiting = slices.Delete(t.waiting, i, i+1)

		return true
	})
}

func (t *GameTable) signal() {
	select {
	case t.arrivals <- struct{}{}:
	default:
	}
}

// DispatchRound pops up to dealer.Capacity agents in arrival order, resolves their bets
// concurrently and returns every one of them to the lobby, played or not.
func (t *GameTable) DispatchRound(ctx context.Context, dealer Dealer) []Outcome {
	t.mu.Lock()
	n := min(len(t.waiting), dealer.Capacity)
	batch := slices.Clone(t.waiting[:n])
	t.waiting = slices.Delete(t.waiting, 0, n)
	for _, a := range batch {
		t.playing[a.id] = a
		a.setLocation(InResource)
	}
	remaining := len(t.waiting)
	t.mu.Unlock()

	if remaining > 0 {
		t.signal()
	}

	if n == 0 {
		return nil
	}

	outcomes := make([]Outcome, n)

	var g errgroup.Group
	for i, a := range batch {
		g.Go(func() error {
			outcomes[i] = t.resolve(ctx, dealer, a)
			return nil
		})
	}
	_ = g.Wait()

	for _, a := range batch {
		t.registry.MoveIn(&t.mu, a, func() bool {
			delete(t.playing, a.id)
			return true
		})
		a.wakeUp()
	}

	t.env.observer.debug(ctx, logMsgRoundDealt,
		logAttrGame, t.name, logAttrTable, dealer.Instance, logAttrPlayers, n)

	return outcomes
}

// resolve touches only a's own ledger.
func (t *GameTable) resolve(ctx context.Context, dealer Dealer, a *Agent) Outcome {
	balance := a.ledger.Balance()
	bet := a.bet(t.env.rnd, balance)
	outcome := Outcome{Agent: a, Bet: bet}
	labels := map[string]string{logAttrGame: t.name}

	if bet <= 0 || !a.ledger.Debit(bet) {
		t.env.record(ctx, core.BuildBetDeclined(
			a.customerID(), t.name, dealer.Instance, bet.Cents(), balance.Cents(),
			ErrInsufficientFunds.Error(), t.env.now()))
		t.env.observer.count(ctx, metricBetsDeclined, labels)

		return outcome
	}

	outcome.Played = true
	outcome.Won = t.env.rnd.Float64() < t.winProbability

	if outcome.Won {
		outcome.Payout = bet * Money(t.payout)
		a.ledger.Credit(outcome.Payout)
	}

	t.env.record(ctx, core.BuildGamePlayed(
		a.customerID(), t.name, dealer.Instance, bet.Cents(), outcome.Won, outcome.Payout.Cents(), t.env.now()))

	labels["won"] = strconv.FormatBool(outcome.Won)
	t.env.observer.count(ctx, metricGameRounds, labels)

	return outcome
}

// deal is one dealer's loop. It blocks on the arrivals channel while the wait-list is empty.
func (t *GameTable) deal(ctx context.Context, dealer Dealer) {
	for {
		if t.Waiting() == 0 {
			select {
			case <-ctx.Done():
				return
			case <-t.arrivals:
				continue
			}
		}

		if ctx.Err() != nil {
			return
		}

		t.DispatchRound(ctx, dealer)

		if !t.env.pause(ctx, t.env.pacing.RoundPause) {
			return
		}
	}
}
