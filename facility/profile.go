package facility

// GamePreference weights how often a profile picks a game when it decides to play.
type GamePreference struct {
	Game   string
	Weight float64
}

// Profile holds the behavior parameters of one customer type. It is never mutated after construction.
type Profile struct {
	Name string

	Leave      float64
	Strategize float64
	Play       float64
	Order      float64
	Sleep      float64
	Restaurant float64
	Car        float64

	Bets        Range[Money]
	Games       []GamePreference
	SpawnWeight int
}

// Decision is the outcome of one pass through the decision order.
type Decision int

const (
	DecideIdle Decision = iota
	DecideOutOfMoney
	DecideLeave
	DecideStrategicExit
	DecidePlay
	DecideOrder
	DecideSleep
	DecideRestaurant
)

func (d Decision) String() string {
	switch d {
	case DecideOutOfMoney:
		return "out_of_money"
	case DecideLeave:
		return "leave"
	case DecideStrategicExit:
		return "strategic_exit"
	case DecidePlay:
		return "play"
	case DecideOrder:
		return "order"
	case DecideSleep:
		return "sleep"
	case DecideRestaurant:
		return "restaurant"
	default:
		return "idle"
	}
}

// Decide rolls the profile's probabilities in the fixed evaluation order.
// The balance check comes first, so no roll is spent on a customer who cannot pay for anything.
// The sleep roll is skipped entirely while a room booking is active.
func (p *Profile) Decide(rnd Random, balance Money, hasRoom bool) Decision {
	switch {
	case balance <= 0:
		return DecideOutOfMoney
	case rnd.Float64() < p.Leave:
		return DecideLeave
	case rnd.Float64() < p.Strategize:
		return DecideStrategicExit
	case rnd.Float64() < p.Play:
		return DecidePlay
	case rnd.Float64() < p.Order:
		return DecideOrder
	case !hasRoom && rnd.Float64() < p.Sleep:
		return DecideSleep
	case rnd.Float64() < p.Restaurant:
		return DecideRestaurant
	default:
		return DecideIdle
	}
}

// ChooseGame picks a game by weighted preference. It returns false if the profile has no positive weight.
func (p *Profile) ChooseGame(rnd Random) (string, bool) {
	var total float64
	for _, g := range p.Games {
		if g.Weight > 0 {
			total += g.Weight
		}
	}

	if total <= 0 {
		return "", false
	}

	roll := rnd.Float64() * total
	last := ""

	for _, g := range p.Games {
		if g.Weight <= 0 {
			continue
		}

		last = g.Game
		if roll < g.Weight {
			return g.Game, true
		}

		roll -= g.Weight
	}

	return last, true
}

// BetPolicy chooses a bet amount for the current balance.
type BetPolicy func(rnd Random, balance Money) Money

// RangeBet draws a bet from bounds, clamped to the balance so a customer never offers more than they hold.
func RangeBet(bounds Range[Money]) BetPolicy {
	return func(rnd Random, balance Money) Money {
		return Between(min(bounds.Min, balance), min(bounds.Max, balance)).Draw(rnd)
	}
}

// FixedBet always bets amount, regardless of the balance.
func FixedBet(amount Money) BetPolicy {
	return func(Random, Money) Money {
		return amount
	}
}
