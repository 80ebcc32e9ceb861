package facility

import (
	"time"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// MenuItem is one entry on a bar or restaurant menu.
type MenuItem struct {
	Name     string
	Price    Money
	PrepTime time.Duration
}

// Menu is read-only once the facility is built.
type Menu []MenuItem

// pick draws count items with repetition.
func (m Menu) pick(rnd Random, count int) []MenuItem {
	if len(m) == 0 || count <= 0 {
		return nil
	}

	items := make([]MenuItem, count)
	for i := range items {
		items[i] = m[rnd.IntN(len(m))]
	}

	return items
}

func total(items []MenuItem) Money {
	var sum Money
	for _, item := range items {
		sum += item.Price
	}

	return sum
}

func orderLines(items []MenuItem) []core.OrderLine {
	lines := make([]core.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, core.OrderLine{Name: item.Name, Price: item.Price.Cents()})
	}

	return lines
}
