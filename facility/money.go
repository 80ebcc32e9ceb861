package facility

import (
	"fmt"
	"math"
)

// Money is an amount in cents.
type Money int64

// Dollars converts whole dollars to Money.
func Dollars(d int64) Money {
	return Money(d * 100)
}

// FromFloat converts a dollar amount like 5.99 to Money, rounding to the nearest cent.
func FromFloat(d float64) Money {
	return Money(math.Round(d * 100))
}

// Cents returns the raw amount.
func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}

	return fmt.Sprintf("%s$%d.%02d", sign, m/100, m%100)
}
