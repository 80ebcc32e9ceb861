package facility

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Ledger_Debit(t *testing.T) {
	tests := []struct {
		name        string
		balance     Money
		amount      Money
		wantOK      bool
		wantBalance Money
	}{
		{name: "covered", balance: Dollars(100), amount: Dollars(30), wantOK: true, wantBalance: Dollars(70)},
		{name: "exact", balance: Dollars(10), amount: Dollars(10), wantOK: true, wantBalance: 0},
		{name: "insufficient", balance: Dollars(10), amount: Dollars(15), wantOK: false, wantBalance: Dollars(10)},
		{name: "negative amount", balance: Dollars(10), amount: -1, wantOK: false, wantBalance: Dollars(10)},
		{name: "zero amount", balance: 0, amount: 0, wantOK: true, wantBalance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(tt.balance)

			assert.Equal(t, tt.wantOK, l.Debit(tt.amount))
			assert.Equal(t, tt.wantBalance, l.Balance())
		})
	}
}

func Test_Ledger_Credit_IgnoresNegativeAmounts(t *testing.T) {
	l := NewLedger(Dollars(1))

	l.Credit(Dollars(2))
	l.Credit(-Dollars(100))

	assert.Equal(t, Dollars(3), l.Balance())
}

func Test_NewLedger_OpensNegativeBalancesAtZero(t *testing.T) {
	assert.Equal(t, Money(0), NewLedger(-5).Balance())
}

func Test_Ledger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	l := NewLedger(Dollars(500))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if l.Debit(Dollars(10)) {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	assert.Equal(t, Money(0), l.Balance())
}

func Test_Money_String(t *testing.T) {
	assert.Equal(t, "$5.99", FromFloat(5.99).String())
	assert.Equal(t, "$120.00", Dollars(120).String())
	assert.Equal(t, "-$0.05", Money(-5).String())
}

func Test_Range_Draw_StaysWithinBounds(t *testing.T) {
	rnd := NewSeededRandom(7)
	r := Between(3, 9)

	for range 200 {
		v := r.Draw(rnd)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 9)
	}

	assert.Equal(t, 4, Between(4, 4).Draw(rnd))
	assert.Equal(t, 4, Between(4, 1).Draw(rnd))
	assert.False(t, Between(4, 1).Valid())
	assert.False(t, Between(-1, 1).Valid())
}
