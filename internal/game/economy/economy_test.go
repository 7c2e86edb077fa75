package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wallet 测试用账户
type wallet struct{ cents Cents }

func (w *wallet) Balance() Cents     { return w.cents }
func (w *wallet) SetBalance(c Cents) { w.cents = c }

func wallets(balances ...Cents) []Account {
	out := make([]Account, len(balances))
	for i, b := range balances {
		out[i] = &wallet{cents: b}
	}
	return out
}

func TestCents_Conversion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Cents(50), FromDollars(0.50))
	assert.Equal(t, Cents(2000), FromDollars(20))
	assert.Equal(t, Cents(1999), FromDollars(19.99))
	assert.InDelta(t, 0.50, Cents(50).Dollars(), 1e-9)
	assert.InDelta(t, -3.25, Cents(-325).Dollars(), 1e-9)
}

func TestCents_Debt(t *testing.T) {
	t.Parallel()

	assert.False(t, Cents(0).InDebt())
	assert.False(t, Cents(100).InDebt())
	assert.True(t, Cents(-1).InDebt())
	assert.Equal(t, Cents(150), Cents(-150).Debt())
	assert.Equal(t, Cents(0), Cents(150).Debt())
}

func TestCollectAntes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		balances  []Cents
		ante      Cents
		pot       Cents
		wantPot   Cents
		wantPaid  int
		wantAfter []Cents
	}{
		{
			name:      "all can afford",
			balances:  []Cents{2000, 2000, 2000},
			ante:      50,
			wantPot:   150,
			wantPaid:  3,
			wantAfter: []Cents{1950, 1950, 1950},
		},
		{
			name:      "broke player skipped without deduction",
			balances:  []Cents{2000, 20, 2000},
			ante:      50,
			wantPot:   100,
			wantPaid:  2,
			wantAfter: []Cents{1950, 20, 1950},
		},
		{
			name:      "pot accumulates onto carry-over",
			balances:  []Cents{100, 100},
			ante:      50,
			pot:       300,
			wantPot:   400,
			wantPaid:  2,
			wantAfter: []Cents{50, 50},
		},
		{
			name:      "exact balance pays",
			balances:  []Cents{50},
			ante:      50,
			wantPot:   50,
			wantPaid:  1,
			wantAfter: []Cents{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			accounts := wallets(tt.balances...)
			pot, paid := CollectAntes(accounts, tt.ante, tt.pot)
			assert.Equal(t, tt.wantPot, pot)
			assert.Len(t, paid, tt.wantPaid)
			for i, a := range accounts {
				assert.Equal(t, tt.wantAfter[i], a.Balance())
			}
		})
	}
}

func TestSettleMultiHolder(t *testing.T) {
	t.Parallel()

	// Pot P with k holders: winner +P, every loser -P, new pot (k-1)*P
	winner := &wallet{cents: 1000}
	losers := wallets(1000, 200, 40)
	pot := Cents(300)

	res := SettleMultiHolder(winner, losers, pot)

	assert.Equal(t, Cents(300), res.WinAmount)
	assert.Equal(t, Cents(1300), winner.Balance())
	assert.Equal(t, []Cents{300, 300, 300}, res.Payments)
	assert.Equal(t, Cents(900), res.NewPot)

	// Losers pay in parallel, may go negative, no elimination here
	assert.Equal(t, Cents(700), losers[0].Balance())
	assert.Equal(t, Cents(-100), losers[1].Balance())
	assert.Equal(t, Cents(-260), losers[2].Balance())
}

func TestSettleMultiHolder_TwoHolders(t *testing.T) {
	t.Parallel()

	winner := &wallet{cents: 0}
	losers := wallets(500)

	res := SettleMultiHolder(winner, losers, 200)
	assert.Equal(t, Cents(200), winner.Balance())
	assert.Equal(t, Cents(300), losers[0].Balance())
	assert.Equal(t, Cents(200), res.NewPot)
}

func TestSettleDeckShowdown_HolderWins(t *testing.T) {
	t.Parallel()

	holder := &wallet{cents: 1000}
	res := SettleDeckShowdown(holder, 400, true)

	assert.True(t, res.HolderWon)
	assert.True(t, res.PendingEnd)
	assert.Equal(t, Cents(400), res.Amount)
	assert.Equal(t, Cents(0), res.NewPot)
	assert.Equal(t, Cents(1400), holder.Balance())
}

func TestSettleDeckShowdown_HolderLoses(t *testing.T) {
	t.Parallel()

	// Balance B, pot P: new balance B-P, new pot exactly P (not P+P)
	holder := &wallet{cents: 300}
	res := SettleDeckShowdown(holder, 500, false)

	assert.False(t, res.HolderWon)
	assert.False(t, res.PendingEnd)
	assert.Equal(t, Cents(500), res.Amount)
	assert.Equal(t, Cents(500), res.NewPot)
	assert.Equal(t, Cents(-200), holder.Balance())
	assert.True(t, res.WentIntoDebt)
}
