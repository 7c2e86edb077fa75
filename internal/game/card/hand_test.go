package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hand 构造测试手牌
func hand(cards ...Card) []Card { return cards }

func c(r Rank, s Suit) Card { return Card{Suit: s, Rank: r} }

func TestEvaluate_InvalidHandSize(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(hand(c(Rank2, Hearts), c(Rank3, Clubs)), false)
	assert.ErrorIs(t, err, ErrInvalidHandSize)

	_, err = Evaluate(nil, true)
	assert.ErrorIs(t, err, ErrInvalidHandSize)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cards        []Card
		nothingRound bool
		category     Category
		rank         int
		tiebreakers  []int
	}{
		{
			name:        "three aces standard",
			cards:       hand(c(RankA, Hearts), c(RankA, Clubs), c(RankA, Spades)),
			category:    ThreeOfKind,
			rank:        14,
			tiebreakers: []int{14},
		},
		{
			name:         "three aces nothing round",
			cards:        hand(c(RankA, Hearts), c(RankA, Clubs), c(RankA, Spades)),
			nothingRound: true,
			category:     ThreeOfKind,
			rank:         14,
			tiebreakers:  []int{14},
		},
		{
			name:        "pair of sevens with deuce kicker",
			cards:       hand(c(Rank7, Hearts), c(Rank7, Clubs), c(Rank2, Spades)),
			category:    Pair,
			rank:        7,
			tiebreakers: []int{7, 2},
		},
		{
			name:         "pair of sevens nothing round",
			cards:        hand(c(Rank7, Hearts), c(Rank7, Clubs), c(Rank2, Spades)),
			nothingRound: true,
			category:     Pair,
			rank:         7,
			tiebreakers:  []int{7, 2},
		},
		{
			name:        "suited 4-5-6 standard is a straight flush",
			cards:       hand(c(Rank4, Clubs), c(Rank5, Clubs), c(Rank6, Clubs)),
			category:    StraightFlush,
			rank:        6,
			tiebreakers: []int{6},
		},
		{
			name:         "suited 4-5-6 nothing round degrades to high card",
			cards:        hand(c(Rank4, Clubs), c(Rank5, Clubs), c(Rank6, Clubs)),
			nothingRound: true,
			category:     HighCard,
			rank:         6,
			tiebreakers:  []int{6, 5, 4},
		},
		{
			name:        "wheel A-2-3 ranks as a 3-high straight",
			cards:       hand(c(RankA, Hearts), c(Rank2, Clubs), c(Rank3, Spades)),
			category:    Straight,
			rank:        3,
			tiebreakers: []int{3},
		},
		{
			name:        "offsuit J-Q-K straight",
			cards:       hand(c(RankJ, Hearts), c(RankK, Clubs), c(RankQ, Spades)),
			category:    Straight,
			rank:        13,
			tiebreakers: []int{13},
		},
		{
			name:        "flush keeps all three tiebreakers",
			cards:       hand(c(Rank2, Spades), c(Rank9, Spades), c(RankK, Spades)),
			category:    Flush,
			rank:        13,
			tiebreakers: []int{13, 9, 2},
		},
		{
			name:        "plain high card",
			cards:       hand(c(Rank2, Spades), c(Rank9, Hearts), c(RankK, Clubs)),
			category:    HighCard,
			rank:        13,
			tiebreakers: []int{13, 9, 2},
		},
		{
			name:         "physical flush in nothing round is high card",
			cards:        hand(c(Rank2, Spades), c(Rank9, Spades), c(RankK, Spades)),
			nothingRound: true,
			category:     HighCard,
			rank:         13,
			tiebreakers:  []int{13, 9, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			eval, err := Evaluate(tt.cards, tt.nothingRound)
			require.NoError(t, err)
			assert.Equal(t, tt.category, eval.Category)
			assert.Equal(t, tt.rank, eval.Rank)
			assert.Equal(t, tt.tiebreakers, eval.Tiebreakers)
		})
	}
}

func TestCompare_CategoryOrdering(t *testing.T) {
	t.Parallel()

	// 按牌型强度升序排列的代表手牌
	hands := [][]Card{
		hand(c(Rank2, Spades), c(Rank9, Hearts), c(RankK, Clubs)),  // high card
		hand(c(Rank7, Hearts), c(Rank7, Clubs), c(Rank2, Spades)),  // pair
		hand(c(Rank2, Spades), c(Rank9, Spades), c(RankK, Spades)), // flush
		hand(c(Rank4, Clubs), c(Rank5, Hearts), c(Rank6, Spades)),  // straight
		hand(c(Rank3, Hearts), c(Rank3, Clubs), c(Rank3, Spades)),  // three of a kind
		hand(c(Rank4, Clubs), c(Rank5, Clubs), c(Rank6, Clubs)),    // straight flush
	}

	evals := make([]Evaluation, len(hands))
	for i, h := range hands {
		eval, err := Evaluate(h, false)
		require.NoError(t, err)
		evals[i] = eval
	}

	for i := 0; i < len(evals); i++ {
		for j := 0; j < len(evals); j++ {
			switch {
			case i < j:
				assert.Equal(t, -1, Compare(evals[i], evals[j]))
			case i > j:
				assert.Equal(t, 1, Compare(evals[i], evals[j]))
			default:
				assert.Equal(t, 0, Compare(evals[i], evals[j]))
			}
		}
	}
}

func TestCompare_Tiebreakers(t *testing.T) {
	t.Parallel()

	// Same pair, kicker decides
	a, err := Evaluate(hand(c(Rank7, Hearts), c(Rank7, Clubs), c(RankQ, Spades)), false)
	require.NoError(t, err)
	b, err := Evaluate(hand(c(Rank7, Spades), c(Rank7, Diamonds), c(Rank2, Hearts)), false)
	require.NoError(t, err)
	assert.Equal(t, 1, Compare(a, b))
	assert.Equal(t, -1, Compare(b, a))

	// Identical values throughout is an exact tie
	x, err := Evaluate(hand(c(Rank9, Hearts), c(Rank5, Clubs), c(Rank2, Spades)), false)
	require.NoError(t, err)
	y, err := Evaluate(hand(c(Rank9, Clubs), c(Rank5, Spades), c(Rank2, Hearts)), false)
	require.NoError(t, err)
	assert.Equal(t, 0, Compare(x, y))
}
