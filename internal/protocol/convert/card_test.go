package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guts/internal/game/card"
	"github.com/palemoky/guts/internal/protocol"
)

func TestCardRoundTrip(t *testing.T) {
	t.Parallel()

	original := card.Card{Suit: card.Spades, Rank: card.RankA}

	// Card -> Info -> Card
	info := CardToInfo(original)
	assert.Equal(t, "A", info.Rank)
	assert.Equal(t, "spades", info.Suit)
	assert.Equal(t, 14, info.Value)

	result, err := InfoToCard(info)
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestCardsRoundTrip(t *testing.T) {
	t.Parallel()

	originals := []card.Card{
		{Suit: card.Hearts, Rank: card.Rank2},
		{Suit: card.Diamonds, Rank: card.Rank10},
		{Suit: card.Clubs, Rank: card.RankQ},
	}

	// Cards -> Infos -> Cards
	infos := CardsToInfos(originals)
	results, err := InfosToCards(infos)

	require.NoError(t, err)
	require.Len(t, results, len(originals))
	for i, orig := range originals {
		assert.Equal(t, orig, results[i], "Mismatch at index %d", i)
	}
}

func TestInfoToCard_Invalid(t *testing.T) {
	t.Parallel()

	_, err := InfoToCard(protocol.CardInfo{Rank: "A", Suit: "stars"})
	assert.Error(t, err)

	_, err = InfoToCard(protocol.CardInfo{Rank: "1", Suit: "hearts"})
	assert.Error(t, err)
}

func TestEmptyCards(t *testing.T) {
	t.Parallel()

	infos := CardsToInfos([]card.Card{})
	assert.Empty(t, infos)

	cards, err := InfosToCards([]protocol.CardInfo{})
	require.NoError(t, err)
	assert.Empty(t, cards)
}
