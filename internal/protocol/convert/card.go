package convert

import (
	"github.com/palemoky/guts/internal/game/card"
	"github.com/palemoky/guts/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Rank:  c.Rank.String(),
		Suit:  c.Suit.String(),
		Value: c.Value(),
	}
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 将 protocol.CardInfo 转换为 card.Card
func InfoToCard(info protocol.CardInfo) (card.Card, error) {
	suit, err := card.SuitFromName(info.Suit)
	if err != nil {
		return card.Card{}, err
	}
	rank, err := card.RankFromName(info.Rank)
	if err != nil {
		return card.Card{}, err
	}
	return card.Card{Suit: suit, Rank: rank}, nil
}

// InfosToCards 将 []protocol.CardInfo 转换为 []card.Card
func InfosToCards(infos []protocol.CardInfo) ([]card.Card, error) {
	cards := make([]card.Card, len(infos))
	for i, info := range infos {
		c, err := InfoToCard(info)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}
