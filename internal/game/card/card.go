package card

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Suit 定义花色
type Suit int

// Rank 定义点数
type Rank int

const (
	Hearts   Suit = iota // 红心
	Diamonds             // 方块
	Clubs                // 梅花
	Spades               // 黑桃
)

// suitNames 花色字符串映射表（与线上协议一致）
var suitNames = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Clubs:    "clubs",
	Spades:   "spades",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return ""
}

// SuitFromName 根据协议字符串查找花色
func SuitFromName(name string) (Suit, error) {
	for s, n := range suitNames {
		if n == name {
			return s, nil
		}
	}
	return -1, fmt.Errorf("无法识别的花色: %s", name)
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace（最大，Value=14）
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return ""
}

// RankFromName 根据协议字符串查找点数
func RankFromName(name string) (Rank, error) {
	for r, n := range rankNames {
		if n == name {
			return r, nil
		}
	}
	return -1, fmt.Errorf("无法识别的点数: %s", name)
}

// Card 定义一张牌
type Card struct {
	Suit Suit
	Rank Rank
}

// Value 返回用于比较的数值（2-14，A 最大）
func (c Card) Value() int {
	return int(c.Rank)
}

func (c Card) String() string {
	return c.Rank.String() + " of " + c.Suit.String()
}

// Deck 定义一副牌，发牌后逐渐变短
type Deck []Card

// NewDeck 创建标准 52 张牌（4 花色 × 13 点数）
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for s := Hearts; s <= Spades; s++ {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle 洗牌。使用密码学安全随机源的 Fisher-Yates，
// 随机源不可用时返回 ErrSecureRandom，绝不降级为普通伪随机。
func (d Deck) Shuffle() error {
	return d.shuffle(rand.Read)
}

// shuffle 便于测试注入随机源
func (d Deck) shuffle(read func([]byte) (int, error)) error {
	var buf [8]byte
	for i := len(d) - 1; i > 0; i-- {
		if _, err := read(buf[:]); err != nil {
			return fmt.Errorf("%w: %v", ErrSecureRandom, err)
		}
		j := int(binary.BigEndian.Uint64(buf[:]) % uint64(i+1))
		d[i], d[j] = d[j], d[i]
	}
	return nil
}

// Deal 从牌堆顶部取出 n 张牌，剩余不足时返回 ErrInsufficientCards
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(*d) {
		return nil, fmt.Errorf("%w: 需要 %d 张，剩余 %d 张", ErrInsufficientCards, n, len(*d))
	}
	dealt := make([]Card, n)
	copy(dealt, (*d)[:n])
	*d = (*d)[n:]
	return dealt, nil
}
