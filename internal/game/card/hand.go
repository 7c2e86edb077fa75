package card

import (
	"sort"
)

// Category 定义牌型，数值越大越强
type Category int

const (
	HighCard      Category = iota + 1 // 散牌
	Pair                              // 对子
	Flush                             // 同花
	Straight                          // 顺子
	ThreeOfKind                       // 三条
	StraightFlush                     // 同花顺
)

// categoryNames 牌型名称映射表
var categoryNames = map[Category]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	Flush:         "Flush",
	Straight:      "Straight",
	ThreeOfKind:   "Three of a Kind",
	StraightFlush: "Straight Flush",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return ""
}

// Evaluation 三张牌的评估结果
type Evaluation struct {
	Category    Category
	Rank        int   // 主点数
	Tiebreakers []int // 平局比较序列，按重要性排列
}

// isFlush 三张同花色
func isFlush(cards []Card) bool {
	return cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
}

// isStraight 三张连续点数，或 A-2-3 特例（A 作最小）
func isStraight(values []int) bool {
	asc := []int{values[0], values[1], values[2]}
	sort.Ints(asc)
	if asc[2]-asc[1] == 1 && asc[1]-asc[0] == 1 {
		return true
	}
	// A-2-3（轮子）
	return asc[0] == 2 && asc[1] == 3 && asc[2] == 14
}

// pairOf 找出对子，返回对子点数和单张点数
func pairOf(values []int) (pairRank, kicker int, ok bool) {
	for i := 0; i < len(values)-1; i++ {
		for j := i + 1; j < len(values); j++ {
			if values[i] == values[j] {
				for _, v := range values {
					if v != values[i] {
						return values[i], v, true
					}
				}
				// 三张相同不会走到这里，三条已提前识别
				return values[i], values[i], true
			}
		}
	}
	return 0, 0, false
}

// Evaluate 评估一手三张牌。
// nothingRound 为 true（前三轮）时只识别三条、对子、散牌，
// 即使物理上是顺子/同花也按点数关系降级处理。
func Evaluate(cards []Card, nothingRound bool) (Evaluation, error) {
	if len(cards) != 3 {
		return Evaluation{}, ErrInvalidHandSize
	}

	// 按点数降序
	values := []int{cards[0].Value(), cards[1].Value(), cards[2].Value()}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	// 三条在任何模式下都识别
	if values[0] == values[1] && values[1] == values[2] {
		return Evaluation{
			Category:    ThreeOfKind,
			Rank:        values[0],
			Tiebreakers: []int{values[0]},
		}, nil
	}

	if !nothingRound {
		flush := isFlush(cards)
		straight := isStraight(values)

		if flush && straight {
			return Evaluation{
				Category:    StraightFlush,
				Rank:        values[0],
				Tiebreakers: []int{values[0]},
			}, nil
		}
		if straight {
			high := straightHigh(values)
			return Evaluation{
				Category:    Straight,
				Rank:        high,
				Tiebreakers: []int{high},
			}, nil
		}
		if flush {
			return Evaluation{
				Category:    Flush,
				Rank:        values[0],
				Tiebreakers: append([]int(nil), values...),
			}, nil
		}
	}

	if pairRank, kicker, ok := pairOf(values); ok {
		return Evaluation{
			Category:    Pair,
			Rank:        pairRank,
			Tiebreakers: []int{pairRank, kicker},
		}, nil
	}

	return Evaluation{
		Category:    HighCard,
		Rank:        values[0],
		Tiebreakers: append([]int(nil), values...),
	}, nil
}

// straightHigh 顺子的比较点数。A-2-3 轮子按 3 计算，而不是 14。
func straightHigh(desc []int) int {
	if desc[0] == 14 && desc[1] == 3 && desc[2] == 2 {
		return 3
	}
	return desc[0]
}

// Compare 比较两手评估结果。
// 返回 1 表示 a 胜，-1 表示 b 胜，0 表示完全平局。
func Compare(a, b Evaluation) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}

	// 同牌型逐位比较
	for i := 0; i < len(a.Tiebreakers) && i < len(b.Tiebreakers); i++ {
		if a.Tiebreakers[i] > b.Tiebreakers[i] {
			return 1
		}
		if a.Tiebreakers[i] < b.Tiebreakers[i] {
			return -1
		}
	}
	return 0
}
