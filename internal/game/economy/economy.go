// Package economy 实现下注经济规则：底注收取、欠债检测与摊牌结算。
// 金额内部统一用整数分表示，只有协议边界才换算成美元浮点数。
package economy

import "math"

// Cents 以分为单位的金额，可以为负（欠债）
type Cents int64

// FromDollars 美元转分，四舍五入到分
func FromDollars(d float64) Cents {
	return Cents(math.Round(d * 100))
}

// Dollars 分转美元
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// InDebt 余额是否为负
func (c Cents) InDebt() bool {
	return c < 0
}

// Debt 欠债金额（非负）
func (c Cents) Debt() Cents {
	if c < 0 {
		return -c
	}
	return 0
}

// Account 描述结算视角下的一个玩家账户
type Account interface {
	Balance() Cents
	SetBalance(Cents)
}

// CollectAntes 从付得起底注的账户收取底注进入彩池。
// 返回扣款后的彩池和成功缴纳的账户；付不起的账户不被扣款。
func CollectAntes(accounts []Account, ante, pot Cents) (Cents, []Account) {
	paid := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Balance() < ante {
			continue
		}
		a.SetBalance(a.Balance() - ante)
		pot += ante
		paid = append(paid, a)
	}
	return pot, paid
}

// MultiHolderResult 多人摊牌结算结果
type MultiHolderResult struct {
	WinAmount Cents   // 赢家获得的金额（结算前彩池）
	Payments  []Cents // 每个输家的赔付额，与输家顺序一一对应
	NewPot    Cents   // 下一轮彩池 = 所有输家赔付之和
}

// SettleMultiHolder 多人摊牌：赢家独得结算前彩池，
// 每个输家各自赔付等额彩池（并行负债，不是均摊），
// 新彩池为所有赔付之和。余额允许变负。
func SettleMultiHolder(winner Account, losers []Account, pot Cents) MultiHolderResult {
	res := MultiHolderResult{
		WinAmount: pot,
		Payments:  make([]Cents, len(losers)),
	}

	winner.SetBalance(winner.Balance() + pot)
	for i, loser := range losers {
		loser.SetBalance(loser.Balance() - pot)
		res.Payments[i] = pot
		res.NewPot += pot
	}
	return res
}

// DeckShowdownResult 对抗牌堆的结算结果
type DeckShowdownResult struct {
	HolderWon    bool
	Amount       Cents // 赢得或赔付的金额
	NewPot       Cents
	PendingEnd   bool  // 玩家战胜牌堆时整局进入待结束状态
	WentIntoDebt bool
}

// SettleDeckShowdown 单人对抗牌堆：
// 严格胜出时独得彩池并触发整局待结束；
// 平局或落败时赔付等额彩池，新彩池恰为赔付额（不是旧彩池加赔付）。
func SettleDeckShowdown(holder Account, pot Cents, holderWon bool) DeckShowdownResult {
	if holderWon {
		holder.SetBalance(holder.Balance() + pot)
		return DeckShowdownResult{
			HolderWon:  true,
			Amount:     pot,
			NewPot:     0,
			PendingEnd: true,
		}
	}

	holder.SetBalance(holder.Balance() - pot)
	return DeckShowdownResult{
		HolderWon:    false,
		Amount:       pot,
		NewPot:       pot,
		WentIntoDebt: holder.Balance().InDebt(),
	}
}
