package session

import (
	"github.com/palemoky/guts/internal/game/card"
	"github.com/palemoky/guts/internal/game/economy"
	"github.com/palemoky/guts/internal/protocol"
)

// Player 对局中的玩家
type Player struct {
	ID   string
	Name string
	Seat int

	Wallet economy.Cents // 当前余额（分），可为负
	Hand   []card.Card

	Active     bool // 是否仍在对局中；中途退出的玩家席位保留但不再参与
	SittingOut bool // 本轮付不起底注，旁观
	Online     bool

	conn Sender
}

// Balance 实现 economy.Account
func (p *Player) Balance() economy.Cents { return p.Wallet }

// SetBalance 实现 economy.Account
func (p *Player) SetBalance(c economy.Cents) { p.Wallet = c }

// send 向该玩家推送消息，离线时静默丢弃
func (p *Player) send(msg *protocol.Message) {
	if p.conn != nil {
		p.conn.SendMessage(msg)
	}
}

// info 组装协议层玩家信息
func (p *Player) info(hostID string) protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:      p.ID,
		Name:    p.Name,
		Seat:    p.Seat,
		Balance: p.Wallet.Dollars(),
		IsHost:  p.ID == hostID,
		InDebt:  p.Wallet.InDebt(),
		Online:  p.Online,
	}
}
