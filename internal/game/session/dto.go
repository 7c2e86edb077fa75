package session

import (
	"github.com/palemoky/guts/internal/protocol"
	"github.com/palemoky/guts/internal/protocol/convert"
)

// BuildGameStateDTO 构建游戏状态 DTO（用于重连恢复）
func (g *Game) BuildGameStateDTO(playerID string) *protocol.GameStateDTO {
	g.mu.Lock()
	defer g.mu.Unlock()

	phase := "lobby"
	switch g.phase {
	case PhasePlaying:
		phase = "playing"
	case PhaseEnded:
		phase = "ended"
	}

	var hand []protocol.CardInfo
	if p, ok := g.players[playerID]; ok && g.roundTurn == RoundAwaitingDecisions {
		hand = convert.CardsToInfos(p.Hand)
	}

	decided := make([]string, 0, len(g.decisions))
	for _, id := range g.order {
		if _, ok := g.decisions[id]; ok {
			decided = append(decided, id)
		}
	}

	return &protocol.GameStateDTO{
		Phase:      phase,
		Round:      g.round,
		Pot:        g.pot.Dollars(),
		BuyIn:      g.buyIn.Dollars(),
		Players:    g.playerInfos(),
		Hand:       hand,
		Decided:    decided,
		Blocked:    len(g.debtorsLocked()) > 0 && g.roundTurn == RoundResolved,
		PendingEnd: g.pendingEnd,
		TimeLeft:   g.timeLeft,
		HostID:     g.hostID,
	}
}

// Snapshot 对局持久化快照
type Snapshot struct {
	Code       string           `json:"code"`
	Phase      int              `json:"phase"`
	Round      int              `json:"round"`
	PotCents   int64            `json:"pot_cents"`
	BuyInCents int64            `json:"buy_in_cents"`
	HostID     string           `json:"host_id"`
	PendingEnd bool             `json:"pending_end"`
	Players    []PlayerSnapshot `json:"players"`
}

// PlayerSnapshot 玩家持久化快照
type PlayerSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Cents      int64  `json:"cents"`
	Active     bool   `json:"active"`
	SittingOut bool   `json:"sitting_out"`
}

// BuildSnapshot 生成当前对局快照
func (g *Game) BuildSnapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buildSnapshotLocked()
}

func (g *Game) buildSnapshotLocked() *Snapshot {
	players := make([]PlayerSnapshot, 0, len(g.order))
	for _, id := range g.order {
		p := g.players[id]
		players = append(players, PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Cents:      int64(p.Wallet),
			Active:     p.Active,
			SittingOut: p.SittingOut,
		})
	}

	return &Snapshot{
		Code:       g.Code,
		Phase:      int(g.phase),
		Round:      g.round,
		PotCents:   int64(g.pot),
		BuyInCents: int64(g.buyIn),
		HostID:     g.hostID,
		PendingEnd: g.pendingEnd,
		Players:    players,
	}
}
