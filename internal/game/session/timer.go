package session

import (
	"log"
	"time"

	"github.com/palemoky/guts/internal/protocol"
)

// startDecisionTimerLocked 启动本轮决策倒计时。
// 每秒广播剩余时间，计满后未决定的玩家自动弃牌。
// 回调通过 dispatch 校验轮次，提前结算后的残留任务会被静默丢弃。
func (g *Game) startDecisionTimerLocked() {
	cur := g.round
	seconds := g.cfg.DecisionTimeout

	g.broadcast(protocol.MustNewMessage(protocol.MsgTimerStarted, protocol.TimerStartedPayload{
		Seconds: seconds,
	}))

	g.sched.Countdown(seconds, time.Second,
		func(remaining int) {
			g.dispatch(cur, func() {
				if g.roundTurn != RoundAwaitingDecisions {
					return
				}
				g.timeLeft = remaining
				g.broadcast(protocol.MustNewMessage(protocol.MsgTimerTick, protocol.TimerTickPayload{
					Remaining: remaining,
				}))
			})
		},
		func() {
			g.dispatch(cur, g.handleDecisionTimeoutLocked)
		},
	)
}

// handleDecisionTimeoutLocked 超时未决定视为弃牌
func (g *Game) handleDecisionTimeoutLocked() {
	if g.roundTurn != RoundAwaitingDecisions {
		return
	}

	for _, p := range g.activePlayersLocked() {
		if _, ok := g.decisions[p.ID]; !ok {
			g.decisions[p.ID] = DecisionDrop
			log.Printf("⏰ 玩家 %s 超时未决定，自动弃牌 (房间 %s 第 %d 轮)", p.Name, g.Code, g.round)
		}
	}

	g.resolveRoundLocked()
}
