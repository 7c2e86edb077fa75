package session

import (
	"github.com/palemoky/guts/internal/protocol"
)

// Phase 对局阶段
type Phase int

const (
	PhaseLobby   Phase = iota // 大厅等待
	PhasePlaying              // 对局进行中
	PhaseEnded                // 对局结束
)

// RoundPhase 单轮子阶段，保证每轮只结算一次
type RoundPhase int

const (
	RoundIdle              RoundPhase = iota // 没有进行中的轮
	RoundAwaitingDecisions                   // 等待玩家决定
	RoundResolving                           // 结算中
	RoundResolved                            // 已结算，可开始下一轮
)

// Decision 玩家决定
type Decision string

const (
	DecisionHold Decision = "hold" // 跟注
	DecisionDrop Decision = "drop" // 弃牌
)

// Valid 决定是否合法
func (d Decision) Valid() bool {
	return d == DecisionHold || d == DecisionDrop
}

// Sender 向单个玩家推送消息。实现方必须保证非阻塞。
type Sender interface {
	SendMessage(msg *protocol.Message)
}

// 游戏结束原因
const (
	EndReasonDeckWon      = "deck_won"       // 有玩家战胜牌堆
	EndReasonHostEnded    = "host_ended"     // 房主主动结束
	EndReasonTooFewFunded = "too_few_funded" // 付得起底注的玩家不足两人
)
