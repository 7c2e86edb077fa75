package apperrors

import (
	"github.com/palemoky/guts/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound  = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull      = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom     = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted   = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrGameNotStart  = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotHost       = &GameError{Code: protocol.ErrCodeNotHost, Message: "只有房主可以执行此操作"}
	ErrInvalidBuyIn  = &GameError{Code: protocol.ErrCodeInvalidBuyIn, Message: "买入金额超出允许范围"}
	ErrInvalidName   = &GameError{Code: protocol.ErrCodeInvalidName, Message: "玩家名不合法"}
	ErrInvalidEmote  = &GameError{Code: protocol.ErrCodeInvalidEmote, Message: "无效的表情"}
	ErrTooFewPlayers = &GameError{Code: protocol.ErrCodeTooFewPlayers, Message: "至少需要两名玩家才能开始"}

	ErrAlreadyDecided   = &GameError{Code: protocol.ErrCodeAlreadyDecided, Message: "您本轮已做出决定"}
	ErrInvalidDecision  = &GameError{Code: protocol.ErrCodeInvalidDecision, Message: "无效的决定"}
	ErrRoundInProgress  = &GameError{Code: protocol.ErrCodeRoundInProgress, Message: "本轮尚未结束"}
	ErrNoActiveRound    = &GameError{Code: protocol.ErrCodeNoActiveRound, Message: "当前没有等待决定的轮次"}
	ErrBlockedByDebt    = &GameError{Code: protocol.ErrCodeBlockedByDebt, Message: "有玩家处于负债状态，需先补充买入"}
	ErrBuyBackTooSmall  = &GameError{Code: protocol.ErrCodeBuyBackTooSmall, Message: "补充买入不足以清偿负债"}
	ErrLeaveWhileInDebt = &GameError{Code: protocol.ErrCodeLeaveWhileInDebt, Message: "负债期间无法离开游戏"}
)
