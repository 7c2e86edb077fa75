package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeRoomNotFound  = 2001
	ErrCodeRoomFull      = 2002
	ErrCodeNotInRoom     = 2003
	ErrCodeGameStarted   = 2004 // 游戏已开始
	ErrCodeNotHost       = 2005 // 非房主操作
	ErrCodeInvalidBuyIn  = 2006 // 买入金额越界
	ErrCodeInvalidName   = 2007 // 玩家名非法
	ErrCodeInvalidEmote  = 2008 // 表情路径非法
	ErrCodeTooFewPlayers = 2009 // 人数不足

	ErrCodeGameNotStart     = 3001
	ErrCodeAlreadyDecided   = 3002 // 本轮已做出决定
	ErrCodeInvalidDecision  = 3003 // 决定必须是 hold 或 drop
	ErrCodeRoundInProgress  = 3004 // 当前轮尚未结算
	ErrCodeNoActiveRound    = 3005 // 没有等待决定的轮次
	ErrCodeBlockedByDebt    = 3006 // 有玩家负债，新一轮被阻塞
	ErrCodeNotInDebt        = 3007 // 未负债无需补充买入
	ErrCodeBuyBackTooSmall  = 3008 // 补充买入不足以清偿负债
	ErrCodeLeaveWhileInDebt = 3009 // 负债期间不能离开

	ErrCodeInternal = 5001
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:    "未知错误",
	ErrCodeInvalidMsg: "无效的消息格式",
	ErrCodeRateLimit:  "请求过于频繁",

	ErrCodeRoomNotFound:  "房间不存在",
	ErrCodeRoomFull:      "房间已满",
	ErrCodeNotInRoom:     "您不在房间中",
	ErrCodeGameStarted:   "游戏已开始",
	ErrCodeNotHost:       "只有房主可以执行此操作",
	ErrCodeInvalidBuyIn:  "买入金额超出允许范围",
	ErrCodeInvalidName:   "玩家名不合法",
	ErrCodeInvalidEmote:  "无效的表情",
	ErrCodeTooFewPlayers: "至少需要两名玩家才能开始",

	ErrCodeGameNotStart:     "游戏尚未开始",
	ErrCodeAlreadyDecided:   "您本轮已做出决定",
	ErrCodeInvalidDecision:  "无效的决定",
	ErrCodeRoundInProgress:  "本轮尚未结束",
	ErrCodeNoActiveRound:    "当前没有等待决定的轮次",
	ErrCodeBlockedByDebt:    "有玩家处于负债状态，需先补充买入",
	ErrCodeNotInDebt:        "您没有负债",
	ErrCodeBuyBackTooSmall:  "补充买入不足以清偿负债",
	ErrCodeLeaveWhileInDebt: "负债期间无法离开游戏",

	ErrCodeInternal: "服务器内部错误",
}
