package protocol

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求。RoomCode 为空时创建新房间。
type JoinRoomPayload struct {
	RoomCode   string `json:"room_code,omitempty"`
	PlayerName string `json:"player_name"`
}

// SetBuyInPayload 房主设置买入金额
type SetBuyInPayload struct {
	Amount float64 `json:"amount"` // 单位：美元
}

// DecisionPayload 跟注/弃牌请求
type DecisionPayload struct {
	Decision string `json:"decision"` // "hold" 或 "drop"
}

// BuyBackPayload 补充买入请求
type BuyBackPayload struct {
	Amount float64 `json:"amount"` // 必须不小于当前负债
}

// EmotePayload 表情消息（服务端转发时填充发送者字段）
type EmotePayload struct {
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Emote      string `json:"emote"` // 资源路径，形如 /emotes/emote-*.png
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string        `json:"player_id"`
	PlayerName string        `json:"player_name"`
	RoomCode   string        `json:"room_code,omitempty"`  // 如果在房间中
	GameState  *GameStateDTO `json:"game_state,omitempty"` // 如果在游戏中
}

// GameStateDTO 游戏状态数据传输对象（用于重连恢复）
type GameStateDTO struct {
	Phase      string       `json:"phase"` // lobby/playing/ended
	Round      int          `json:"round"`
	Pot        float64      `json:"pot"`
	BuyIn      float64      `json:"buy_in"`
	Players    []PlayerInfo `json:"players"`
	Hand       []CardInfo   `json:"hand,omitempty"`    // 自己的手牌
	Decided    []string     `json:"decided,omitempty"` // 已做出决定的玩家 ID
	Blocked    bool         `json:"blocked"`           // 是否被负债阻塞
	PendingEnd bool         `json:"pending_end"`       // 牌堆获胜后等待收尾
	TimeLeft   int          `json:"time_left"`         // 决策剩余秒数
	HostID     string       `json:"host_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Player   PlayerInfo   `json:"player"`
	Players  []PlayerInfo `json:"players"` // 房间内所有玩家
	BuyIn    float64      `json:"buy_in"`
	HostID   string       `json:"host_id"`
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离开通知。房主离开时 NewHostID 指向新房主。
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	NewHostID  string `json:"new_host_id,omitempty"`
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// BuyInUpdatedPayload 买入金额变更通知
type BuyInUpdatedPayload struct {
	Amount float64 `json:"amount"`
}

// GameStartedPayload 游戏开始通知
type GameStartedPayload struct {
	Players []PlayerInfo `json:"players"`
	BuyIn   float64      `json:"buy_in"`
}

// RoundStartedPayload 新一轮开始通知
type RoundStartedPayload struct {
	Round      int      `json:"round"`
	Pot        float64  `json:"pot"`
	Ante       float64  `json:"ante"`
	SittingOut []string `json:"sitting_out,omitempty"` // 付不起底注本轮旁观的玩家 ID
}

// CardsDealtPayload 发牌通知（仅发给对应玩家）
type CardsDealtPayload struct {
	Round int        `json:"round"`
	Cards []CardInfo `json:"cards"`
}

// TimerStartedPayload 决策倒计时开始
type TimerStartedPayload struct {
	Seconds int `json:"seconds"`
}

// TimerTickPayload 倒计时推送
type TimerTickPayload struct {
	Remaining int `json:"remaining"` // 剩余秒数
}

// PlayerDecidedPayload 有人做出决定（内容保密到摊牌）
type PlayerDecidedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Decided    int    `json:"decided"` // 已决定人数
	Total      int    `json:"total"`   // 应决定人数
}

// RevealEntry 摊牌时单个玩家的信息
type RevealEntry struct {
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Decision   string     `json:"decision"` // hold/drop
	Cards      []CardInfo `json:"cards"`
	HandName   string     `json:"hand_name"` // 牌型名称
}

// RoundRevealPayload 全员亮牌通知
type RoundRevealPayload struct {
	Round   int           `json:"round"`
	Pot     float64       `json:"pot"`
	Entries []RevealEntry `json:"entries"`
	Holders []string      `json:"holders"` // 跟注玩家 ID，按决定先后排序
}

// AllDroppedPayload 全员弃牌通知，奖池滚存
type AllDroppedPayload struct {
	Round int     `json:"round"`
	Pot   float64 `json:"pot"` // 滚存后的奖池（不变）
}

// LoserResult 败者支付明细
type LoserResult struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Paid       float64 `json:"paid"`
	Balance    float64 `json:"balance"`
	InDebt     bool    `json:"in_debt"`
}

// MultiHoldersResultPayload 多人跟注结算通知
type MultiHoldersResultPayload struct {
	WinnerID   string        `json:"winner_id"`
	WinnerName string        `json:"winner_name"`
	HandName   string        `json:"hand_name"`
	WinAmount  float64       `json:"win_amount"`
	Losers     []LoserResult `json:"losers"`
	NewPot     float64       `json:"new_pot"`
}

// HolderVsDeckPayload 单人跟注对阵牌堆通知
type HolderVsDeckPayload struct {
	HolderID     string     `json:"holder_id"`
	HolderName   string     `json:"holder_name"`
	HolderHand   []CardInfo `json:"holder_hand"`
	HolderRank   string     `json:"holder_hand_name"`
	DeckHand     []CardInfo `json:"deck_hand"`
	DeckHandName string     `json:"deck_hand_name"`
}

// DeckShowdownResultPayload 牌堆对决结果通知
type DeckShowdownResultPayload struct {
	HolderID   string  `json:"holder_id"`
	HolderName string  `json:"holder_name"`
	HolderWon  bool    `json:"holder_won"`
	Amount     float64 `json:"amount"`  // 赢得或支付的金额
	NewPot     float64 `json:"new_pot"` // 失败时等于本轮奖池
	Balance    float64 `json:"balance"`
	PendingEnd bool    `json:"pending_end"` // 战胜牌堆后游戏进入终局
}

// PlayerInDebtPayload 玩家进入负债通知
type PlayerInDebtPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Debt       float64 `json:"debt"` // 负债额（正数）
}

// RoundBlockedDebtPayload 负债阻塞通知
type RoundBlockedDebtPayload struct {
	Debtors []PlayerInfo `json:"debtors"`
}

// BuyBackResultPayload 补充买入结果通知
type BuyBackResultPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Amount     float64 `json:"amount"`
	Balance    float64 `json:"balance"`
}

// BalanceUpdatedPayload 余额变更通知
type BalanceUpdatedPayload struct {
	PlayerID string  `json:"player_id"`
	Balance  float64 `json:"balance"`
}

// PlayerStanding 终局结算榜条目
type PlayerStanding struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Balance    float64 `json:"balance"`
	Net        float64 `json:"net"` // 相对买入的盈亏
}

// GameEndedPayload 游戏结束通知
type GameEndedPayload struct {
	Reason    string           `json:"reason"` // deck_won/host_ended
	Standings []PlayerStanding `json:"standings"`
}

// GameResetPayload 房间重置通知
type GameResetPayload struct {
	RoomCode string `json:"room_code"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 通用数据结构 ---

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Seat    int     `json:"seat"`
	Balance float64 `json:"balance"`
	IsHost  bool    `json:"is_host"`
	InDebt  bool    `json:"in_debt"`
	Online  bool    `json:"online"`
}

// CardInfo 牌信息
type CardInfo struct {
	Rank  string `json:"rank"`  // "2"-"10", "J", "Q", "K", "A"
	Suit  string `json:"suit"`  // hearts/diamonds/clubs/spades
	Value int    `json:"value"` // 2-14
}
