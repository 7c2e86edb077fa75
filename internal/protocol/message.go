package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgJoinRoom  MessageType = "join_room"  // 加入（或创建）房间
	MsgSetBuyIn  MessageType = "set_buy_in" // 房主设置买入金额
	MsgStartGame MessageType = "start_game" // 房主开始游戏
	MsgLeaveGame MessageType = "leave_game" // 离开游戏
	MsgEndGame   MessageType = "end_game"   // 房主结束游戏

	// 游戏操作
	MsgPlayerDecision MessageType = "player_decision" // 跟注或弃牌
	MsgNextRound      MessageType = "next_round"      // 房主开始下一轮
	MsgBuyBackIn      MessageType = "buy_back_in"     // 补充买入（偿还负债）
	MsgPlayerEmote    MessageType = "player_emote"    // 表情
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected   MessageType = "connected"   // 连接成功
	MsgReconnected MessageType = "reconnected" // 重连成功
	MsgPong        MessageType = "pong"        // 心跳 pong

	// 房间相关
	MsgRoomJoined    MessageType = "room_joined"    // 加入房间成功
	MsgPlayerJoined  MessageType = "player_joined"  // 其他玩家加入
	MsgPlayerLeft    MessageType = "player_left"    // 玩家离开
	MsgBuyInUpdated  MessageType = "buy_in_updated" // 买入金额变更
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 游戏流程
	MsgGameStarted  MessageType = "game_started"  // 游戏开始
	MsgRoundStarted MessageType = "round_started" // 新一轮开始
	MsgCardsDealt   MessageType = "cards_dealt"   // 发牌
	MsgTimerStarted MessageType = "timer_started" // 决策倒计时开始
	MsgTimerTick    MessageType = "timer_tick"    // 倒计时每秒推送

	// 摊牌与结算
	MsgPlayerDecided      MessageType = "player_decided"          // 有人做出决定（不公开内容）
	MsgRoundReveal        MessageType = "round_reveal"            // 全员亮出决定与手牌
	MsgAllDropped         MessageType = "all_dropped"             // 全员弃牌，奖池滚存
	MsgMultiHoldersResult MessageType = "multiple_holders_result" // 多人跟注结算
	MsgHolderVsDeck       MessageType = "single_holder_vs_deck"   // 单人跟注对阵牌堆
	MsgDeckShowdownResult MessageType = "deck_showdown_result"    // 牌堆对决结果

	// 资金相关
	MsgPlayerInDebt         MessageType = "player_in_debt"         // 玩家进入负债
	MsgRoundBlockedDebt     MessageType = "round_blocked_debt"     // 负债阻塞，无法开始新一轮
	MsgBuyBackResult        MessageType = "buy_back_result"        // 补充买入结果
	MsgPlayerBalanceUpdated MessageType = "player_balance_updated" // 余额变更

	// 对局终止
	MsgGameEnded MessageType = "game_ended" // 游戏结束（含结算榜）
	MsgGameReset MessageType = "game_reset" // 房间重置回大厅

	// 错误
	MsgError MessageType = "error" // 错误消息
)
