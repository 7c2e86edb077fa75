package client

import (
	"errors"
	"time"

	"github.com/palemoky/guts/internal/protocol"
)

// 游戏操作的便捷方法，payload 构造集中在这里。

// JoinRoom 加入房间；roomCode 为空时创建新房间
func (c *Client) JoinRoom(roomCode, playerName string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode:   roomCode,
		PlayerName: playerName,
	}))
}

// CreateRoom 创建新房间
func (c *Client) CreateRoom(playerName string) error {
	return c.JoinRoom("", playerName)
}

// SetBuyIn 房主设置买入金额（美元）
func (c *Client) SetBuyIn(amount float64) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgSetBuyIn, protocol.SetBuyInPayload{
		Amount: amount,
	}))
}

// StartGame 房主开始游戏
func (c *Client) StartGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, nil))
}

// LeaveGame 离开游戏
func (c *Client) LeaveGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgLeaveGame, nil))
}

// EndGame 房主结束游戏
func (c *Client) EndGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgEndGame, nil))
}

// Hold 跟注
func (c *Client) Hold() error {
	return c.decide("hold")
}

// Drop 弃牌
func (c *Client) Drop() error {
	return c.decide("drop")
}

func (c *Client) decide(decision string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlayerDecision, protocol.DecisionPayload{
		Decision: decision,
	}))
}

// NextRound 房主开始下一轮
func (c *Client) NextRound() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgNextRound, nil))
}

// BuyBackIn 补充买入偿还负债（美元）
func (c *Client) BuyBackIn(amount float64) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgBuyBackIn, protocol.BuyBackPayload{
		Amount: amount,
	}))
}

// Emote 发送表情
func (c *Client) Emote(emote string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlayerEmote, protocol.EmotePayload{
		Emote: emote,
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// Reconnect 发送重连请求
func (c *Client) Reconnect() error {
	if c.ReconnectToken == "" || c.PlayerID == "" {
		return errors.New("no reconnect token")
	}
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    c.ReconnectToken,
		PlayerID: c.PlayerID,
	}))
}
