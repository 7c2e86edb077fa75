package server

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/palemoky/guts/internal/apperrors"
	"github.com/palemoky/guts/internal/game/session"
	"github.com/palemoky/guts/internal/protocol"
)

// Handler 消息处理器，将 ws 消息分发到对局逻辑
type Handler struct {
	server   *Server
	handlers map[protocol.MessageType]handlerFunc
}

type handlerFunc func(c *Client, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(s *Server) *Handler {
	h := &Handler{server: s}
	h.initHandlers()
	return h
}

func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		// 房间操作
		protocol.MsgJoinRoom:  h.handleJoinRoom,
		protocol.MsgSetBuyIn:  h.handleSetBuyIn,
		protocol.MsgStartGame: func(c *Client, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgLeaveGame: func(c *Client, _ *protocol.Message) { h.handleLeaveGame(c) },
		protocol.MsgEndGame:   func(c *Client, _ *protocol.Message) { h.handleEndGame(c) },

		// 游戏操作
		protocol.MsgPlayerDecision: h.handleDecision,
		protocol.MsgNextRound:      func(c *Client, _ *protocol.Message) { h.handleNextRound(c) },
		protocol.MsgBuyBackIn:      h.handleBuyBackIn,
		protocol.MsgPlayerEmote:    h.handleEmote,
	}
}

// Handle 分发消息
func (h *Handler) Handle(c *Client, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(c, msg)
		return
	}

	log.Printf("⚠️ 未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, c.Name, c.ID)
	c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// game 取客户端所在房间的对局
func (h *Handler) game(c *Client) (*session.Game, error) {
	code := c.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	return h.server.registry.GetGame(code)
}

// sendError 发送错误响应，识别 GameError 的错误码
func sendError(c *Client, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		c.SendMessage(protocol.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	c.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// --- 连接操作 ---

func (h *Handler) handlePing(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	c.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

func (h *Handler) handleReconnect(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if !h.server.sessions.CanReconnect(payload.Token, payload.PlayerID) {
		c.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "重连令牌无效或已过期"))
		return
	}

	sess := h.server.sessions.GetSession(payload.PlayerID)
	if sess == nil {
		c.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "会话不存在"))
		return
	}

	// 新连接接管旧玩家身份
	h.server.sessions.DeleteSession(c.ID)
	h.server.rebindClient(c, sess.PlayerID, sess.PlayerName)
	h.server.sessions.SetOnline(sess.PlayerID)

	resp := protocol.ReconnectedPayload{
		PlayerID:   sess.PlayerID,
		PlayerName: sess.PlayerName,
	}

	// 恢复房间与对局状态
	if sess.RoomCode != "" {
		if g, err := h.server.registry.GetGame(sess.RoomCode); err == nil {
			if err := g.Reconnect(sess.PlayerID, c); err == nil {
				c.SetRoom(sess.RoomCode)
				resp.RoomCode = sess.RoomCode
				resp.GameState = g.BuildGameStateDTO(sess.PlayerID)
			}
		}
	}

	c.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, resp))

	log.Printf("🔄 玩家 %s (%s) 重连成功", sess.PlayerName, sess.PlayerID)
}

// --- 房间操作 ---

// handleJoinRoom 加入房间；RoomCode 为空时创建新房间
func (h *Handler) handleJoinRoom(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 已在房间中则先离开
	if c.GetRoom() != "" {
		h.handleLeaveGame(c)
	}

	var g *session.Game
	if payload.RoomCode == "" {
		if h.server.IsMaintenanceMode() {
			c.SendMessage(protocol.NewErrorMessageWithText(
				protocol.ErrCodeUnknown, "服务器维护中，暂停创建房间"))
			return
		}
		g = h.server.registry.CreateGame()
	} else {
		g, err = h.server.registry.GetGame(strings.ToUpper(payload.RoomCode))
		if err != nil {
			sendError(c, err)
			return
		}
	}

	name := strings.TrimSpace(payload.PlayerName)
	if name == "" {
		name = c.Name
	}

	player, err := g.AddPlayer(c.ID, name, c)
	if err != nil {
		// 自建房间加入失败时立即回收
		if payload.RoomCode == "" {
			h.server.registry.RemoveGame(g.Code)
		}
		sendError(c, err)
		return
	}

	c.Name = player.Name
	c.SetRoom(g.Code)
	h.server.sessions.SetRoom(c.ID, g.Code)
}

func (h *Handler) handleSetBuyIn(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SetBuyInPayload](msg)
	if err != nil {
		c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.SetBuyIn(c.ID, payload.Amount); err != nil {
		sendError(c, err)
	}
}

func (h *Handler) handleStartGame(c *Client) {
	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.Start(c.ID); err != nil {
		sendError(c, err)
	}
}

func (h *Handler) handleLeaveGame(c *Client) {
	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	empty, err := g.Leave(c.ID)
	if err != nil {
		sendError(c, err)
		return
	}

	if empty {
		h.server.registry.RemoveGame(g.Code)
	}

	c.SetRoom("")
	h.server.sessions.SetRoom(c.ID, "")
}

func (h *Handler) handleEndGame(c *Client) {
	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.End(c.ID); err != nil {
		sendError(c, err)
	}
}

// --- 游戏操作 ---

func (h *Handler) handleDecision(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.DecisionPayload](msg)
	if err != nil {
		c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.HandleDecision(c.ID, session.Decision(payload.Decision)); err != nil {
		sendError(c, err)
	}
}

func (h *Handler) handleNextRound(c *Client) {
	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.StartNextRound(c.ID); err != nil {
		sendError(c, err)
	}
}

func (h *Handler) handleBuyBackIn(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.BuyBackPayload](msg)
	if err != nil {
		c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.BuyBackIn(c.ID, payload.Amount); err != nil {
		sendError(c, err)
	}
}

func (h *Handler) handleEmote(c *Client, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.EmotePayload](msg)
	if err != nil {
		c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	g, err := h.game(c)
	if err != nil {
		sendError(c, err)
		return
	}

	if err := g.Emote(c.ID, payload.Emote); err != nil {
		sendError(c, err)
	}
}
