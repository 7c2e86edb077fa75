package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/guts/internal/protocol"
	"github.com/palemoky/guts/internal/sound"
)

// handleServerMessage 把服务器事件映射到界面状态
func (m *Model) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomJoined:
		payload, err := protocol.ParsePayload[protocol.RoomJoinedPayload](msg)
		if err != nil {
			return nil
		}
		m.phase = PhaseRoom
		m.roomCode = payload.RoomCode
		m.players = payload.Players
		m.buyIn = payload.BuyIn
		m.hostID = payload.HostID
		m.playerName = payload.Player.Name
		m.log = nil
		m.pushLog(fmt.Sprintf("进入房间 %s", payload.RoomCode))

	case protocol.MsgPlayerJoined:
		payload, err := protocol.ParsePayload[protocol.PlayerJoinedPayload](msg)
		if err != nil {
			return nil
		}
		m.players = append(m.players, payload.Player)
		m.pushLog(fmt.Sprintf("%s 加入了房间", payload.Player.Name))

	case protocol.MsgPlayerLeft:
		payload, err := protocol.ParsePayload[protocol.PlayerLeftPayload](msg)
		if err != nil {
			return nil
		}
		m.removePlayer(payload.PlayerID)
		if payload.NewHostID != "" {
			m.hostID = payload.NewHostID
		}
		m.pushLog(fmt.Sprintf("%s 离开了房间", payload.PlayerName))

	case protocol.MsgPlayerOffline:
		payload, err := protocol.ParsePayload[protocol.PlayerOfflinePayload](msg)
		if err != nil {
			return nil
		}
		m.setPlayerOnline(payload.PlayerID, false)
		m.pushLog(fmt.Sprintf("%s 掉线了", payload.PlayerName))

	case protocol.MsgPlayerOnline:
		payload, err := protocol.ParsePayload[protocol.PlayerOnlinePayload](msg)
		if err != nil {
			return nil
		}
		m.setPlayerOnline(payload.PlayerID, true)
		m.pushLog(fmt.Sprintf("%s 重新上线", payload.PlayerName))

	case protocol.MsgBuyInUpdated:
		payload, err := protocol.ParsePayload[protocol.BuyInUpdatedPayload](msg)
		if err != nil {
			return nil
		}
		m.buyIn = payload.Amount
		m.pushLog(fmt.Sprintf("买入金额调整为 $%.2f", payload.Amount))

	case protocol.MsgGameStarted:
		payload, err := protocol.ParsePayload[protocol.GameStartedPayload](msg)
		if err != nil {
			return nil
		}
		m.phase = PhasePlaying
		m.players = payload.Players
		m.buyIn = payload.BuyIn
		m.pot = 0
		m.round = 0
		m.standings = nil
		m.pushLog("🎮 游戏开始！")

	case protocol.MsgRoundStarted:
		payload, err := protocol.ParsePayload[protocol.RoundStartedPayload](msg)
		if err != nil {
			return nil
		}
		m.resetRoundState()
		m.round = payload.Round
		m.pot = payload.Pot
		m.blocked = false
		m.sittingOut = contains(payload.SittingOut, m.playerID)
		if m.sittingOut {
			m.pushLog(fmt.Sprintf("第 %d 轮：余额不足，本轮旁观", payload.Round))
		} else {
			m.pushLog(fmt.Sprintf("第 %d 轮开始，底注 $%.2f", payload.Round, payload.Ante))
		}

	case protocol.MsgCardsDealt:
		payload, err := protocol.ParsePayload[protocol.CardsDealtPayload](msg)
		if err != nil {
			return nil
		}
		m.hand = payload.Cards
		m.soundManager.Play(sound.SoundDeal)

	case protocol.MsgTimerStarted:
		payload, err := protocol.ParsePayload[protocol.TimerStartedPayload](msg)
		if err != nil {
			return nil
		}
		m.countdown = timer.NewWithInterval(time.Duration(payload.Seconds)*time.Second, time.Second)
		m.timerOn = true
		return m.countdown.Init()

	case protocol.MsgTimerTick:
		// 倒计时以本地 timer 为准，tick 仅作为兜底同步
		return nil

	case protocol.MsgPlayerDecided:
		payload, err := protocol.ParsePayload[protocol.PlayerDecidedPayload](msg)
		if err != nil {
			return nil
		}
		m.decidedCount = payload.Decided
		m.decidedTotal = payload.Total
		m.pushLog(fmt.Sprintf("%s 已做出决定 (%d/%d)", payload.PlayerName, payload.Decided, payload.Total))

	case protocol.MsgRoundReveal:
		payload, err := protocol.ParsePayload[protocol.RoundRevealPayload](msg)
		if err != nil {
			return nil
		}
		m.timerOn = false
		for _, e := range payload.Entries {
			verb := "弃牌"
			if e.Decision == "hold" {
				verb = "跟注"
			}
			m.pushLog(fmt.Sprintf("%s %s：%s", e.PlayerName, verb, e.HandName))
		}

	case protocol.MsgAllDropped:
		payload, err := protocol.ParsePayload[protocol.AllDroppedPayload](msg)
		if err != nil {
			return nil
		}
		m.pot = payload.Pot
		m.pushLog(fmt.Sprintf("🤷 全员弃牌，奖池 $%.2f 滚存", payload.Pot))

	case protocol.MsgMultiHoldersResult:
		payload, err := protocol.ParsePayload[protocol.MultiHoldersResultPayload](msg)
		if err != nil {
			return nil
		}
		m.pot = payload.NewPot
		m.pushLog(fmt.Sprintf("🏆 %s 以 %s 赢得 $%.2f", payload.WinnerName, payload.HandName, payload.WinAmount))
		if payload.WinnerID == m.playerID {
			m.soundManager.Play(sound.SoundWin)
		} else {
			m.soundManager.Play(sound.SoundLose)
		}
		m.applyLoserResults(payload.Losers)

	case protocol.MsgHolderVsDeck:
		payload, err := protocol.ParsePayload[protocol.HolderVsDeckPayload](msg)
		if err != nil {
			return nil
		}
		m.pushLog(fmt.Sprintf("⚔️ %s (%s) 对阵牌堆 (%s)", payload.HolderName, payload.HolderRank, payload.DeckHandName))

	case protocol.MsgDeckShowdownResult:
		payload, err := protocol.ParsePayload[protocol.DeckShowdownResultPayload](msg)
		if err != nil {
			return nil
		}
		m.pot = payload.NewPot
		m.pendingEnd = payload.PendingEnd
		m.updateBalance(payload.HolderID, payload.Balance)
		if payload.HolderWon {
			m.pushLog(fmt.Sprintf("🎉 %s 战胜牌堆，赢得 $%.2f！", payload.HolderName, payload.Amount))
		} else {
			m.pushLog(fmt.Sprintf("💀 %s 不敌牌堆，支付 $%.2f", payload.HolderName, payload.Amount))
		}
		if payload.HolderID == m.playerID {
			if payload.HolderWon {
				m.soundManager.Play(sound.SoundWin)
			} else {
				m.soundManager.Play(sound.SoundLose)
			}
		}

	case protocol.MsgPlayerInDebt:
		payload, err := protocol.ParsePayload[protocol.PlayerInDebtPayload](msg)
		if err != nil {
			return nil
		}
		if payload.PlayerID == m.playerID {
			m.myDebt = payload.Debt
			m.pushLog(fmt.Sprintf("💸 您已负债 $%.2f，需补充买入", payload.Debt))
		} else {
			m.pushLog(fmt.Sprintf("💸 %s 负债 $%.2f", payload.PlayerName, payload.Debt))
		}

	case protocol.MsgRoundBlockedDebt:
		payload, err := protocol.ParsePayload[protocol.RoundBlockedDebtPayload](msg)
		if err != nil {
			return nil
		}
		m.blocked = true
		for _, d := range payload.Debtors {
			m.pushLog(fmt.Sprintf("🚫 等待 %s 补充买入", d.Name))
		}

	case protocol.MsgBuyBackResult:
		payload, err := protocol.ParsePayload[protocol.BuyBackResultPayload](msg)
		if err != nil {
			return nil
		}
		m.updateBalance(payload.PlayerID, payload.Balance)
		if payload.PlayerID == m.playerID {
			m.myDebt = 0
		}
		m.pushLog(fmt.Sprintf("💰 %s 补充买入 $%.2f", payload.PlayerName, payload.Amount))

	case protocol.MsgPlayerBalanceUpdated:
		payload, err := protocol.ParsePayload[protocol.BalanceUpdatedPayload](msg)
		if err != nil {
			return nil
		}
		m.updateBalance(payload.PlayerID, payload.Balance)

	case protocol.MsgGameEnded:
		payload, err := protocol.ParsePayload[protocol.GameEndedPayload](msg)
		if err != nil {
			return nil
		}
		m.phase = PhaseEnded
		m.standings = payload.Standings
		m.endReason = payload.Reason
		m.timerOn = false
		m.soundManager.Play(sound.SoundGameEnd)

	case protocol.MsgGameReset:
		m.phase = PhaseRoom
		m.resetRoundState()
		m.pot = 0
		m.round = 0
		m.pendingEnd = false
		m.myDebt = 0
		m.blocked = false
		m.standings = nil
		m.pushLog("房间已重置，等待下一局")

	case protocol.MsgPlayerEmote:
		payload, err := protocol.ParsePayload[protocol.EmotePayload](msg)
		if err != nil {
			return nil
		}
		if payload.PlayerID != m.playerID {
			m.pushLog(fmt.Sprintf("%s 发送了表情 %s", payload.PlayerName, payload.Emote))
		}

	case protocol.MsgReconnected:
		payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](msg)
		if err != nil {
			return nil
		}
		m.restoreGameState(payload)

	case protocol.MsgPong:
		m.latency = m.client.GetLatency()

	case protocol.MsgError:
		payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return nil
		}
		m.err = payload.Message
		return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return ClearErrorMsg{}
		})
	}

	return nil
}

// restoreGameState 重连后恢复房间与对局状态
func (m *Model) restoreGameState(payload *protocol.ReconnectedPayload) {
	m.playerID = payload.PlayerID
	m.playerName = payload.PlayerName

	if payload.RoomCode == "" {
		m.phase = PhaseLobby
		return
	}

	m.roomCode = payload.RoomCode
	state := payload.GameState
	if state == nil {
		m.phase = PhaseRoom
		return
	}

	m.players = state.Players
	m.pot = state.Pot
	m.buyIn = state.BuyIn
	m.round = state.Round
	m.hand = state.Hand
	m.hostID = state.HostID
	m.blocked = state.Blocked
	m.pendingEnd = state.PendingEnd
	m.decidedCount = len(state.Decided)

	switch state.Phase {
	case "playing":
		m.phase = PhasePlaying
	case "ended":
		m.phase = PhaseEnded
	default:
		m.phase = PhaseRoom
	}

	if state.TimeLeft > 0 {
		m.countdown = timer.NewWithInterval(time.Duration(state.TimeLeft)*time.Second, time.Second)
		m.timerOn = true
	}

	m.pushLog("已恢复对局状态")
}

// --- 状态更新辅助 ---

func (m *Model) removePlayer(playerID string) {
	for i, p := range m.players {
		if p.ID == playerID {
			m.players = append(m.players[:i], m.players[i+1:]...)
			return
		}
	}
}

func (m *Model) setPlayerOnline(playerID string, online bool) {
	for i := range m.players {
		if m.players[i].ID == playerID {
			m.players[i].Online = online
			return
		}
	}
}

func (m *Model) updateBalance(playerID string, balance float64) {
	for i := range m.players {
		if m.players[i].ID == playerID {
			m.players[i].Balance = balance
			m.players[i].InDebt = balance < 0
			return
		}
	}
}

func (m *Model) applyLoserResults(losers []protocol.LoserResult) {
	for _, l := range losers {
		m.updateBalance(l.PlayerID, l.Balance)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
