package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/guts/internal/sound"
)

// handleKeyPress 处理按键。返回 true 表示按键已消费，不再传给文本输入。
func (m *Model) handleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.client.Close()
		return true, tea.Quit
	case "esc":
		return true, m.handleEscape()
	}

	switch m.phase {
	case PhaseLobby:
		return m.handleLobbyKeys(msg)
	case PhaseRoom:
		return m.handleRoomKeys(msg)
	case PhasePlaying:
		return m.handlePlayingKeys(msg)
	case PhaseEnded:
		switch msg.String() {
		case "q":
			m.client.Close()
			return true, tea.Quit
		case "n":
			// 房主把房间重置回大厅
			if m.playerID != m.hostID {
				m.err = "只有房主能重开房间"
				return true, nil
			}
			if err := m.client.NextRound(); err != nil {
				m.err = err.Error()
			}
			return true, nil
		}
	}

	return false, nil
}

// handleEscape 逐级返回：输入框 → 房间 → 大厅 → 退出
func (m *Model) handleEscape() tea.Cmd {
	switch m.phase {
	case PhaseRoom, PhasePlaying:
		if m.inputFor != inputRoomCode {
			m.inputFor = inputRoomCode
			m.input.Blur()
			m.input.Reset()
			return nil
		}
		if err := m.client.LeaveGame(); err != nil {
			m.err = err.Error()
			return nil
		}
		m.phase = PhaseLobby
		m.roomCode = ""
		m.players = nil
		m.resetRoundState()
		m.log = nil
		m.input.Placeholder = "房间号（留空创建新房间）"
		m.input.Reset()
		m.input.Focus()
		return textinput.Blink
	default:
		m.client.Close()
		return tea.Quit
	}
}

func (m *Model) handleLobbyKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		return false, nil
	}

	value := strings.TrimSpace(m.input.Value())

	switch m.inputFor {
	case inputPlayerName:
		if value != "" {
			m.playerName = value
		}
		m.inputFor = inputRoomCode
		m.input.Placeholder = "房间号（留空创建新房间）"
		m.input.Reset()
		return true, nil

	default:
		if err := m.client.JoinRoom(strings.ToUpper(value), m.playerName); err != nil {
			m.err = err.Error()
			return true, nil
		}
		m.input.Reset()
		return true, nil
	}
}

func (m *Model) handleRoomKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	// 买入输入模式优先
	if m.inputFor == inputBuyIn {
		if msg.Type == tea.KeyEnter {
			amount, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
			if err != nil || amount <= 0 {
				m.err = "请输入有效的买入金额"
				return true, nil
			}
			if err := m.client.SetBuyIn(amount); err != nil {
				m.err = err.Error()
			}
			m.inputFor = inputRoomCode
			m.input.Blur()
			m.input.Reset()
			return true, nil
		}
		return false, nil
	}

	isHost := m.playerID == m.hostID

	switch msg.String() {
	case "s":
		if !isHost {
			m.err = "只有房主能开始游戏"
			return true, nil
		}
		if err := m.client.StartGame(); err != nil {
			m.err = err.Error()
		}
		return true, nil

	case "b":
		if !isHost {
			m.err = "只有房主能调整买入"
			return true, nil
		}
		m.inputFor = inputBuyIn
		m.input.Placeholder = fmt.Sprintf("买入金额（当前 $%.2f）", m.buyIn)
		m.input.Reset()
		m.input.Focus()
		return true, textinput.Blink

	case "q":
		return true, m.handleEscape()
	}

	return false, nil
}

func (m *Model) handlePlayingKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	// 补充买入输入模式优先
	if m.inputFor == inputBuyBack {
		if msg.Type == tea.KeyEnter {
			amount, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
			if err != nil || amount <= 0 {
				m.err = "请输入有效的补充买入金额"
				return true, nil
			}
			if err := m.client.BuyBackIn(amount); err != nil {
				m.err = err.Error()
			}
			m.inputFor = inputRoomCode
			m.input.Blur()
			m.input.Reset()
			return true, nil
		}
		return false, nil
	}

	isHost := m.playerID == m.hostID

	switch msg.String() {
	case "h":
		if m.canDecide() {
			if err := m.client.Hold(); err != nil {
				m.err = err.Error()
			} else {
				m.myDecision = "hold"
				m.soundManager.Play(sound.SoundHold)
			}
		}
		return true, nil

	case "d":
		if m.canDecide() {
			if err := m.client.Drop(); err != nil {
				m.err = err.Error()
			} else {
				m.myDecision = "drop"
				m.soundManager.Play(sound.SoundDrop)
			}
		}
		return true, nil

	case "n":
		if !isHost {
			m.err = "只有房主能开始下一轮"
			return true, nil
		}
		if err := m.client.NextRound(); err != nil {
			m.err = err.Error()
		}
		return true, nil

	case "e":
		if !isHost {
			m.err = "只有房主能结束游戏"
			return true, nil
		}
		if err := m.client.EndGame(); err != nil {
			m.err = err.Error()
		}
		return true, nil

	case "b":
		m.inputFor = inputBuyBack
		m.input.Placeholder = fmt.Sprintf("补充买入金额（负债 $%.2f）", m.myDebt)
		m.input.Reset()
		m.input.Focus()
		return true, textinput.Blink

	case "1", "2", "3":
		emote := fmt.Sprintf("/emotes/emote-%s.png", msg.String())
		if err := m.client.Emote(emote); err == nil {
			m.pushLog(fmt.Sprintf("您发送了表情 %s", emote))
		}
		return true, nil
	}

	return false, nil
}

// canDecide 当前是否可做跟注/弃牌决定
func (m *Model) canDecide() bool {
	return len(m.hand) > 0 && m.myDecision == "" && !m.sittingOut
}
