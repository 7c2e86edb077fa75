// Package ui 实现终端客户端界面（bubbletea）。
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/guts/internal/network/client"
	"github.com/palemoky/guts/internal/protocol"
	"github.com/palemoky/guts/internal/sound"
)

// Phase 界面阶段
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseLobby
	PhaseRoom
	PhasePlaying
	PhaseEnded
)

// inputMode 当前文本输入的用途
type inputMode int

const (
	inputRoomCode inputMode = iota
	inputPlayerName
	inputBuyIn
	inputBuyBack
)

// 事件日志最多保留的条数
const maxLogLines = 6

// ServerMessage 服务器消息（tea.Msg 包装）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接错误
type ConnectionErrorMsg struct {
	Err error
}

// ReconnectSuccessMsg 重连成功
type ReconnectSuccessMsg struct{}

// ClearErrorMsg 清除错误提示
type ClearErrorMsg struct{}

// Model 客户端主模型
type Model struct {
	client *client.Client
	phase  Phase
	err    string

	playerID   string
	playerName string
	latency    int64

	// 房间状态
	roomCode string
	hostID   string
	buyIn    float64
	players  []protocol.PlayerInfo

	// 对局状态
	round        int
	pot          float64
	hand         []protocol.CardInfo
	decidedCount int
	decidedTotal int
	myDecision   string
	sittingOut   bool
	myDebt       float64
	blocked      bool
	pendingEnd   bool
	standings    []protocol.PlayerStanding
	endReason    string

	// 事件日志
	log []string

	// 重连状态
	reconnectMessage string
	reconnectChan    chan tea.Msg

	// UI 组件
	input     textinput.Model
	inputFor  inputMode
	countdown timer.Model
	timerOn   bool
	width     int
	height    int

	soundManager *sound.SoundManager
}

// NewModel 创建客户端模型
func NewModel(serverURL string) *Model {
	ti := textinput.New()
	ti.Placeholder = "房间号（留空创建新房间）"
	ti.CharLimit = 10
	ti.Width = 30
	ti.Focus()

	c := client.NewClient(serverURL)
	reconnectChan := make(chan tea.Msg, 10)

	m := &Model{
		client:        c,
		phase:         PhaseConnecting,
		input:         ti,
		inputFor:      inputRoomCode,
		reconnectChan: reconnectChan,
		soundManager:  sound.NewSoundManager(),
	}

	c.OnReconnect = func() {
		select {
		case reconnectChan <- ReconnectSuccessMsg{}:
		default:
		}
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	go func() {
		_ = m.soundManager.Init()
	}()

	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
		m.listenForReconnect(),
	)
}

func (m *Model) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *Model) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

func (m *Model) listenForReconnect() tea.Cmd {
	return func() tea.Msg {
		return <-m.reconnectChan
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKeyPress(msg)
		if handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseLobby
		m.playerID = m.client.PlayerID
		m.playerName = m.client.PlayerName
		m.client.StartHeartbeat()
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.err = fmt.Sprintf("连接失败: %v（按 ESC 退出）", msg.Err)
		if m.phase != PhaseConnecting && m.client.IsReconnecting() {
			m.reconnectMessage = "🔄 连接已断开，正在重连..."
		}

	case ReconnectSuccessMsg:
		m.reconnectMessage = "✅ 重连成功！"
		m.playerID = m.client.PlayerID
		cmds = append(cmds, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return ClearErrorMsg{}
		}))
		cmds = append(cmds, m.listenForReconnect())
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case ClearErrorMsg:
		m.err = ""
		m.reconnectMessage = ""

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.countdown, cmd = m.countdown.Update(msg)
		cmds = append(cmds, cmd)

	case timer.TimeoutMsg:
		m.timerOn = false
	}

	// 文本输入更新
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// pushLog 追加事件日志
func (m *Model) pushLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// resetRoundState 清理上一轮的桌面状态
func (m *Model) resetRoundState() {
	m.hand = nil
	m.decidedCount = 0
	m.decidedTotal = 0
	m.myDecision = ""
	m.sittingOut = false
	m.timerOn = false
}
