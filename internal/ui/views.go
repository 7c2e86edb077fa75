package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/guts/internal/protocol"
)

// --- 视图渲染 ---

func (m *Model) View() string {
	var view string

	switch m.phase {
	case PhaseConnecting:
		view = m.connectingView()
	case PhaseLobby:
		view = m.lobbyView()
	case PhaseRoom:
		view = m.roomView()
	case PhasePlaying:
		view = m.playingView()
	case PhaseEnded:
		view = m.endedView()
	}

	if m.reconnectMessage != "" {
		view = warnStyle.Render(m.reconnectMessage) + "\n\n" + view
	}

	return docStyle.Render(view)
}

func (m *Model) connectingView() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Render("🔌 正在连接服务器...")
}

func (m *Model) lobbyView() string {
	var sb strings.Builder

	title := titleStyle("🃏 Guts 扑克")
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	if m.playerName != "" {
		welcome := fmt.Sprintf("欢迎, %s!", m.playerName)
		sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, welcome))
		sb.WriteString("\n\n")
	}

	menu := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		"游戏规则:",
		"",
		"  每人发三张牌，选择跟注或弃牌",
		"  败者向奖池支付全额，奖池不断膨胀",
		"  单人跟注时与牌堆对决，战胜牌堆即终局",
	))
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, menu))
	sb.WriteString("\n\n")

	inputView := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.input.View())
	sb.WriteString(inputView)
	sb.WriteString("\n\n")

	hint := hintStyle.Render("回车加入/创建房间  ESC 退出")
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hint))

	sb.WriteString(m.renderError())

	return sb.String()
}

func (m *Model) roomView() string {
	var sb strings.Builder

	title := titleStyle(fmt.Sprintf("🏠 房间: %s", m.roomCode))
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	info := fmt.Sprintf("买入: %s  玩家: %d", potStyle.Render(fmt.Sprintf("$%.2f", m.buyIn)), len(m.players))
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, info))
	sb.WriteString("\n\n")

	playerBox := boxStyle.Render(m.renderPlayerList())
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, playerBox))
	sb.WriteString("\n\n")

	if m.inputFor == inputBuyIn {
		inputView := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.input.View())
		sb.WriteString(inputView)
		sb.WriteString("\n\n")
	}

	var hint string
	if m.playerID == m.hostID {
		hint = "S 开始游戏  B 调整买入  ESC 离开房间"
	} else {
		hint = "等待房主开始游戏...  ESC 离开房间"
	}
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hintStyle.Render(hint)))

	sb.WriteString(m.renderEventLog())
	sb.WriteString(m.renderError())

	return sb.String()
}

func (m *Model) playingView() string {
	var sb strings.Builder

	// 顶部：轮次与奖池
	header := fmt.Sprintf("第 %d 轮  奖池: %s", m.round, potStyle.Render(fmt.Sprintf("$%.2f", m.pot)))
	if m.timerOn {
		header += fmt.Sprintf("  ⏳ %s", m.countdown.View())
	}
	if m.latency > 0 {
		header += hintStyle.Render(fmt.Sprintf("  %dms", m.latency))
	}
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header))
	sb.WriteString("\n\n")

	// 中部：玩家列表
	playerBox := boxStyle.Render(m.renderPlayerList())
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, playerBox))
	sb.WriteString("\n\n")

	// 手牌
	handBox := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		"我的手牌",
		renderCards(m.hand),
	))
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, handBox))
	sb.WriteString("\n\n")

	// 状态与提示
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderStatusLine()))
	sb.WriteString("\n")

	if m.inputFor == inputBuyBack {
		inputView := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.input.View())
		sb.WriteString(inputView)
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderEventLog())
	sb.WriteString(m.renderError())

	return sb.String()
}

func (m *Model) endedView() string {
	var sb strings.Builder

	title := titleStyle("🎉 游戏结束")
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	reason := "房主结束了游戏"
	switch m.endReason {
	case "deck_won":
		reason = "有玩家战胜牌堆，全场结算"
	case "too_few_funded":
		reason = "付得起底注的玩家不足两人"
	}
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, reason))
	sb.WriteString("\n\n")

	standings := boxStyle.Render(m.renderStandings())
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, standings))
	sb.WriteString("\n\n")

	hint := hintStyle.Render("按 N 重开房间（房主） · 按 Q 退出")
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hint))

	return sb.String()
}

// renderPlayerList 渲染玩家列表，按座位排序
func (m *Model) renderPlayerList() string {
	players := make([]protocol.PlayerInfo, len(m.players))
	copy(players, m.players)
	sort.Slice(players, func(i, j int) bool {
		return players[i].Seat < players[j].Seat
	})

	var sb strings.Builder
	sb.WriteString("玩家列表:\n")
	for _, p := range players {
		var tags []string
		if p.ID == m.hostID {
			tags = append(tags, HostIcon)
		}
		if p.InDebt {
			tags = append(tags, DebtIcon)
		}
		if !p.Online {
			tags = append(tags, OfflineTag)
		}

		meStr := ""
		if p.ID == m.playerID {
			meStr = " (你)"
		}

		balance := fmt.Sprintf("$%.2f", p.Balance)
		if p.Balance < 0 {
			balance = errorStyle.Render(balance)
		}

		sb.WriteString(fmt.Sprintf("  %-12s%s %s %s\n",
			truncateName(p.Name, 10), meStr, balance, strings.Join(tags, "")))
	}
	return sb.String()
}

// renderStatusLine 当前回合的操作提示
func (m *Model) renderStatusLine() string {
	switch {
	case m.blocked:
		return warnStyle.Render("🚫 有玩家负债，按 B 补充买入后继续")
	case m.pendingEnd:
		return warnStyle.Render("有玩家战胜牌堆，等待房主按 N 收尾结算")
	case m.sittingOut:
		return hintStyle.Render("余额不足，本轮旁观")
	case m.myDecision != "":
		label := "✅ 已跟注"
		if m.myDecision == "drop" {
			label = "🏳️ 已弃牌"
		}
		return goodStyle.Render(label + "，等待其他玩家...")
	case len(m.hand) > 0:
		return "H 跟注  D 弃牌  1-3 表情"
	case m.playerID == m.hostID:
		return hintStyle.Render("N 下一轮  E 结束游戏  B 补充买入")
	default:
		return hintStyle.Render("等待房主开始下一轮...")
	}
}

// renderStandings 终局结算榜
func (m *Model) renderStandings() string {
	var sb strings.Builder
	sb.WriteString("最终结算:\n")
	sb.WriteString(strings.Repeat("─", 36) + "\n")

	for i, s := range m.standings {
		rankIcon := fmt.Sprintf("%2d.", i+1)
		switch i {
		case 0:
			rankIcon = "🥇"
		case 1:
			rankIcon = "🥈"
		case 2:
			rankIcon = "🥉"
		}

		net := fmt.Sprintf("%+.2f", s.Net)
		if s.Net > 0 {
			net = goodStyle.Render(net)
		} else if s.Net < 0 {
			net = errorStyle.Render(net)
		}

		sb.WriteString(fmt.Sprintf("%s %-12s $%.2f  (%s)\n",
			rankIcon, truncateName(s.PlayerName, 10), s.Balance, net))
	}

	return sb.String()
}

// renderEventLog 最近的事件日志
func (m *Model) renderEventLog() string {
	if len(m.log) == 0 {
		return ""
	}
	logBox := boxStyle.Render(strings.Join(m.log, "\n"))
	return "\n\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, logBox)
}

func (m *Model) renderError() string {
	if m.err == "" {
		return ""
	}
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, errorStyle.Render(m.err))
}

// truncateName 截断过长的玩家名
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}
