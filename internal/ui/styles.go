package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/guts/internal/protocol"
)

// Icon constants
const (
	HostIcon   = "👑"
	DebtIcon   = "💸"
	OfflineTag = "🔌"
)

// Lipgloss styles
var (
	docStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	potStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)

	redCardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
)

var suitSymbols = map[string]string{
	"hearts":   "♥",
	"diamonds": "♦",
	"clubs":    "♣",
	"spades":   "♠",
}

// renderCard 渲染单张牌，红桃/方块用红色
func renderCard(c protocol.CardInfo) string {
	symbol, ok := suitSymbols[c.Suit]
	if !ok {
		symbol = "?"
	}

	text := " " + c.Rank + symbol + " "
	if c.Suit == "hearts" || c.Suit == "diamonds" {
		return redCardStyle.Render(text)
	}
	return blackCardStyle.Render(text)
}

// renderCards 渲染一手牌
func renderCards(cards []protocol.CardInfo) string {
	if len(cards) == 0 {
		return hintStyle.Render("（无手牌）")
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = renderCard(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
