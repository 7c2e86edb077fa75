package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guts/internal/protocol"
)

// Helper to create a fake Message
func createMessage(t *testing.T, msgType protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

func newTestModel() *Model {
	m := NewModel("ws://localhost:1780/ws")
	m.playerID = "me"
	m.playerName = "测试玩家"
	return m
}

func TestHandleMsgRoomJoined(t *testing.T) {
	model := newTestModel()
	payload := protocol.RoomJoinedPayload{
		RoomCode: "ABC234",
		Player:   protocol.PlayerInfo{ID: "me", Name: "测试玩家", Seat: 0},
		Players: []protocol.PlayerInfo{
			{ID: "me", Name: "测试玩家", Seat: 0},
		},
		BuyIn:  20.0,
		HostID: "me",
	}

	model.handleServerMessage(createMessage(t, protocol.MsgRoomJoined, payload))

	assert.Equal(t, PhaseRoom, model.phase)
	assert.Equal(t, "ABC234", model.roomCode)
	assert.Equal(t, "me", model.hostID)
	assert.Equal(t, 20.0, model.buyIn)
	assert.Len(t, model.players, 1)
}

func TestHandleMsgPlayerJoinedAndLeft(t *testing.T) {
	model := newTestModel()
	model.phase = PhaseRoom
	model.players = []protocol.PlayerInfo{{ID: "me", Name: "测试玩家"}}
	model.hostID = "me"

	join := protocol.PlayerJoinedPayload{
		Player: protocol.PlayerInfo{ID: "p2", Name: "对手", Seat: 1},
	}
	model.handleServerMessage(createMessage(t, protocol.MsgPlayerJoined, join))
	assert.Len(t, model.players, 2)

	left := protocol.PlayerLeftPayload{
		PlayerID:   "p2",
		PlayerName: "对手",
	}
	model.handleServerMessage(createMessage(t, protocol.MsgPlayerLeft, left))
	assert.Len(t, model.players, 1)
	assert.Equal(t, "me", model.players[0].ID)
}

func TestHandleMsgPlayerLeft_HostTransfer(t *testing.T) {
	model := newTestModel()
	model.phase = PhaseRoom
	model.hostID = "p1"
	model.players = []protocol.PlayerInfo{
		{ID: "p1", Name: "房主"},
		{ID: "me", Name: "测试玩家"},
	}

	payload := protocol.PlayerLeftPayload{
		PlayerID:   "p1",
		PlayerName: "房主",
		NewHostID:  "me",
	}
	model.handleServerMessage(createMessage(t, protocol.MsgPlayerLeft, payload))

	assert.Equal(t, "me", model.hostID)
	assert.Len(t, model.players, 1)
}

func TestHandleMsgGameStarted(t *testing.T) {
	model := newTestModel()
	model.phase = PhaseRoom

	payload := protocol.GameStartedPayload{
		Players: []protocol.PlayerInfo{
			{ID: "me", Balance: 20.0},
			{ID: "p2", Balance: 20.0},
		},
		BuyIn: 20.0,
	}
	model.handleServerMessage(createMessage(t, protocol.MsgGameStarted, payload))

	assert.Equal(t, PhasePlaying, model.phase)
	assert.Len(t, model.players, 2)
}

func TestHandleMsgRoundStarted(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying
	model.hand = []protocol.CardInfo{{Rank: "A", Suit: "spades", Value: 14}}
	model.myDecision = "hold"

	payload := protocol.RoundStartedPayload{
		Round: 2,
		Pot:   3.0,
		Ante:  1.0,
	}
	model.handleServerMessage(createMessage(t, protocol.MsgRoundStarted, payload))

	assert.Equal(t, 2, model.round)
	assert.Equal(t, 3.0, model.pot)
	assert.Empty(t, model.hand, "上一轮手牌应被清空")
	assert.Empty(t, model.myDecision)
	assert.False(t, model.sittingOut)
}

func TestHandleMsgRoundStarted_SittingOut(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying

	payload := protocol.RoundStartedPayload{
		Round:      3,
		Pot:        10.0,
		Ante:       1.0,
		SittingOut: []string{"me"},
	}
	model.handleServerMessage(createMessage(t, protocol.MsgRoundStarted, payload))

	assert.True(t, model.sittingOut)
}

func TestHandleMsgCardsDealt(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying

	payload := protocol.CardsDealtPayload{
		Round: 1,
		Cards: []protocol.CardInfo{
			{Rank: "A", Suit: "hearts", Value: 14},
			{Rank: "K", Suit: "spades", Value: 13},
			{Rank: "7", Suit: "clubs", Value: 7},
		},
	}
	model.handleServerMessage(createMessage(t, protocol.MsgCardsDealt, payload))

	assert.Len(t, model.hand, 3)
	assert.Equal(t, "A", model.hand[0].Rank)
}

func TestHandleMsgTimerStarted(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying

	cmd := model.handleServerMessage(createMessage(t, protocol.MsgTimerStarted, protocol.TimerStartedPayload{Seconds: 30}))

	assert.True(t, model.timerOn)
	assert.NotNil(t, cmd, "倒计时启动应返回 timer 命令")
}

func TestHandleMsgMultiHoldersResult(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying
	model.players = []protocol.PlayerInfo{
		{ID: "me", Balance: 20.0},
		{ID: "p2", Balance: 20.0},
	}

	payload := protocol.MultiHoldersResultPayload{
		WinnerID:   "me",
		WinnerName: "测试玩家",
		HandName:   "对子",
		WinAmount:  3.0,
		Losers: []protocol.LoserResult{
			{PlayerID: "p2", PlayerName: "对手", Paid: 3.0, Balance: 17.0},
		},
		NewPot: 3.0,
	}
	model.handleServerMessage(createMessage(t, protocol.MsgMultiHoldersResult, payload))

	assert.Equal(t, 3.0, model.pot)
	assert.Equal(t, 17.0, model.players[1].Balance)
}

func TestHandleMsgDeckShowdownResult_Win(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying
	model.players = []protocol.PlayerInfo{{ID: "me", Balance: 20.0}}

	payload := protocol.DeckShowdownResultPayload{
		HolderID:   "me",
		HolderName: "测试玩家",
		HolderWon:  true,
		Amount:     15.0,
		NewPot:     0,
		Balance:    35.0,
		PendingEnd: true,
	}
	model.handleServerMessage(createMessage(t, protocol.MsgDeckShowdownResult, payload))

	assert.True(t, model.pendingEnd)
	assert.Equal(t, 35.0, model.players[0].Balance)
}

func TestHandleMsgPlayerInDebt(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying

	payload := protocol.PlayerInDebtPayload{
		PlayerID:   "me",
		PlayerName: "测试玩家",
		Debt:       5.0,
	}
	model.handleServerMessage(createMessage(t, protocol.MsgPlayerInDebt, payload))

	assert.Equal(t, 5.0, model.myDebt)
}

func TestHandleMsgBuyBackResult(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying
	model.myDebt = 5.0
	model.players = []protocol.PlayerInfo{{ID: "me", Balance: -5.0, InDebt: true}}

	payload := protocol.BuyBackResultPayload{
		PlayerID:   "me",
		PlayerName: "测试玩家",
		Amount:     20.0,
		Balance:    15.0,
	}
	model.handleServerMessage(createMessage(t, protocol.MsgBuyBackResult, payload))

	assert.Zero(t, model.myDebt)
	assert.Equal(t, 15.0, model.players[0].Balance)
	assert.False(t, model.players[0].InDebt)
}

func TestHandleMsgGameEnded(t *testing.T) {
	model := newTestModel()
	model.phase = PhasePlaying

	payload := protocol.GameEndedPayload{
		Reason: "deck_won",
		Standings: []protocol.PlayerStanding{
			{PlayerID: "me", PlayerName: "测试玩家", Balance: 35.0, Net: 15.0},
			{PlayerID: "p2", PlayerName: "对手", Balance: 5.0, Net: -15.0},
		},
	}
	model.handleServerMessage(createMessage(t, protocol.MsgGameEnded, payload))

	assert.Equal(t, PhaseEnded, model.phase)
	assert.Len(t, model.standings, 2)
	assert.Equal(t, "deck_won", model.endReason)
}

func TestHandleMsgGameReset(t *testing.T) {
	model := newTestModel()
	model.phase = PhaseEnded
	model.pot = 10.0
	model.standings = []protocol.PlayerStanding{{PlayerID: "me"}}

	model.handleServerMessage(createMessage(t, protocol.MsgGameReset, protocol.GameResetPayload{RoomCode: "ABC234"}))

	assert.Equal(t, PhaseRoom, model.phase)
	assert.Zero(t, model.pot)
	assert.Empty(t, model.standings)
}

func TestHandleMsgError(t *testing.T) {
	model := newTestModel()

	payload := protocol.ErrorPayload{Code: 2001, Message: "房间不存在"}
	cmd := model.handleServerMessage(createMessage(t, protocol.MsgError, payload))

	assert.Equal(t, "房间不存在", model.err)
	assert.NotNil(t, cmd, "错误提示应自动清除")
}

func TestRestoreGameState(t *testing.T) {
	model := newTestModel()
	payload := protocol.ReconnectedPayload{
		PlayerID:   "me",
		PlayerName: "测试玩家",
		RoomCode:   "ABC234",
		GameState: &protocol.GameStateDTO{
			Phase:  "playing",
			Round:  4,
			Pot:    12.0,
			BuyIn:  20.0,
			HostID: "p2",
			Players: []protocol.PlayerInfo{
				{ID: "me", Balance: 8.0},
				{ID: "p2", Balance: 32.0},
			},
			Hand: []protocol.CardInfo{
				{Rank: "Q", Suit: "diamonds", Value: 12},
			},
			TimeLeft: 10,
		},
	}
	model.handleServerMessage(createMessage(t, protocol.MsgReconnected, payload))

	assert.Equal(t, PhasePlaying, model.phase)
	assert.Equal(t, "ABC234", model.roomCode)
	assert.Equal(t, 4, model.round)
	assert.Equal(t, 12.0, model.pot)
	assert.Len(t, model.hand, 1)
	assert.True(t, model.timerOn)
}

func TestPushLogCapped(t *testing.T) {
	model := newTestModel()
	for i := 0; i < maxLogLines+4; i++ {
		model.pushLog("事件")
	}
	assert.Len(t, model.log, maxLogLines)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "短名字", truncateName("短名字", 10))
	assert.Equal(t, "很长很长很长很长很…", truncateName("很长很长很长很长很长的名字", 10))
}
