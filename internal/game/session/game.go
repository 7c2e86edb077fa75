package session

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/palemoky/guts/internal/apperrors"
	"github.com/palemoky/guts/internal/config"
	"github.com/palemoky/guts/internal/game/card"
	"github.com/palemoky/guts/internal/game/economy"
	"github.com/palemoky/guts/internal/game/schedule"
	"github.com/palemoky/guts/internal/protocol"
)

// emotePathPrefix 客户端表情资源的合法前缀
const emotePathPrefix = "/emotes/emote-"

// Game 一局 Guts 对局，同时承担房间职责。
// 所有可变状态由 mu 保护，定时回调经由 sched 重新进入并校验轮次。
type Game struct {
	Code string
	cfg  *config.GameConfig

	phase     Phase
	roundTurn RoundPhase
	players   map[string]*Player
	order     []string // 按入座顺序
	hostID    string

	buyIn economy.Cents
	pot   economy.Cents
	round int

	deck       card.Deck
	decisions  map[string]Decision
	holdOrder  []string // 跟注玩家，按决定先后
	timeLeft   int      // 决策剩余秒数（用于重连恢复）
	pendingEnd bool     // 战胜牌堆后等待终局

	lastActivity time.Time
	sched        *schedule.Scheduler

	// onChange 在状态变更后收到最新快照（持久化挂钩），可为 nil。
	// 在锁内构建快照、锁外消费，回调内不得再调用 Game 的方法。
	onChange func(*Snapshot)

	mu sync.Mutex
}

// NewGame 创建对局
func NewGame(code string, cfg *config.GameConfig) *Game {
	return &Game{
		Code:         code,
		cfg:          cfg,
		phase:        PhaseLobby,
		roundTurn:    RoundIdle,
		players:      make(map[string]*Player),
		decisions:    make(map[string]Decision),
		buyIn:        economy.FromDollars(cfg.DefaultBuyIn),
		lastActivity: time.Now(),
		sched:        schedule.New(),
	}
}

// SetOnChange 注册状态变更回调（持久化）
func (g *Game) SetOnChange(fn func(*Snapshot)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = fn
}

// AddPlayer 加入对局，返回新玩家。只允许在大厅阶段加入。
func (g *Game) AddPlayer(id, name string, conn Sender) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return nil, apperrors.ErrGameStarted
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return nil, apperrors.ErrRoomFull
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 24 {
		return nil, apperrors.ErrInvalidName
	}

	p := &Player{
		ID:     id,
		Name:   name,
		Seat:   len(g.order),
		Active: true,
		Online: true,
		conn:   conn,
	}
	g.players[id] = p
	g.order = append(g.order, id)

	// 第一个进入的玩家是房主
	if g.hostID == "" {
		g.hostID = id
	}

	g.touch()
	log.Printf("👤 玩家 %s 加入房间 %s (座位 %d)", name, g.Code, p.Seat)

	g.broadcastExcept(id, protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: p.info(g.hostID),
	}))
	p.send(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: g.Code,
		Player:   p.info(g.hostID),
		Players:  g.playerInfos(),
		BuyIn:    g.buyIn.Dollars(),
		HostID:   g.hostID,
	}))

	g.notifyChange()
	return p, nil
}

// SetBuyIn 房主在大厅阶段设置买入金额
func (g *Game) SetBuyIn(playerID string, dollars float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if playerID != g.hostID {
		return apperrors.ErrNotHost
	}
	if dollars < g.cfg.MinBuyIn || dollars > g.cfg.MaxBuyIn {
		return apperrors.ErrInvalidBuyIn
	}

	g.buyIn = economy.FromDollars(dollars)
	g.touch()

	g.broadcast(protocol.MustNewMessage(protocol.MsgBuyInUpdated, protocol.BuyInUpdatedPayload{
		Amount: g.buyIn.Dollars(),
	}))
	g.notifyChange()
	return nil
}

// Leave 离开对局。大厅阶段直接移除；对局进行中席位和账目保留，
// 玩家仅被标记为退出，不再参与后续轮次。负债玩家不能中途离开。
// 返回 true 表示房间已空，调用方应将其回收。
func (g *Game) Leave(playerID string) (empty bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return false, apperrors.ErrNotInRoom
	}
	if g.phase == PhasePlaying && p.Wallet.InDebt() {
		return false, apperrors.ErrLeaveWhileInDebt
	}

	if g.phase == PhasePlaying {
		g.deactivatePlayerLocked(p)
		return g.activeCountLocked() == 0, nil
	}

	g.removePlayerLocked(p)
	return len(g.players) == 0, nil
}

// Disconnect 连接断开。大厅阶段等同离开；对局中标记退出，席位保留等待重连。
// 返回 true 表示房间已空。
func (g *Game) Disconnect(playerID string) (empty bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return len(g.players) == 0
	}

	if g.phase == PhaseLobby {
		g.removePlayerLocked(p)
		return len(g.players) == 0
	}

	g.broadcastExcept(playerID, protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}))
	log.Printf("📴 玩家 %s 在房间 %s 中掉线", p.Name, g.Code)

	g.deactivateQuietLocked(p)
	return g.activeCountLocked() == 0
}

// Reconnect 重连，替换连接并恢复参与资格。
// 当前轮进行中时本轮继续旁观，下一轮开始时重新入局。
func (g *Game) Reconnect(playerID string, conn Sender) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return apperrors.ErrNotInRoom
	}

	p.conn = conn
	p.Online = true
	p.Active = true

	g.broadcastExcept(playerID, protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
	}))
	log.Printf("📶 玩家 %s 重连到房间 %s", p.Name, g.Code)
	return nil
}

// Emote 转发表情。只接受受信任资源路径，防止客户端注入任意内容。
func (g *Game) Emote(playerID, emote string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return apperrors.ErrNotInRoom
	}
	if !strings.HasPrefix(emote, emotePathPrefix) || strings.Contains(emote, "..") {
		return apperrors.ErrInvalidEmote
	}

	g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerEmote, protocol.EmotePayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Emote:      emote,
	}))
	return nil
}

// removePlayerLocked 移除玩家并处理房主转移，调用方必须持有 g.mu
func (g *Game) removePlayerLocked(p *Player) {
	delete(g.players, p.ID)
	for i, id := range g.order {
		if id == p.ID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	delete(g.decisions, p.ID)
	for i, id := range g.holdOrder {
		if id == p.ID {
			g.holdOrder = append(g.holdOrder[:i], g.holdOrder[i+1:]...)
			break
		}
	}

	// 房主离开，按入座顺序转移
	var newHost string
	if p.ID == g.hostID {
		g.hostID = ""
		if len(g.order) > 0 {
			g.hostID = g.order[0]
			newHost = g.hostID
		}
	}

	g.touch()
	log.Printf("👋 玩家 %s 离开房间 %s", p.Name, g.Code)

	g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		NewHostID:  newHost,
	}))

	// 对局进行中有人离开，视为弃牌，可能触发本轮结算
	if g.phase == PhasePlaying && g.roundTurn == RoundAwaitingDecisions {
		g.maybeResolveLocked()
	}
	g.notifyChange()
}

// deactivatePlayerLocked 对局进行中的主动离开：席位和账目保留，
// 标记退出并转移房主，调用方必须持有 g.mu
func (g *Game) deactivatePlayerLocked(p *Player) {
	p.conn = nil
	p.Online = false

	// 房主退出，转移给入座顺序最靠前的在局玩家
	var newHost string
	if p.ID == g.hostID {
		g.hostID = ""
		for _, id := range g.order {
			if q := g.players[id]; q.Active && q.ID != p.ID {
				g.hostID = q.ID
				newHost = q.ID
				break
			}
		}
	}

	log.Printf("👋 玩家 %s 退出进行中的房间 %s，席位保留", p.Name, g.Code)
	g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		NewHostID:  newHost,
	}))

	g.deactivateQuietLocked(p)
}

// deactivateQuietLocked 将玩家移出后续轮次。本轮未做决定的按弃牌处理。
func (g *Game) deactivateQuietLocked(p *Player) {
	p.Active = false
	p.SittingOut = true

	if g.roundTurn == RoundAwaitingDecisions {
		if _, decided := g.decisions[p.ID]; !decided {
			g.decisions[p.ID] = DecisionDrop
		}
		g.maybeResolveLocked()
	}

	g.touch()
	g.notifyChange()
}

// activeCountLocked 仍在对局中的玩家数
func (g *Game) activeCountLocked() int {
	n := 0
	for _, p := range g.players {
		if p.Active {
			n++
		}
	}
	return n
}

// --- 广播 ---

func (g *Game) broadcast(msg *protocol.Message) {
	for _, p := range g.players {
		p.send(msg)
	}
}

func (g *Game) broadcastExcept(playerID string, msg *protocol.Message) {
	for id, p := range g.players {
		if id != playerID {
			p.send(msg)
		}
	}
}

func (g *Game) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(g.order))
	for _, id := range g.order {
		infos = append(infos, g.players[id].info(g.hostID))
	}
	return infos
}

// --- 辅助 ---

func (g *Game) touch() {
	g.lastActivity = time.Now()
}

func (g *Game) notifyChange() {
	if g.onChange != nil {
		g.onChange(g.buildSnapshotLocked())
	}
}

// LastActivity 最近一次操作时间（闲置回收用）
func (g *Game) LastActivity() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity
}

// PlayerCount 当前人数
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// Phase 当前阶段
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// HostID 当前房主
func (g *Game) HostID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostID
}

// NotifyClosed 房间被回收前通知所有玩家
func (g *Game) NotifyClosed(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcast(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, reason))
}

// Shutdown 停止所有定时任务，房间被回收时调用
func (g *Game) Shutdown() {
	g.sched.Shutdown()
}
