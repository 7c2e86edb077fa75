// Package registry 管理所有进行中的对局：房间号分配、查找与闲置回收。
package registry

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/palemoky/guts/internal/apperrors"
	"github.com/palemoky/guts/internal/config"
	"github.com/palemoky/guts/internal/game/session"
)

const (
	// 房间号长度
	roomCodeLength = 6
	// 房间号字符集（去掉易混淆的 0/O、1/I）
	roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	cleanupInterval = 1 * time.Minute
)

// Store 对局快照持久化
type Store interface {
	SaveGame(ctx context.Context, snap *session.Snapshot) error
	DeleteGame(ctx context.Context, code string) error
}

// Manager 对局管理器
type Manager struct {
	cfg   *config.GameConfig
	store Store // 可为 nil（未配置持久化）

	games map[string]*session.Game
	mu    sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager 创建管理器并启动闲置回收协程
func NewManager(cfg *config.GameConfig, store Store) *Manager {
	m := &Manager{
		cfg:   cfg,
		store: store,
		games: make(map[string]*session.Game),
		stop:  make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// CreateGame 创建新对局并分配唯一房间号
func (m *Manager) CreateGame() *session.Game {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateRoomCode()
	g := session.NewGame(code, m.cfg)

	if m.store != nil {
		store := m.store
		g.SetOnChange(func(snap *session.Snapshot) {
			go func() { _ = store.SaveGame(context.Background(), snap) }()
		})
	}

	m.games[code] = g
	log.Printf("🏠 房间 %s 已创建", code)
	return g
}

// GetGame 按房间号查找对局
func (m *Manager) GetGame(code string) (*session.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[code]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	return g, nil
}

// RemoveGame 回收对局
func (m *Manager) RemoveGame(code string) {
	m.mu.Lock()
	g, ok := m.games[code]
	if ok {
		delete(m.games, code)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	g.Shutdown()
	if m.store != nil {
		go func() { _ = m.store.DeleteGame(context.Background(), code) }()
	}
	log.Printf("🏠 房间 %s 已解散", code)
}

// GamesCount 当前房间数
func (m *Manager) GamesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// ActiveGamesCount 进行中的对局数
func (m *Manager) ActiveGamesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, g := range m.games {
		if g.Phase() == session.PhasePlaying {
			count++
		}
	}
	return count
}

// Stop 停止闲置回收协程
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// generateRoomCode 生成唯一房间号，调用方必须持有 m.mu
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := m.games[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期回收闲置房间
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

// cleanup 回收超过闲置时限或已无人的房间
func (m *Manager) cleanup() {
	idle := m.cfg.IdleTimeoutDuration()
	now := time.Now()

	m.mu.RLock()
	var expired []*session.Game
	for _, g := range m.games {
		if g.PlayerCount() == 0 || now.Sub(g.LastActivity()) > idle {
			expired = append(expired, g)
		}
	}
	m.mu.RUnlock()

	for _, g := range expired {
		if g.PlayerCount() > 0 {
			g.NotifyClosed("房间闲置已关闭")
		}
		log.Printf("🧹 房间 %s 闲置超时已清理", g.Code)
		m.RemoveGame(g.Code)
	}
}
