package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guts/internal/config"
	"github.com/palemoky/guts/internal/game/registry"
)

// newTestServer 构建不依赖 Redis 的测试服务器
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	s := &Server{
		config:         cfg,
		sessions:       NewSessionManager(),
		clients:        make(map[string]*Client),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MsgPerSecond),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	s.registry = registry.NewManager(&cfg.Game, nil)
	s.handler = NewHandler(s)

	t.Cleanup(func() {
		s.registry.Stop()
		s.sessions.Stop()
	})

	return s
}

func newTestMux(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	s.registerAPIRoutes(mux)
	return mux
}

func TestAPI_CreateGame(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	req := httptest.NewRequest(http.MethodPost, "/api/game/create", http.NoBody)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.RoomCode, 6)
	assert.NotEmpty(t, resp.HostToken)

	// 房间已真实注册
	_, err := s.registry.GetGame(resp.RoomCode)
	assert.NoError(t, err)
}

func TestAPI_CreateGame_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	req := httptest.NewRequest(http.MethodGet, "/api/game/create", http.NoBody)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPI_CreateGame_Maintenance(t *testing.T) {
	s := newTestServer(t)
	s.EnterMaintenanceMode()
	mux := newTestMux(s)

	req := httptest.NewRequest(http.MethodPost, "/api/game/create", http.NoBody)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_JoinGame(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	g := s.registry.CreateGame()

	body := strings.NewReader(`{"room_code":"` + g.Code + `","player_name":"Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/game/join", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp joinGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, g.Code, resp.RoomCode)
	assert.NotEmpty(t, resp.PlayerToken)
}

func TestAPI_JoinGame_RoomNotFound(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	body := strings.NewReader(`{"room_code":"ZZZZ99"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/game/join", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_JoinGame_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	req := httptest.NewRequest(http.MethodPost, "/api/game/join", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GameStatus(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	g := s.registry.CreateGame()

	req := httptest.NewRequest(http.MethodGet, "/api/game/"+g.Code+"/status", http.NoBody)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp gameStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, g.Code, resp.RoomCode)
	assert.Equal(t, "lobby", resp.Phase)
	assert.Equal(t, 0, resp.PlayerCount)
	assert.InDelta(t, 20.0, resp.BuyIn, 1e-9)
}

func TestAPI_GameStatus_NotFound(t *testing.T) {
	s := newTestServer(t)
	mux := newTestMux(s)

	for _, path := range []string{
		"/api/game/ZZZZ99/status",
		"/api/game/ABCD23/unknown",
	} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path: %s", path)
	}
}
