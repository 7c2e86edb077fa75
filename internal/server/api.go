package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/palemoky/guts/internal/apperrors"
	"github.com/palemoky/guts/internal/game/session"
)

// HTTP API：供非 ws 客户端建房、验证房间与查询状态。
// 令牌仅作凭据下发，游戏内身份仍以 ws 连接为准。

type createGameResponse struct {
	RoomCode  string `json:"room_code"`
	HostToken string `json:"host_token"`
}

type joinGameRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

type joinGameResponse struct {
	RoomCode    string `json:"room_code"`
	PlayerToken string `json:"player_token"`
}

type gameStatusResponse struct {
	RoomCode    string  `json:"room_code"`
	Phase       string  `json:"phase"`
	PlayerCount int     `json:"player_count"`
	BuyIn       float64 `json:"buy_in"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
}

// registerAPIRoutes 注册 HTTP API 路由
func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/game/create", s.handleAPICreateGame)
	mux.HandleFunc("/api/game/join", s.handleAPIJoinGame)
	mux.HandleFunc("/api/game/", s.handleAPIGameStatus) // /api/game/{code}/status
}

func (s *Server) handleAPICreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.IsMaintenanceMode() {
		writeAPIError(w, http.StatusServiceUnavailable, "server under maintenance")
		return
	}

	g := s.registry.CreateGame()
	writeJSON(w, http.StatusCreated, createGameResponse{
		RoomCode:  g.Code,
		HostToken: uuid.New().String(),
	})
}

func (s *Server) handleAPIJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	g, err := s.registry.GetGame(code)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, apperrors.ErrRoomNotFound.Message)
		return
	}

	if g.Phase() != session.PhaseLobby {
		writeAPIError(w, http.StatusConflict, apperrors.ErrGameStarted.Message)
		return
	}

	writeJSON(w, http.StatusOK, joinGameResponse{
		RoomCode:    code,
		PlayerToken: uuid.New().String(),
	})
}

func (s *Server) handleAPIGameStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// 路径形如 /api/game/{code}/status
	rest := strings.TrimPrefix(r.URL.Path, "/api/game/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "status" || parts[0] == "" {
		writeAPIError(w, http.StatusNotFound, "not found")
		return
	}

	code := strings.ToUpper(parts[0])
	g, err := s.registry.GetGame(code)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, apperrors.ErrRoomNotFound.Message)
		return
	}

	state := g.BuildGameStateDTO("")
	writeJSON(w, http.StatusOK, gameStatusResponse{
		RoomCode:    code,
		Phase:       state.Phase,
		PlayerCount: len(state.Players),
		BuyIn:       state.BuyIn,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiErrorResponse{Error: msg})
}
