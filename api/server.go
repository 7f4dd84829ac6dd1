package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"terrainwalk/game/engine"
	"terrainwalk/game/service"
	"terrainwalk/transport/websocket"
)

// Server is the REST API server. Commands are dispatched asynchronously:
// move and start endpoints confirm delivery, and results reach clients
// over the WebSocket hub.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. The hub may be nil when WebSocket
// broadcasting is not wanted.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/start", s.handleStart).Methods("POST")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/sessions/{id}/map", s.handleGetMap).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.ConfigID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Relay engine events to WebSocket clients for the session's lifetime.
	// The relay exits on its own once the session's engine stops.
	if s.hub != nil {
		events, _, err := s.service.Subscribe(r.Context(), session.ID)
		if err == nil {
			go websocket.Relay(s.hub, session.ID, events)
		}
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created" or "accessed" (default)
	order := query.Get("order") // "asc" or "desc" (default)
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	limit := len(sessions)
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		DelayMs int `json:"delay_ms,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.DelayMs <= 0 {
		req.DelayMs = engine.DefaultStepDelayMs
	}

	accepted, err := s.service.Start(r.Context(), sessionID, req.DelayMs)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if !accepted {
		respondError(w, http.StatusServiceUnavailable, "engine is not accepting commands")
		return
	}

	log.Printf("[START] session=%s delay_ms=%d", sessionID, req.DelayMs)
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"accepted": true,
		"message":  "start command queued",
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dir := engine.Direction(strings.ToLower(req.Direction))
	if _, _, ok := dir.Delta(); !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown direction %q", req.Direction))
		return
	}

	accepted, err := s.service.Move(r.Context(), sessionID, dir)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if !accepted {
		respondError(w, http.StatusServiceUnavailable, "engine is not accepting commands")
		return
	}

	log.Printf("[MOVE] session=%s dir=%s queued", sessionID, dir)
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"accepted":  true,
		"direction": dir,
	})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, started, err := s.service.Snapshot(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := map[string]interface{}{"started": started}
	if started {
		resp["state"] = state
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	world, err := s.service.WorldMap(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"world":          world,
		"terrain_colors": engine.TerrainColors(),
		"terrain_names":  engine.TerrainNames(),
	})
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(configs),
		"configs": configs,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusNotImplemented, "WebSocket support is disabled")
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}
	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}
