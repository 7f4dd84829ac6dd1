package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"terrainwalk/game/engine"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client.baseURL != baseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, baseURL)
	}
	if client.httpClient == nil {
		t.Error("HTTP client was not initialized")
	}
	if client.mcpServer == nil {
		t.Error("MCP server was not initialized")
	}
	if client.GetMCPServer() != client.mcpServer {
		t.Error("GetMCPServer returned a different server")
	}
}

func TestApiCallDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "abc123", "config_id": "island"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var response map[string]interface{}
	if err := client.apiCall("GET", "/api/sessions/abc123", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "abc123" {
		t.Errorf("id = %v, want abc123", response["id"])
	}
}

func TestApiCallSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found: nope"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.apiCall("GET", "/api/sessions/nope", nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "session not found") {
		t.Errorf("error = %q, want the API message", err)
	}
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want text", result.Content[0])
	}
	return tc.Text
}

func TestHandleCreateSession(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         "abc123",
			"config_id":  "island",
			"created_at": time.Now(),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.handleCreateSession(context.Background(), toolRequest(map[string]interface{}{
		"config_id": "island",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotBody["config_id"] != "island" {
		t.Errorf("request body = %v, want config_id=island", gotBody)
	}
	text := textContent(t, result)
	if !strings.Contains(text, "abc123") {
		t.Errorf("result %q does not mention the session ID", text)
	}
}

func TestHandleMoveQueues(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{"accepted": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.handleMove(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "abc123",
		"direction":  "up",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotPath != "/api/sessions/abc123/move" {
		t.Errorf("path = %s", gotPath)
	}
	text := textContent(t, result)
	if !strings.Contains(text, "game_state") {
		t.Errorf("result %q should point at game_state for the outcome", text)
	}
}

func TestHandleGameStateNotStarted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"started": false})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.handleGameState(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "abc123",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := textContent(t, result)
	if !strings.Contains(text, "not started") {
		t.Errorf("result = %q, want a not-started notice", text)
	}
}

func TestHandleWorldMapRendersGrid(t *testing.T) {
	world := engine.DefaultWorldMap()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"world": world})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.handleWorldMap(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "abc123",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := textContent(t, result)
	lines := strings.Split(text, "\n")
	var gridLines int
	for _, line := range lines {
		if len(line) == world.Width && strings.ContainsAny(line, "~.T^,=%n") {
			gridLines++
		}
	}
	if gridLines != world.Height {
		t.Errorf("rendered %d map rows, want %d", gridLines, world.Height)
	}
}

func TestFormatPlayerState(t *testing.T) {
	state := &engine.PlayerState{
		Position:       engine.Position{X: 2, Y: 2},
		Facing:         engine.Down,
		CurrentTerrain: engine.Grassland,
		IdleState:      engine.IdleActive,
		Message:        "Welcome to the island!",
	}
	text := formatPlayerState(state)
	for _, want := range []string{"(2, 2)", "Grassland", "active", "Welcome"} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted state missing %q:\n%s", want, text)
		}
	}
	if formatPlayerState(nil) == "" {
		t.Error("nil state should still format")
	}
}
