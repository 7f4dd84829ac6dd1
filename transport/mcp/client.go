package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"terrainwalk/game/engine"
	"terrainwalk/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Terrain Walk",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Terrain Walk - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The game is a grid exploration demo: a player walks over an island map of
terrain tiles. Water and mountains block movement. Commands are
asynchronous - move and start confirm delivery and the state catches up a
moment later, so re-read game_state after issuing commands.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_session: Get session details
- delete_session: Delete a session
- start_game: Spawn the player and begin the background progress task
- move: Queue a single move (up/down/left/right)
- game_state: Get the latest player state
- world_map: Render the session's terrain map
- list_configs: List available map configurations`),
	)
	c.registerTools()
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional map config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the map config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and stop its engine",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to delete",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Spawn the player and start the background progress task",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"delay_ms": map[string]interface{}{
					"type":        "number",
					"description": "Per-step delay of the progress task in milliseconds (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Queue a single move. The result arrives asynchronously; check game_state afterwards.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to move: up, down, left, right",
					"enum":        []string{"up", "down", "left", "right"},
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the latest player state snapshot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_map",
		Description: "Render the session's terrain map as ASCII",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleWorldMap)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available map configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)
}

// GetMCPServer exposes the underlying MCP server for mounting on a transport
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigID, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if delay, ok := args["delay_ms"].(float64); ok && delay > 0 {
		body["delay_ms"] = int(delay)
	}

	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/start", sessionID), body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Start command queued. The player spawns at the beach camp; read game_state for the result."), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	body := map[string]string{"direction": direction}
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Move %s queued. Read game_state for the result.", direction)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Started bool                `json:"started"`
		State   *engine.PlayerState `json:"state"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !response.Started {
		return mcp.NewToolResultText("Game not started yet. Use start_game first."), nil
	}
	return mcp.NewToolResultText(formatPlayerState(response.State)), nil
}

func (c *Client) handleWorldMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		World *engine.WorldMap `json:"world"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/map", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if response.World == nil {
		return mcp.NewToolResultError("map response carried no world"), nil
	}
	return mcp.NewToolResultText(formatWorldMap(response.World)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int `json:"count"`
		Configs []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"configs"`
	}
	if err := c.apiCall("GET", "/api/configs", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Configs (%d):\n\n", response.Count)
	for _, cfg := range response.Configs {
		fmt.Fprintf(&b, "- %s: %s - %s\n", cfg.ID, cfg.Name, cfg.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatters

func formatSessionInfo(session *service.SessionInfo) string {
	s := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n",
		session.ID, session.ConfigID,
		session.CreatedAt.Format("2006-01-02 15:04:05"))
	if session.State != nil {
		s += "\n" + formatPlayerState(session.State)
	}
	return s
}

func formatPlayerState(state *engine.PlayerState) string {
	if state == nil {
		return "No state available"
	}
	return fmt.Sprintf(
		"Position: (%d, %d)\nFacing: %s\nTerrain: %s\nIdle: %s\nMoving: %v\nMessage: %s",
		state.Position.X, state.Position.Y,
		state.Facing,
		engine.DisplayName(state.CurrentTerrain),
		state.IdleState,
		state.IsMoving,
		state.Message,
	)
}

var mapGlyphs = map[engine.TerrainKind]byte{
	engine.Water:     '~',
	engine.Beach:     '.',
	engine.Forest:    'T',
	engine.Mountain:  '^',
	engine.Grassland: ',',
	engine.River:     '=',
	engine.Swamp:     '%',
	engine.Hills:     'n',
}

func formatWorldMap(world *engine.WorldMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "World map (%dx%d):\n\n", world.Width, world.Height)
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			glyph, ok := mapGlyphs[world.At(x, y)]
			if !ok {
				glyph = '?'
			}
			b.WriteByte(glyph)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nLegend: ~ water  . beach  T forest  ^ mountain  , grassland  = river  % swamp  n hills")
	return b.String()
}
