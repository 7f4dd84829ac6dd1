// Package mcp provides the Model Context Protocol surface for the terrain
// exploration server.
//
// The package is a thin proxy: every tool call is translated into a REST
// API request, so MCP agents and HTTP clients always observe the same
// state. Commands stay asynchronous end to end - move and start_game
// confirm delivery, and agents re-read game_state for the outcome.
//
// MCP Tools:
//   - create_session: Create a new game session with config selection
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - delete_session: Delete a session and stop its engine
//   - start_game: Spawn the player and start the demo progress task
//   - move: Queue a single directional move
//   - game_state: Get the latest player state snapshot
//   - world_map: Render the session's terrain map as ASCII
//   - list_configs: List available map configurations
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	srv := server.NewStreamableHTTPServer(client.GetMCPServer())
//	mux.Handle("/mcp", srv)
package mcp
