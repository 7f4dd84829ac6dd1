// Package api provides the HTTP REST surface for the terrain exploration
// server.
//
// Endpoints:
//
// Session management:
//   - POST   /api/sessions       - Create a session (optional config_id)
//   - GET    /api/sessions       - List sessions (sort, order, limit params)
//   - GET    /api/sessions/{id}  - Get one session
//   - DELETE /api/sessions/{id}  - Delete a session and stop its engine
//
// Game operations (asynchronous, results arrive over /ws):
//   - POST /api/sessions/{id}/start - Queue the start command
//   - POST /api/sessions/{id}/move  - Queue a move command
//   - GET  /api/sessions/{id}/state - Latest player state snapshot
//   - GET  /api/sessions/{id}/map   - World layout plus terrain lookups
//
// Configuration:
//   - GET /api/configs - List available map configurations
//
// WebSocket:
//   - GET /ws?session={id} - Stream engine events for a session
//
// All endpoints accept and return JSON. Errors are returned as
// {"error": "message"} with an appropriate HTTP status code.
package api
