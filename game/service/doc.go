// Package service defines the GameService interface consumed by the REST,
// WebSocket and MCP transports, and its implementation over the session and
// config managers. Commands stay asynchronous end to end: the service
// reports delivery, and results arrive as engine events.
package service
