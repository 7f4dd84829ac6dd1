package websocket

import (
	"terrainwalk/game/engine"
)

// Relay consumes one session's engine events and republishes them to the
// hub as UI notifications. It returns when the subscription channel is
// closed, i.e. when the engine is torn down.
func Relay(hub *Hub, sessionID string, events <-chan engine.Event) {
	for ev := range events {
		hub.Broadcast(FromEvent(sessionID, ev))
	}
}
