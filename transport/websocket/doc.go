// Package websocket fans engine events out to browser-side presentation
// components as UI notifications. Each notification carries a state
// snapshot plus the static terrain color/name lookups, so consumers never
// reach into engine-owned state.
package websocket
