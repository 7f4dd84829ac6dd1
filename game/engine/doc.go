// Package engine implements the authoritative game state machine: the
// terrain table, the immutable world map, and the single-goroutine engine
// actor that validates movement, decays the idle state, and runs the demo
// progress task.
//
// The engine communicates with the render side exclusively through an
// asynchronous command inbox and per-subscriber event channels; no player
// state is ever shared mutably across goroutines.
package engine
