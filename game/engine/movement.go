package engine

// CanMoveTo checks whether the player may occupy the given coordinates:
// the cell must be inside the world and its terrain walkable.
func (e *Engine) CanMoveTo(x, y int) bool {
	return e.world.InBounds(x, y) && Walkable(e.world.At(x, y))
}

// CanMove checks whether a move in the given direction would succeed from
// the last published position. It reads the snapshot, so it is safe to
// call from outside the engine goroutine and never mutates state.
func (e *Engine) CanMove(d Direction) bool {
	snap, started := e.Snapshot()
	if !started {
		return false
	}
	dx, dy, ok := d.Delta()
	if !ok {
		return false
	}
	return e.CanMoveTo(snap.Position.X+dx, snap.Position.Y+dy)
}

// PossibleMoves returns every direction the player could currently move in.
func (e *Engine) PossibleMoves() []Direction {
	var possible []Direction
	for _, d := range []Direction{Up, Down, Left, Right} {
		if e.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// blockedAt reports what blocks entry to the target cell: the terrain's
// display name for an impassable cell, or "boundary" when the target is
// outside the world entirely.
func (e *Engine) blockedAt(target Position) (string, bool) {
	if !e.world.InBounds(target.X, target.Y) {
		return "boundary", true
	}
	kind := e.world.At(target.X, target.Y)
	if !Walkable(kind) {
		return DisplayName(kind), true
	}
	return "", false
}
