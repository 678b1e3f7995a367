package domain

// directions are the eight ray offsets shared by validation and capture:
// up, down, left, right, then the four diagonals.
var directions = [8]Position{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: -1, Col: -1},
	{Row: -1, Col: 1},
	{Row: 1, Col: -1},
	{Row: 1, Col: 1},
}

// Directions returns a copy of the ray table.
func Directions() [8]Position { return directions }

// capturedRun walks from `from` along d and returns the opponent cells that
// a move by player at `from` would capture in that direction. The run only
// counts when it is non-empty and ends, in bounds, on one of player's cells.
func capturedRun(b *Board, player Cell, from, d Position) []Position {
	opp := Opponent(player)
	var run []Position
	p := from.add(d)
	for p.InBounds() && b.At(p) == opp {
		run = append(run, p)
		p = p.add(d)
	}
	if len(run) == 0 || !p.InBounds() || b.At(p) != player {
		return nil
	}
	return run
}
