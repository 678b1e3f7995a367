package domain

// IsLegal reports whether player may place a piece at p: the cell must be
// empty and at least one direction must capture an opponent run.
func IsLegal(b Board, player Cell, p Position) bool {
	if !isPlayer(player) || !p.InBounds() || b.At(p) != Empty {
		return false
	}
	for _, d := range directions {
		if capturedRun(&b, player, p, d) != nil {
			return true
		}
	}
	return false
}

// LegalMoves returns every legal position for player in row-major order.
func LegalMoves(b Board, player Cell) []Position {
	var moves []Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := Position{Row: r, Col: c}
			if IsLegal(b, player, p) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

// HasLegalMove is LegalMoves without the allocation; it stops at the first hit.
func HasLegalMove(b Board, player Cell) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if IsLegal(b, player, Position{Row: r, Col: c}) {
				return true
			}
		}
	}
	return false
}
