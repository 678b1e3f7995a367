package domain

// ApplyMove places player's piece at p and flips every captured run. It
// returns the new board and the flipped positions. When the move is not
// legal the board comes back unchanged and nothing is flipped.
func ApplyMove(b Board, player Cell, p Position) (Board, []Position) {
	if !IsLegal(b, player, p) {
		return b, nil
	}
	var flipped []Position
	for _, d := range directions {
		for _, q := range capturedRun(&b, player, p, d) {
			b.set(q, player)
			flipped = append(flipped, q)
		}
	}
	b.set(p, player)
	return b, flipped
}
