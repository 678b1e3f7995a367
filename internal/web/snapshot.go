package web

import (
	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/domain"
)

// Snapshot is the JSON form of a match as served by the API and the
// WebSocket stream.
type Snapshot struct {
	ID         string     `json:"id"`
	Board      []string   `json:"board"`
	Turn       string     `json:"turn"`
	LegalMoves []MoveJSON `json:"legal_moves"`
	Counts     CountsJSON `json:"counts"`
	Status     string     `json:"status"`
	Result     string     `json:"result"`
	Moves      int        `json:"moves"`
	LastMove   *MoveJSON  `json:"last_move"`
	Error      string     `json:"error"`
}

// MoveJSON is a board coordinate; it doubles as the move request body.
type MoveJSON struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CountsJSON struct {
	Black int `json:"black"`
	White int `json:"white"`
}

func newSnapshot(gs app.GameState) Snapshot {
	g := gs.Game
	s := Snapshot{
		ID:         gs.ID,
		Board:      make([]string, domain.Size),
		Turn:       g.Turn.String(),
		LegalMoves: make([]MoveJSON, 0, len(g.Legal)),
		Counts:     CountsJSON{Black: g.Black, White: g.White},
		Status:     g.Status.String(),
		Result:     g.Result.String(),
		Moves:      g.Moves,
	}
	for r := range s.Board {
		s.Board[r] = g.Board.Row(r)
	}
	for _, p := range g.Legal {
		s.LegalMoves = append(s.LegalMoves, MoveJSON{Row: p.Row, Col: p.Col})
	}
	if g.Moves > 0 {
		s.LastMove = &MoveJSON{Row: g.Last.Row, Col: g.Last.Col}
	}
	return s
}
