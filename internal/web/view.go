package web

import (
	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/domain"
)

// boardView is the template model for the board fragment.
type boardView struct {
	ID     string
	Rows   [domain.Size][domain.Size]cellView
	Turn   string
	Black  int
	White  int
	Over   bool
	Winner string
	Error  string
}

type cellView struct {
	Row    int
	Col    int
	Symbol string
	Legal  bool
	Last   bool
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	g := gs.Game
	v := boardView{
		ID:    gs.ID,
		Turn:  playerLabel(g.Turn),
		Black: g.Black,
		White: g.White,
		Over:  g.Over(),
		Error: errMsg,
	}
	if v.Over {
		v.Winner = winnerMessage(g.Result)
	}
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			p := domain.Position{Row: r, Col: c}
			v.Rows[r][c] = cellView{
				Row:    r,
				Col:    c,
				Symbol: cellSymbol(g.Board.At(p)),
				Legal:  !v.Over && g.IsLegal(p),
				Last:   g.Moves > 0 && g.Last == p,
			}
		}
	}
	return v
}

func cellSymbol(c domain.Cell) string {
	switch c {
	case domain.Black:
		return "●"
	case domain.White:
		return "○"
	default:
		return ""
	}
}

func playerLabel(c domain.Cell) string {
	switch c {
	case domain.Black:
		return "Player 1 (Black)"
	case domain.White:
		return "Player 2 (White)"
	default:
		return ""
	}
}

func winnerMessage(r domain.Result) string {
	switch r {
	case domain.BlackWins:
		return "Player 1 (Black) Wins!"
	case domain.WhiteWins:
		return "Player 2 (White) Wins!"
	case domain.Draw:
		return "It's a Draw!"
	default:
		return ""
	}
}
