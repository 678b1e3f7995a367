package domain

import (
	"errors"
	"fmt"
)

// Status is the controller state.
type Status uint8

const (
	InProgress Status = iota
	Terminal
)

func (s Status) String() string {
	if s == Terminal {
		return "terminal"
	}
	return "in_progress"
}

// Result is the outcome of a terminal game.
type Result uint8

const (
	NoResult Result = iota
	BlackWins
	WhiteWins
	Draw
)

func (r Result) String() string {
	switch r {
	case BlackWins:
		return "black_wins"
	case WhiteWins:
		return "white_wins"
	case Draw:
		return "draw"
	default:
		return ""
	}
}

// Errors returned by Play. The game is left unchanged whenever one is returned.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game over")
)

// Game holds the state of an Othello match. It is an immutable value: Play
// returns a new Game and never modifies the receiver.
type Game struct {
	Board  Board
	Turn   Cell
	Legal  []Position
	Black  int
	White  int
	Status Status
	Result Result
	Moves  int
	// Last is the most recent move; valid when Moves > 0.
	Last Position

	autoPass bool
}

// Option tweaks the rules a Game is played with.
type Option func(*Game)

// WithAutoPass hands the turn back to the mover when the opponent has no
// legal move but the game is not over. Off by default.
func WithAutoPass() Option {
	return func(g *Game) { g.autoPass = true }
}

// New returns a game at the opening position with Black to move.
func New(opts ...Option) Game {
	return FromBoard(NewBoard(), Black, opts...)
}

// FromBoard builds a game from an arbitrary position with turn to move and
// evaluates termination for it.
func FromBoard(b Board, turn Cell, opts ...Option) Game {
	g := Game{Board: b, Turn: turn}
	for _, opt := range opts {
		opt(&g)
	}
	g.settle()
	return g
}

// Over reports whether the game has reached a terminal state.
func (g Game) Over() bool { return g.Status == Terminal }

// Count returns the number of pieces of the given colour.
func (g Game) Count(c Cell) int {
	switch c {
	case Black:
		return g.Black
	case White:
		return g.White
	default:
		return g.Board.Count(Empty)
	}
}

// IsLegal reports whether p is in the current legal-move set.
func (g Game) IsLegal(p Position) bool {
	for _, m := range g.Legal {
		if m == p {
			return true
		}
	}
	return false
}

// Play applies the current player's move at p and returns the resulting game.
// On error the receiver is returned as is.
func (g Game) Play(p Position) (Game, error) {
	if g.Over() {
		return g, ErrGameOver
	}
	if !p.InBounds() {
		return g, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	if g.Board.At(p) != Empty {
		return g, fmt.Errorf("%w: %v", ErrOccupied, p)
	}
	if !IsLegal(g.Board, g.Turn, p) {
		return g, fmt.Errorf("%w: %v for %v", ErrIllegalMove, p, g.Turn)
	}

	next := g
	next.Board, _ = ApplyMove(g.Board, g.Turn, p)
	next.Turn = Opponent(g.Turn)
	next.Moves++
	next.Last = p
	next.settle()

	if next.autoPass && !next.Over() && len(next.Legal) == 0 {
		next.Turn = g.Turn
		next.Legal = LegalMoves(next.Board, next.Turn)
	}
	return next, nil
}

// settle recounts pieces, recomputes the legal moves for the side to move
// and decides whether the game is over.
func (g *Game) settle() {
	g.Black = g.Board.Count(Black)
	g.White = g.Board.Count(White)
	g.Legal = LegalMoves(g.Board, g.Turn)
	g.Status, g.Result = InProgress, NoResult

	if g.Board.Full() || (!HasLegalMove(g.Board, Black) && !HasLegalMove(g.Board, White)) {
		g.Status = Terminal
		switch {
		case g.Black > g.White:
			g.Result = BlackWins
		case g.White > g.Black:
			g.Result = WhiteWins
		default:
			g.Result = Draw
		}
	}
}
