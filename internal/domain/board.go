package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 8

// Cell represents a board cell state. Black and White double as the two
// player identities.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

func (c Cell) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Opponent returns the other player. Empty has no opponent.
func Opponent(c Cell) Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func isPlayer(c Cell) bool { return c == Black || c == White }

// Position is a (row, col) pair on the board.
type Position struct {
	Row int
	Col int
}

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Position) add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Board is a fixed 8x8 grid stored row-major. It is a value type: assigning a
// Board copies every cell.
type Board [Size][Size]Cell

// NewBoard returns the opening position.
func NewBoard() Board {
	var b Board
	b[3][3], b[4][4] = White, White
	b[3][4], b[4][3] = Black, Black
	return b
}

// At returns the cell at p. p must be in bounds.
func (b *Board) At(p Position) Cell { return b[p.Row][p.Col] }

// Get is the bounds-checked form of At.
func (b *Board) Get(p Position) (Cell, bool) {
	if !p.InBounds() {
		return Empty, false
	}
	return b[p.Row][p.Col], true
}

func (b *Board) set(p Position, c Cell) { b[p.Row][p.Col] = c }

// Count returns the number of cells holding c.
func (b *Board) Count(c Cell) int {
	n := 0
	for r := range b {
		for _, cell := range b[r] {
			if cell == c {
				n++
			}
		}
	}
	return n
}

// Full reports whether no empty cell remains.
func (b *Board) Full() bool { return b.Count(Empty) == 0 }

// String renders the board as Size lines of '.', 'B' and 'W'.
func (b Board) String() string {
	var sb strings.Builder
	for r := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Row(r))
	}
	return sb.String()
}

// Row renders a single row the way String does.
func (b *Board) Row(r int) string {
	var buf [Size]byte
	for c, cell := range b[r] {
		buf[c] = cellSymbol(cell)
	}
	return string(buf[:])
}

func cellSymbol(c Cell) byte {
	switch c {
	case Black:
		return 'B'
	case White:
		return 'W'
	default:
		return '.'
	}
}

// ErrBadBoard is returned by ParseBoard for malformed input.
var ErrBadBoard = errors.New("malformed board")

// ParseBoard builds a board from Size rows of Size symbols each, in the
// format produced by String.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrBadBoard, Size, len(rows))
	}
	for r, line := range rows {
		if len(line) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrBadBoard, r, len(line))
		}
		for c := 0; c < Size; c++ {
			switch line[c] {
			case '.':
				b[r][c] = Empty
			case 'B':
				b[r][c] = Black
			case 'W':
				b[r][c] = White
			default:
				return b, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrBadBoard, line[c], r, c)
			}
		}
	}
	return b, nil
}
