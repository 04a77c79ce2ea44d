package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

const (
	BoardSize  = 3
	BoardCells = BoardSize * BoardSize
)

// Cell addresses a board square; X is the column and Y the row.
type Cell struct {
	X int
	Y int
}

// WinLines lists every winning line in evaluation order: rows, then columns, then diagonals.
var WinLines = [8][3]Cell{
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{2, 0}, {1, 1}, {0, 2}},
}

// Board is a 3x3 grid indexed as Board[y][x].
type Board [BoardSize][BoardSize]Mark

func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

func (that *Board) At(x, y int) Mark {
	if !InBounds(x, y) {
		return MarkNone
	}

	return that[y][x]
}

// Place puts mark on an empty in-bounds cell.
func (that *Board) Place(x, y int, mark Mark) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, x, y)
	}

	if that[y][x] != MarkNone {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, x, y)
	}

	that[y][x] = mark

	return nil
}

// Winner returns the mark completing the first matched line, or MarkNone.
func (that *Board) Winner() Mark {
	for _, line := range WinLines {
		a, b, c := that.At(line[0].X, line[0].Y), that.At(line[1].X, line[1].Y), that.At(line[2].X, line[2].Y)
		if a != MarkNone && a == b && b == c {
			return a
		}
	}

	return MarkNone
}

func (that *Board) Empty() int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == MarkNone {
				count++
			}
		}
	}

	return count
}
