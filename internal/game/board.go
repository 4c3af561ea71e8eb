// internal/game/board.go
//
// Board model: drop-move legality and the gravity invariant.
// A piece always lands in the lowest empty row of its column, so a cell is
// never empty while a cell above it in the same column is occupied.

package game

// NewBoard returns an all-empty 6x7 grid.
func NewBoard() Board { return Board{} }

// LowestEmptyRow returns the row index the next piece in col would land in.
// Returns ErrInvalidColumn for out-of-range columns and ErrColumnFull when
// the topmost cell of col is already occupied.
func (b *Board) LowestEmptyRow(col int) (int, error) {
	if col < 0 || col >= Cols {
		return -1, ErrInvalidColumn
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// Drop places player's piece in col and returns the row it landed in.
// The grid is the only thing mutated; rendering and networking are the
// caller's problem.
func (b *Board) Drop(col int, player Cell) (int, error) {
	if player != PlayerOne && player != PlayerTwo {
		return -1, ErrInvalidPlayer
	}
	row, err := b.LowestEmptyRow(col)
	if err != nil {
		return -1, err
	}
	b[row][col] = player
	return row, nil
}

// Full reports whether every cell is occupied (draw precondition).
func (b *Board) Full() bool {
	for col := 0; col < Cols; col++ {
		if b[0][col] == Empty {
			return false
		}
	}
	return true
}

// ValidColumns lists the columns that still accept a piece.
func (b *Board) ValidColumns() []int {
	out := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if b[0][col] == Empty {
			out = append(out, col)
		}
	}
	return out
}
