// internal/game/detect.go
//
// Win detection from a just-placed piece.
// Rather than rescanning the whole grid, each of the four axes through the
// placed cell is scanned over a bounded [-3,+3] window: a run counter is
// reset on any mismatching or out-of-bounds cell and a count of four
// anywhere in the window is a win. Four axes, seven cells each, so the
// check is constant time per move.

package game

// axes through a placed cell: horizontal, vertical, diagonal down-right,
// diagonal up-right.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

// Wins reports whether the piece just placed at (row, col) by player
// completes a run of four. The first winning axis short-circuits; a move
// that happens to complete several axes at once is still a single win.
func Wins(b *Board, row, col int, player Cell) bool {
	for _, axis := range axes {
		if runOnAxis(b, row, col, axis[0], axis[1], player, nil) {
			return true
		}
	}
	return false
}

// WinningLine returns the coordinates of the four winning cells through
// (row, col), or nil if the placement did not win. Used for highlighting;
// the scan is the same as Wins but records positions.
func WinningLine(b *Board, row, col int, player Cell) []Coord {
	line := make([]Coord, 0, RunLen)
	for _, axis := range axes {
		line = line[:0]
		if runOnAxis(b, row, col, axis[0], axis[1], player, &line) {
			out := make([]Coord, RunLen)
			copy(out, line)
			return out
		}
	}
	return nil
}

// runOnAxis scans the 7-cell window centered on (row, col) along
// (dRow, dCol). When line is non-nil it accumulates the coordinates of the
// current run so the caller gets the exact four winning cells.
func runOnAxis(b *Board, row, col, dRow, dCol int, player Cell, line *[]Coord) bool {
	count := 0
	for i := -(RunLen - 1); i <= RunLen-1; i++ {
		r := row + i*dRow
		c := col + i*dCol
		if r < 0 || r >= Rows || c < 0 || c >= Cols || b[r][c] != player {
			count = 0
			if line != nil {
				*line = (*line)[:0]
			}
			continue
		}
		count++
		if line != nil {
			*line = append(*line, Coord{Row: r, Col: c})
		}
		if count >= RunLen {
			if line != nil {
				*line = (*line)[len(*line)-RunLen:]
			}
			return true
		}
	}
	return false
}

// IsDraw reports whether the board is completely full. Callers must check
// Wins first: a move that fills the last cell and wins is won, never draw.
func IsDraw(b *Board) bool { return b.Full() }
