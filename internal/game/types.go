// internal/game/types.go
//
// Core type definitions for the Connect-Four engine.
// Defines:
//   - Cell: one grid position (empty / player 1 / player 2).
//   - Board: the fixed 6x7 grid, row 0 at the top.
//   - Status: session lifecycle state.
//   - Player, Session, MoveResult: the authoritative match state and the
//     per-move diff returned to callers.

package game

// Cell is the occupant of a single board position.
// JSON-encodes as 0/1/2, which is the wire format clients exchange.
type Cell uint8

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

// Board dimensions. Rows are indexed 0 (top) to 5 (bottom), columns 0-6.
const (
	Rows   = 6
	Cols   = 7
	RunLen = 4 // pieces in a row needed to win
)

// Board is the full grid. Value semantics: copying a Board copies the grid,
// which the sync client relies on for its render shadow.
type Board [Rows][Cols]Cell

// Status is the lifecycle state of a session.
// "waiting" only occurs for online sessions before the second player joins.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
	StatusWon     Status = "won"
	StatusDraw    Status = "draw"
)

// Player identifies one participant. ID is 1 or 2 and doubles as the cell
// value the player's pieces occupy.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Session is one Connect-Four match: the authoritative board, whose turn it
// is, and where the match is in its lifecycle. Mutated only through
// ApplyMove, Join, and Reset.
type Session struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	Player1     string `json:"player1"`
	Player2     string `json:"player2,omitempty"`
	Board       Board  `json:"board"`
	CurrentTurn int    `json:"current_turn"`
	Status      Status `json:"status"`
	WinnerID    int    `json:"winner_id,omitempty"`
}

// MoveResult is the diff returned by ApplyMove. Row is the row the piece
// landed in, reported so a renderer can place the piece without recomputing
// board diffs.
type MoveResult struct {
	Row         int    `json:"row"`
	Column      int    `json:"column"`
	PlayerID    int    `json:"player_id"`
	Board       Board  `json:"board"`
	Status      Status `json:"status"`
	CurrentTurn int    `json:"current_turn"`
	WinnerID    int    `json:"winner_id,omitempty"`
}

// Coord is a single board coordinate, used for winning-line highlighting.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
