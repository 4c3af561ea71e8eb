// internal/game/session.go
//
// Session state machine.
// Lifecycle: waiting (online, one player) → active → won | draw.
// From a terminal state an explicit Reset returns to active with a blank
// board and turn 1, keeping player identities. All mutation goes through
// ApplyMove / Join / Reset; ApplyMove validates fully before touching any
// state so a rejection can never leave a half-applied move.
//
// Concurrency note: a Session is not self-locking. The store serializes
// ApplyMove per session; without that, two near-simultaneous requests could
// both read CurrentTurn before either writes the result.

package game

// NewSession creates an online session identified by a human-chosen code.
// It starts in "waiting" until a second player joins.
func NewSession(code, player1 string) *Session {
	return &Session{
		ID:          code,
		Code:        code,
		Player1:     player1,
		Board:       NewBoard(),
		CurrentTurn: 1,
		Status:      StatusWaiting,
	}
}

// NewMatch creates a local match with both players known up front,
// immediately active.
func NewMatch(id, player1, player2 string) *Session {
	return &Session{
		ID:          id,
		Player1:     player1,
		Player2:     player2,
		Board:       NewBoard(),
		CurrentTurn: 1,
		Status:      StatusActive,
	}
}

// Join fills the second player slot and moves a waiting session to active.
// Fails with ErrNotJoinable if both slots are already taken.
func (s *Session) Join(player2 string) error {
	if s.Player2 != "" {
		return ErrNotJoinable
	}
	s.Player2 = player2
	s.Status = StatusActive
	return nil
}

// ApplyMove validates and applies one move for playerID in column col.
//
// Rejections, in order, none of which change any state:
//   - ErrInvalidPlayer: playerID is not 1 or 2.
//   - ErrGameOver: session is not active (waiting or terminal).
//   - ErrNotYourTurn: playerID does not hold the turn.
//   - ErrInvalidColumn / ErrColumnFull: per the board model.
//
// On success the piece is placed, win is checked before draw (a move that
// fills the board and wins reports won, never draw), and the turn flips
// only if the game continues. On a win the turn is left unchanged and
// WinnerID is set.
func (s *Session) ApplyMove(col, playerID int) (MoveResult, error) {
	if playerID != 1 && playerID != 2 {
		return MoveResult{}, ErrInvalidPlayer
	}
	if s.Status != StatusActive {
		return MoveResult{}, ErrGameOver
	}
	if playerID != s.CurrentTurn {
		return MoveResult{}, ErrNotYourTurn
	}

	row, err := s.Board.Drop(col, Cell(playerID))
	if err != nil {
		return MoveResult{}, err
	}

	switch {
	case Wins(&s.Board, row, col, Cell(playerID)):
		s.Status = StatusWon
		s.WinnerID = playerID
	case IsDraw(&s.Board):
		s.Status = StatusDraw
	default:
		s.CurrentTurn = otherPlayer(playerID)
	}

	return MoveResult{
		Row:         row,
		Column:      col,
		PlayerID:    playerID,
		Board:       s.Board,
		Status:      s.Status,
		CurrentTurn: s.CurrentTurn,
		WinnerID:    s.WinnerID,
	}, nil
}

// Reset blanks the board and returns the session to active with turn 1.
// Player identities (and any externally tracked scores) are untouched.
func (s *Session) Reset() {
	s.Board = NewBoard()
	s.Status = StatusActive
	s.CurrentTurn = 1
	s.WinnerID = 0
}

func otherPlayer(id int) int {
	if id == 1 {
		return 2
	}
	return 1
}
