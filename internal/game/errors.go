package game

import "errors"

// Sentinel errors for move validation. Matched with errors.Is by the store
// and the HTTP layer; every rejection leaves the session untouched.
var (
	ErrColumnFull    = errors.New("column is full")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrInvalidColumn = errors.New("invalid column")
	ErrInvalidPlayer = errors.New("invalid player id")
	ErrNotJoinable   = errors.New("game already has two players")
)
