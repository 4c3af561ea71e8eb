// internal/ai/ai.go
//
// Move chooser for the AI opponent. Pure: one board in, one column out,
// no I/O. The HTTP layer exposes it as POST /ai/move so the chooser stays
// swappable for a smarter service behind the same contract.
//
// Difficulty levels:
//   - easy:   uniform random over non-full columns.
//   - medium: take an immediate win if one exists, otherwise random.
//   - hard:   take a win, else block the opponent's immediate win, else
//             prefer columns near the center.

package ai

import (
	"errors"
	"math/rand"

	"github.com/era91k/puissance4-go/internal/game"
)

var ErrNoValidMove = errors.New("no valid moves available")

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// center-out column preference used as the hard-mode fallback.
var centerOrder = [game.Cols]int{3, 2, 4, 1, 5, 0, 6}

// ChooseColumn picks a column for player on the given board.
// Unknown difficulty strings fall back to easy so the endpoint always
// answers with some valid move.
func ChooseColumn(b game.Board, difficulty string, player game.Cell) (int, error) {
	valid := b.ValidColumns()
	if len(valid) == 0 {
		return -1, ErrNoValidMove
	}

	switch difficulty {
	case DifficultyMedium:
		if col, ok := winningColumn(b, player); ok {
			return col, nil
		}
	case DifficultyHard:
		if col, ok := winningColumn(b, player); ok {
			return col, nil
		}
		if col, ok := winningColumn(b, opponent(player)); ok {
			return col, nil
		}
		for _, col := range centerOrder {
			if _, err := b.LowestEmptyRow(col); err == nil {
				return col, nil
			}
		}
	}
	return valid[rand.Intn(len(valid))], nil
}

// winningColumn scans for a column whose drop immediately wins for p.
// Simulation happens on a copy; the caller's board is never mutated.
func winningColumn(b game.Board, p game.Cell) (int, bool) {
	for col := 0; col < game.Cols; col++ {
		trial := b
		row, err := trial.Drop(col, p)
		if err != nil {
			continue
		}
		if game.Wins(&trial, row, col, p) {
			return col, true
		}
	}
	return -1, false
}

func opponent(p game.Cell) game.Cell {
	if p == game.PlayerOne {
		return game.PlayerTwo
	}
	return game.PlayerOne
}
