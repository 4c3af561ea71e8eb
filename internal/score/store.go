// internal/score/store.go
//
// SQLite-backed score keeping for named users.
// The game server only needs two abstract operations from the account side:
// "record win for name" and "fetch score for name"; the leaderboard is a
// convenience on top of the same table.

package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AddScore adds delta to the user's score and returns the new total.
// Fails with ErrUserNotFound for unknown names.
func (s *Store) AddScore(ctx context.Context, name string, delta int) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT score FROM users WHERE lower(username)=lower(?)`, name,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	current += delta
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET score=? WHERE lower(username)=lower(?)`, current, name,
	); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit score update: %w", err)
	}
	return current, nil
}

// GetScore returns the user's current score.
func (s *Store) GetScore(ctx context.Context, name string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM users WHERE lower(username)=lower(?)`, name,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return score, err
}

// Row is one leaderboard line.
type Row struct {
	Username string `json:"name"`
	Score    int    `json:"score"`
}

// Leaderboard returns the top scorers, highest first. Default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, score
		 FROM users
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Username, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
