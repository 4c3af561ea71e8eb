// internal/client/poller.go
//
// Client-pull synchronization for online play.
//
// A Poller fetches the session snapshot at a fixed interval (2s by
// default) and reconciles it against a locally kept shadow of the last
// rendered board:
//   - pieces are rendered only for cells that went empty→occupied since
//     the previous snapshot, so a drop animation plays once per piece;
//   - the active→won/draw edge fires its side effects exactly once, then a
//     flag suppresses re-triggering while the status stays terminal;
//   - a terminal→active transition (remote reset) blanks the shadow and
//     re-enables play;
//   - local input is enabled iff the session is active and it is this
//     player's turn.
//
// Reconcile is a pure function of the latest snapshot, not of message
// order, so re-applying the same snapshot is a no-op and move responses
// can be applied optimistically ahead of the next tick. A failed poll is
// logged and skipped; the next tick retries.

package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/era91k/puissance4-go/internal/game"
)

// DefaultPollInterval is the polling period used when none is given.
const DefaultPollInterval = 2 * time.Second

// Renderer receives the visual side effects of reconciliation. Implemented
// by the UI layer; all methods are invoked from the Poller's goroutine.
type Renderer interface {
	// PlacePiece renders one newly arrived piece at (row, col).
	PlacePiece(row, col int, player game.Cell)
	// ClearBoard blanks the rendered board (remote reset).
	ClearBoard()
	// SetInputEnabled toggles whether the local player may move.
	SetInputEnabled(enabled bool)
	// GameWon fires once when the session transitions to won.
	GameWon(winnerID int)
	// GameDraw fires once when the session transitions to draw.
	GameDraw()
}

// Poller keeps one client's rendering consistent with the authoritative
// server state. Play may be called while Run's goroutine is polling; a
// mutex serializes reconciliation so the shadow state stays coherent.
type Poller struct {
	client   *Client
	render   Renderer
	playerID int
	interval time.Duration

	mu              sync.Mutex
	shadow          game.Board // last rendered board
	lastStatus      game.Status
	terminalHandled bool
}

// NewPoller builds a Poller for the local player with the given id.
// A non-positive interval falls back to DefaultPollInterval.
func NewPoller(c *Client, r Renderer, playerID int, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:     c,
		render:     r,
		playerID:   playerID,
		interval:   interval,
		lastStatus: game.StatusWaiting,
	}
}

// Run polls until ctx is cancelled. Fetch failures skip the tick.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := p.client.Snapshot(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn().Err(err).Str("code", p.client.code).Msg("poll tick failed")
				continue
			}
			p.Reconcile(snap)
		}
	}
}

// Play submits a move and, on success, applies the response locally right
// away (apply-then-confirm) so the mover's UI does not wait for the next
// poll tick. Errors are returned for the caller to surface; nothing is
// rendered on failure.
func (p *Poller) Play(ctx context.Context, column int) (game.MoveResult, error) {
	res, err := p.client.Play(ctx, column, p.playerID)
	if err != nil {
		return game.MoveResult{}, err
	}
	p.Reconcile(game.Session{
		Board:       res.Board,
		Status:      res.Status,
		CurrentTurn: res.CurrentTurn,
		WinnerID:    res.WinnerID,
	})
	return res, nil
}

// Reconcile folds one authoritative snapshot into the rendered state.
// Idempotent: feeding the same snapshot twice changes nothing. Safe to
// call from multiple goroutines; Renderer callbacks happen under the lock.
func (p *Poller) Reconcile(snap game.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Remote reset: the session left a terminal state, or a previously
	// rendered cell is empty again. Start over from a blank board.
	if (isTerminal(p.lastStatus) && snap.Status == game.StatusActive) || removesPieces(&p.shadow, &snap.Board) {
		p.render.ClearBoard()
		p.shadow = game.NewBoard()
		p.terminalHandled = false
	}

	// Render only pieces that arrived since the last snapshot.
	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Cols; col++ {
			if p.shadow[row][col] == game.Empty && snap.Board[row][col] != game.Empty {
				p.render.PlacePiece(row, col, snap.Board[row][col])
			}
		}
	}
	p.shadow = snap.Board

	// Terminal side effects fire once per transition into the state.
	if isTerminal(snap.Status) && !p.terminalHandled {
		p.terminalHandled = true
		switch snap.Status {
		case game.StatusWon:
			p.render.GameWon(snap.WinnerID)
		case game.StatusDraw:
			p.render.GameDraw()
		}
	}

	p.render.SetInputEnabled(snap.Status == game.StatusActive && snap.CurrentTurn == p.playerID)
	p.lastStatus = snap.Status
}

func isTerminal(s game.Status) bool {
	return s == game.StatusWon || s == game.StatusDraw
}

// removesPieces reports whether next lost pieces relative to prev, which
// only happens when the server board was reset.
func removesPieces(prev, next *game.Board) bool {
	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Cols; col++ {
			if prev[row][col] != game.Empty && next[row][col] == game.Empty {
				return true
			}
		}
	}
	return false
}
