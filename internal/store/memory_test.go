package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/era91k/puissance4-go/internal/game"
)

func TestCreateOnlineDuplicateCode(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.CreateOnline(ctx, "ROOM1", "alice")
	require.NoError(t, err)

	_, err = st.CreateOnline(ctx, "ROOM1", "mallory")
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestJoinLifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.CreateOnline(ctx, "ROOM1", "alice")
	require.NoError(t, err)

	s, err := st.Join(ctx, "ROOM1", "bob")
	require.NoError(t, err)
	assert.Equal(t, game.StatusActive, s.Status)

	// Second and third join attempts against an active code both fail.
	_, err = st.Join(ctx, "ROOM1", "carol")
	assert.ErrorIs(t, err, ErrSessionFull)
	_, err = st.Join(ctx, "ROOM1", "dave")
	assert.ErrorIs(t, err, ErrSessionFull)

	_, err = st.Join(ctx, "NOPE", "bob")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetReturnsSnapshotCopy(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.CreateOnline(ctx, "ROOM1", "alice")
	require.NoError(t, err)
	_, err = st.Join(ctx, "ROOM1", "bob")
	require.NoError(t, err)

	snap, err := st.Get(ctx, "ROOM1")
	require.NoError(t, err)
	snap.Board[5][0] = game.PlayerOne // mutating the copy

	fresh, err := st.Get(ctx, "ROOM1")
	require.NoError(t, err)
	assert.Equal(t, game.Empty, fresh.Board[5][0])
}

func TestPlayPropagatesEngineErrors(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.CreateOnline(ctx, "ROOM1", "alice")
	require.NoError(t, err)
	_, err = st.Join(ctx, "ROOM1", "bob")
	require.NoError(t, err)

	_, err = st.Play(ctx, "ROOM1", 3, 2)
	assert.ErrorIs(t, err, game.ErrNotYourTurn)

	res, err := st.Play(ctx, "ROOM1", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, game.Rows-1, res.Row)
	assert.Equal(t, 2, res.CurrentTurn)

	_, err = st.Play(ctx, "NOPE", 3, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResetBlanksSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.CreateOnline(ctx, "ROOM1", "alice")
	require.NoError(t, err)
	_, err = st.Join(ctx, "ROOM1", "bob")
	require.NoError(t, err)
	_, err = st.Play(ctx, "ROOM1", 3, 1)
	require.NoError(t, err)

	s, err := st.Reset(ctx, "ROOM1")
	require.NoError(t, err)
	assert.Equal(t, game.StatusActive, s.Status)
	assert.Equal(t, 1, s.CurrentTurn)
	assert.Equal(t, game.NewBoard(), s.Board)
	assert.Equal(t, "alice", s.Player1)
}

func TestCreateMatchAssignsID(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	s, err := st.CreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, game.StatusActive, s.Status)

	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

// Both players hammer the same session concurrently; the per-session lock
// must keep exactly one move per turn, so pieces placed equals turns taken.
func TestPlayIsAtomicPerSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.CreateOnline(ctx, "ROOM1", "alice")
	require.NoError(t, err)
	_, err = st.Join(ctx, "ROOM1", "bob")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, pid := range []int{1, 2} {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				// Spread across columns so the board doesn't fill a column.
				_, _ = st.Play(ctx, "ROOM1", i%game.Cols, pid)
			}
		}(pid)
	}
	wg.Wait()

	snap, err := st.Get(ctx, "ROOM1")
	require.NoError(t, err)

	var one, two int
	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Cols; col++ {
			switch snap.Board[row][col] {
			case game.PlayerOne:
				one++
			case game.PlayerTwo:
				two++
			}
		}
	}
	// Turns alternate strictly, so the counts never drift more than one
	// apart regardless of request interleaving.
	assert.LessOrEqual(t, one-two, 1)
	assert.LessOrEqual(t, two-one, 1)
}
