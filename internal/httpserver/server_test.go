package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/era91k/puissance4-go/internal/game"
	"github.com/era91k/puissance4-go/internal/score"
	"github.com/era91k/puissance4-go/internal/store"
)

const testSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL,
    score         INTEGER NOT NULL DEFAULT 0
);
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // a :memory: db lives in a single connection
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return New(store.NewMemoryStore(), score.NewStore(db), NewUserStore(db))
}

// do runs a request through the router and returns the recorder.
func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestOnlineLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/game/online", onlineReq{PlayerName: "alice", GameCode: "ROOM1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess := decode[game.Session](t, rec)
	assert.Equal(t, game.StatusWaiting, sess.Status)
	assert.Equal(t, "alice", sess.Player1)

	// Moves are rejected until a second player joins.
	rec = do(t, s, http.MethodPut, "/game/online/ROOM1/play?column=0&player_id=1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/online/join", onlineReq{PlayerName: "bob", GameCode: "ROOM1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess = decode[game.Session](t, rec)
	assert.Equal(t, game.StatusActive, sess.Status)
	assert.Equal(t, 1, sess.CurrentTurn)

	// Player 2 cannot move first.
	rec = do(t, s, http.MethodPut, "/game/online/ROOM1/play?column=0&player_id=2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Alternate until player 1 stacks four in column 0.
	moves := []struct{ col, player int }{
		{0, 1}, {1, 2}, {0, 1}, {1, 2}, {0, 1}, {1, 2},
	}
	for _, m := range moves {
		rec = do(t, s, http.MethodPut,
			fmt.Sprintf("/game/online/ROOM1/play?column=%d&player_id=%d", m.col, m.player), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = do(t, s, http.MethodPut, "/game/online/ROOM1/play?column=0&player_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[game.MoveResult](t, rec)
	assert.Equal(t, game.StatusWon, res.Status)
	assert.Equal(t, 1, res.WinnerID)
	assert.Equal(t, 2, res.Row) // fourth piece from the bottom of a 6-row board

	// The snapshot reports the same terminal state.
	rec = do(t, s, http.MethodGet, "/game/online/ROOM1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sess = decode[game.Session](t, rec)
	assert.Equal(t, game.StatusWon, sess.Status)
	assert.Equal(t, 1, sess.WinnerID)

	// No moves after the game ends.
	rec = do(t, s, http.MethodPut, "/game/online/ROOM1/play?column=3&player_id=2", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Reset keeps both players and goes straight back to active.
	rec = do(t, s, http.MethodPut, "/game/online/ROOM1/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sess = decode[game.Session](t, rec)
	assert.Equal(t, game.StatusActive, sess.Status)
	assert.Equal(t, 1, sess.CurrentTurn)
	assert.Equal(t, 0, sess.WinnerID)
	assert.Equal(t, "bob", sess.Player2)
	assert.Equal(t, game.NewBoard(), sess.Board)
}

func TestOnlineCreateDuplicateCode(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/game/online", onlineReq{PlayerName: "alice", GameCode: "DUP"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/game/online", onlineReq{PlayerName: "carol", GameCode: "DUP"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Game code already exists.")
}

func TestOnlineJoinErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/game/online/join", onlineReq{PlayerName: "bob", GameCode: "NOPE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Game not found.")

	do(t, s, http.MethodPost, "/game/online", onlineReq{PlayerName: "alice", GameCode: "FULL"})
	do(t, s, http.MethodPost, "/game/online/join", onlineReq{PlayerName: "bob", GameCode: "FULL"})
	rec = do(t, s, http.MethodPost, "/game/online/join", onlineReq{PlayerName: "carol", GameCode: "FULL"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Game already has two players.")
}

func TestOnlineCreateValidation(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/game/online", onlineReq{PlayerName: "  ", GameCode: "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/game/online", onlineReq{PlayerName: "alice", GameCode: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocalMatch(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/game/", createMatchReq{Player1: "alice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sess := decode[game.Session](t, rec)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, game.StatusActive, sess.Status)
	assert.Equal(t, "Player 2", sess.Player2)

	rec = do(t, s, http.MethodPut, "/game/"+sess.ID+"/play?column=3&player_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[game.MoveResult](t, rec)
	assert.Equal(t, 5, res.Row)
	assert.Equal(t, 3, res.Column)
	assert.Equal(t, 2, res.CurrentTurn)

	// Bad query params and bad columns are 400s.
	rec = do(t, s, http.MethodPut, "/game/"+sess.ID+"/play?column=abc&player_id=2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPut, "/game/"+sess.ID+"/play?column=7&player_id=2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/game/missing/play?column=0&player_id=1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocalMatchRequiresPlayer1(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/game/", createMatchReq{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIMove(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/ai/move", game.NewBoard())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[map[string]int](t, rec)
	col, ok := out["column"]
	require.True(t, ok)
	assert.GreaterOrEqual(t, col, 0)
	assert.Less(t, col, game.Cols)

	// A hard AI one move from winning must take it.
	var b game.Board
	b[5][2], b[5][3], b[5][4] = game.PlayerTwo, game.PlayerTwo, game.PlayerTwo
	rec = do(t, s, http.MethodPost, "/ai/move?difficulty=hard", b)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[map[string]int](t, rec)
	assert.Contains(t, []int{1, 5}, out["column"])

	rec = do(t, s, http.MethodPost, "/ai/move", "not a board")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/auth/register",
		registerReq{Username: "alice", Password: "hunter22"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/game/update_score", updateScoreReq{Name: "alice", Score: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[map[string]any](t, rec)
	assert.EqualValues(t, 3, got["new_score"])

	rec = do(t, s, http.MethodPost, "/game/update_score", updateScoreReq{Name: "ALICE", Score: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[map[string]any](t, rec)
	assert.EqualValues(t, 5, got["new_score"])

	rec = do(t, s, http.MethodGet, "/game/get_score/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[map[string]any](t, rec)
	assert.EqualValues(t, 5, got["score"])

	rec = do(t, s, http.MethodGet, "/game/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")

	rec = do(t, s, http.MethodPost, "/game/update_score", updateScoreReq{Name: "ghost", Score: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/game/get_score/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/auth/register",
		registerReq{Username: "alice", Password: "hunter22"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = do(t, s, http.MethodPost, "/auth/register",
		registerReq{Username: "Alice", Password: "different1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login",
		loginReq{Username: "alice", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login",
		loginReq{Username: "alice", Password: "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Gated route rejects anonymous calls and accepts the cookie.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	anon := httptest.NewRecorder()
	s.Router().ServeHTTP(anon, req)
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	s.Router().ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Contains(t, me.Body.String(), "alice")
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/auth/register", registerReq{Username: "al", Password: "hunter22"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/auth/register", registerReq{Username: "alice", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
}
