// internal/httpserver/server.go
//
// HTTP server wiring for the Connect-Four backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Local match endpoints: POST /game/, PUT /game/{id}/play.
//   - Online match endpoints under /game/online (create/join/poll/play/reset).
//   - Score endpoints backed by SQLite.
//   - AI move endpoint: POST /ai/move.
//   - Auth endpoints: /auth/* (bcrypt + JWT, cookie or bearer).
//
// Notes:
//   - The store's session state is authoritative; clients poll GET
//     /game/online/{code} and must never override the reported status.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/era91k/puissance4-go/internal/ai"
	"github.com/era91k/puissance4-go/internal/game"
	"github.com/era91k/puissance4-go/internal/score"
	"github.com/era91k/puissance4-go/internal/store"
)

// Server bundles router, session store, and score/auth persistence.
type Server struct {
	r      *chi.Mux
	store  store.Store
	scores *score.Store
	users  *UserStore
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, scores *score.Store, users *UserStore) *Server {
	s := &Server{r: chi.NewRouter(), store: st, scores: scores, users: users}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"puissance4-go","endpoints":["/health","POST /game/","/game/online/*","POST /ai/move","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Local matches + scores
	s.r.Route("/game", func(r chi.Router) {
		r.Post("/", s.handleCreateMatch)
		r.Put("/{id}/play", s.handlePlay)
		r.Post("/update_score", s.handleUpdateScore)
		r.Get("/get_score/{name}", s.handleGetScore)
		r.Get("/leaderboard", s.handleLeaderboard)
		s.mountOnline(r)
	})

	// AI collaborator
	s.r.Post("/ai/move", s.handleAIMove)

	// Accounts
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------------------------- local matches ---------------------------------

// createMatchReq is the payload for POST /game/.
type createMatchReq struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// handleCreateMatch creates a local two-player session (offline and
// AI-assisted modes share it; the AI is just a move source for player 2).
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Player1 == "" {
		writeError(w, http.StatusBadRequest, "player1 is required")
		return
	}
	if req.Player2 == "" {
		req.Player2 = "Player 2"
	}
	sess, err := s.store.CreateMatch(r.Context(), req.Player1, req.Player2)
	if err != nil {
		log.Error().Err(err).Msg("create match")
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	log.Info().Str("id", sess.ID).Msg("match created")
	writeJSON(w, http.StatusOK, sess)
}

// handlePlay applies a move to a local match.
// Query params: column, player_id. Returns the move diff, row included,
// so the caller can render the piece without recomputing board diffs.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.play(w, r, chi.URLParam(r, "id"))
}

// play is shared by the local and online move endpoints.
func (s *Server) play(w http.ResponseWriter, r *http.Request, code string) {
	column, err := strconv.Atoi(r.URL.Query().Get("column"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid column")
		return
	}
	playerID, err := strconv.Atoi(r.URL.Query().Get("player_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	res, err := s.store.Play(r.Context(), code, column, playerID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeGameError maps engine/store sentinels onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotYourTurn):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrColumnFull),
		errors.Is(err, game.ErrInvalidColumn),
		errors.Is(err, game.ErrInvalidPlayer),
		errors.Is(err, store.ErrSessionExists),
		errors.Is(err, store.ErrSessionFull):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("game operation")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// ------------------------------- scores ------------------------------------

// updateScoreReq is the payload for POST /game/update_score.
type updateScoreReq struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// handleUpdateScore adds points to a named user's score.
func (s *Server) handleUpdateScore(w http.ResponseWriter, r *http.Request) {
	var req updateScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	total, err := s.scores.AddScore(r.Context(), req.Name, req.Score)
	if errors.Is(err, score.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("update score")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": req.Name, "new_score": total})
}

// handleGetScore fetches a named user's score.
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	total, err := s.scores.GetScore(r.Context(), name)
	if errors.Is(err, score.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("get score")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "score": total})
}

// handleLeaderboard returns the top scorers.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.scores.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": rows})
}

// --------------------------------- AI --------------------------------------

// handleAIMove chooses a column for the AI player.
// Body: the board as a 6x7 array of 0/1/2. Query: difficulty (optional).
func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	var board game.Board
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		writeError(w, http.StatusBadRequest, "invalid board")
		return
	}
	difficulty := r.URL.Query().Get("difficulty")
	col, err := ai.ChooseColumn(board, difficulty, game.PlayerTwo)
	if errors.Is(err, ai.ErrNoValidMove) {
		writeError(w, http.StatusBadRequest, "No valid moves available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"column": col})
}

// ------------------------------ small util ---------------------------------

// writeJSON encodes v as the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard {"error": msg} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
