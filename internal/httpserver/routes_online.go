// internal/httpserver/routes_online.go
//
// HTTP routes for online (two-client, server-relayed) play.
// Endpoints under /game/online:
//   - POST /game/online            → create a session under a chosen code
//   - POST /game/online/join       → take the second player slot
//   - GET  /game/online/{code}     → poll the authoritative snapshot
//   - PUT  /game/online/{code}/play  → apply a move
//   - PUT  /game/online/{code}/reset → back to active with a blank board
//
// Clients synchronize by polling the snapshot at a fixed interval (the
// shipped client uses 2s) and submit moves directly; the snapshot returned
// here is the ground truth for board, turn, status, and winner.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/era91k/puissance4-go/internal/store"
)

// onlineReq is the payload for create and join.
type onlineReq struct {
	PlayerName string `json:"playerName"`
	GameCode   string `json:"gameCode"`
}

// mountOnline registers the /online subtree on the /game route group.
func (s *Server) mountOnline(r chi.Router) {
	r.Route("/online", func(r chi.Router) {
		r.Post("/", s.handleCreateOnline)
		r.Post("/join", s.handleJoinOnline)
		r.Get("/{code}", s.handleOnlineSnapshot)
		r.Put("/{code}/play", s.handleOnlinePlay)
		r.Put("/{code}/reset", s.handleOnlineReset)
		r.Patch("/{code}/reset", s.handleOnlineReset)
	})
}

// handleCreateOnline creates a session keyed by a human-chosen code.
// The session waits until a second player joins.
func (s *Server) handleCreateOnline(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeOnlineReq(w, r)
	if !ok {
		return
	}
	sess, err := s.store.CreateOnline(r.Context(), req.GameCode, req.PlayerName)
	if errors.Is(err, store.ErrSessionExists) {
		writeError(w, http.StatusBadRequest, "Game code already exists.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("code", req.GameCode).Msg("create online game")
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	log.Info().Str("code", sess.Code).Str("player", req.PlayerName).Msg("online game created")
	writeJSON(w, http.StatusOK, sess)
}

// handleJoinOnline fills the second player slot of an existing code.
func (s *Server) handleJoinOnline(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeOnlineReq(w, r)
	if !ok {
		return
	}
	sess, err := s.store.Join(r.Context(), req.GameCode, req.PlayerName)
	if errors.Is(err, store.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "Game not found.")
		return
	}
	if errors.Is(err, store.ErrSessionFull) {
		writeError(w, http.StatusBadRequest, "Game already has two players.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("code", req.GameCode).Msg("join online game")
		writeError(w, http.StatusInternalServerError, "join_failed")
		return
	}
	log.Info().Str("code", sess.Code).Str("player", req.PlayerName).Msg("player joined")
	writeJSON(w, http.StatusOK, sess)
}

// handleOnlineSnapshot serves one poll tick: the full authoritative state.
func (s *Server) handleOnlineSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "code"))
	if errors.Is(err, store.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "Game not found.")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// handleOnlinePlay applies a move in an online session.
func (s *Server) handleOnlinePlay(w http.ResponseWriter, r *http.Request) {
	s.play(w, r, chi.URLParam(r, "code"))
}

// handleOnlineReset blanks the session back to active, turn 1.
// Player identities and scores are retained.
func (s *Server) handleOnlineReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Reset(r.Context(), chi.URLParam(r, "code"))
	if errors.Is(err, store.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "Game not found.")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	log.Info().Str("code", sess.Code).Msg("online game reset")
	writeJSON(w, http.StatusOK, sess)
}

// decodeOnlineReq parses and validates the create/join payload.
func decodeOnlineReq(w http.ResponseWriter, r *http.Request) (onlineReq, bool) {
	var req onlineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return req, false
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	req.GameCode = strings.TrimSpace(req.GameCode)
	if req.PlayerName == "" || req.GameCode == "" {
		writeError(w, http.StatusBadRequest, "playerName and gameCode are required")
		return req, false
	}
	return req, true
}
