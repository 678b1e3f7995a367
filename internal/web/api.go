package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/rs/zerolog/hlog"
)

// Error codes carried in Snapshot.Error.
const (
	codeGameOver    = "game_over"
	codeOccupied    = "occupied"
	codeOutOfBounds = "out_of_bounds"
	codeIllegalMove = "illegal_move"
	codeNotFound    = "not_found"
	codeBadRequest  = "bad_request"
)

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("write json")
	}
}

func (h *handlers) apiCreate(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create game")
		writeJSON(w, r, http.StatusInternalServerError, errorJSON{Error: "internal"})
		return
	}
	w.Header().Set("Location", "/api/games/"+gs.ID+"/state")
	writeJSON(w, r, http.StatusCreated, newSnapshot(*gs))
}

func (h *handlers) apiState(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, r, http.StatusNotFound, errorJSON{Error: codeNotFound})
		return
	}
	writeJSON(w, r, http.StatusOK, newSnapshot(*gs))
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req MoveJSON
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorJSON{Error: codeBadRequest})
		return
	}

	gs, err := h.svc.Play(id, domain.Position{Row: req.Row, Col: req.Col})
	if errors.Is(err, app.ErrNotFound) {
		writeJSON(w, r, http.StatusNotFound, errorJSON{Error: codeNotFound})
		return
	}
	snap := newSnapshot(*gs)
	status := http.StatusOK
	if err != nil {
		status, snap.Error = moveErrorStatus(err)
	}
	writeJSON(w, r, status, snap)
}

// moveErrorStatus maps a rejected move to its HTTP status and error code.
func moveErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict, codeGameOver
	case errors.Is(err, domain.ErrOccupied):
		return http.StatusUnprocessableEntity, codeOccupied
	case errors.Is(err, domain.ErrOutOfBounds):
		return http.StatusUnprocessableEntity, codeOutOfBounds
	default:
		return http.StatusUnprocessableEntity, codeIllegalMove
	}
}
