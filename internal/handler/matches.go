package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) matchRoutes(r chi.Router) {
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetMatch)
		r.Post("/finalizar", h.FinishMatch)

		r.Post("/sortear-times", h.ShuffleMatchTeams)
		r.Post("/dividir-times", h.SplitMatchTeams)
		r.Get("/times", h.ListMatchTeams)

		r.Post("/resultado", h.RecordMatchResult)
		r.Get("/resultados", h.ListMatchResults)
		r.Post("/estatisticas", h.RecordMatchPlayerStat)
		r.Get("/estatisticas", h.ListMatchPlayerStats)
	})
}

// GetMatch returns a match by id
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "get match", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.GetMatch(ctx, id)
	})
}

// FinishMatch closes a match
func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessions.FinishMatch(r.Context(), id); err != nil {
		h.handleError(w, err, "finish match")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "finished"})
}

// ShuffleMatchTeams draws the match teams. The body is optional.
func (h *Handler) ShuffleMatchTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.MatchShuffleRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	if err := h.sessions.ShuffleMatchTeams(r.Context(), id, req); err != nil {
		h.handleError(w, err, "shuffle match teams")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "teams drawn"})
}

// SplitMatchTeams stores a manual team split for a match
func (h *Handler) SplitMatchTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.SplitRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.SplitMatchTeams(r.Context(), id, req); err != nil {
		h.handleError(w, err, "split match teams")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "teams defined"})
}

// ListMatchTeams returns the match teams
func (h *Handler) ListMatchTeams(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list match teams", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListMatchTeams(ctx, id)
	})
}

// RecordMatchResult stores a team's goals for the match
func (h *Handler) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.ResultRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.RecordMatchResult(r.Context(), id, req); err != nil {
		h.handleError(w, err, "record match result")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "recorded"})
}

// ListMatchResults returns the match results
func (h *Handler) ListMatchResults(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list match results", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListMatchResults(ctx, id)
	})
}

// RecordMatchPlayerStat stores a member's numbers for the match
func (h *Handler) RecordMatchPlayerStat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var stat domain.PlayerStat
	if !h.decode(w, r, &stat) {
		return
	}

	if err := h.sessions.RecordMatchPlayerStat(r.Context(), id, stat); err != nil {
		h.handleError(w, err, "record match player stat")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "recorded"})
}

// ListMatchPlayerStats returns the match player statistics
func (h *Handler) ListMatchPlayerStats(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list match player stats", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListMatchPlayerStats(ctx, id)
	})
}

// decodeOptional is decode that accepts an empty body
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidRequest))
		return false
	}
	return true
}
