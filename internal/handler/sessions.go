package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SessionService runs sessions, their matches and scoresheets
type SessionService interface {
	CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.Session, error)
	GetSession(ctx context.Context, id int64) (*domain.Session, error)
	ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)

	Confirm(ctx context.Context, sessionID int64, req domain.ConfirmRequest) error
	CheckIn(ctx context.Context, sessionID int64, req domain.CheckinRequest) error
	ListConfirmations(ctx context.Context, sessionID int64) ([]domain.Confirmation, error)
	ListAttendances(ctx context.Context, sessionID int64) ([]domain.Attendance, error)

	SplitTeams(ctx context.Context, sessionID int64, req domain.SplitRequest) error
	ShuffleTeams(ctx context.Context, sessionID int64) error
	ListTeams(ctx context.Context, sessionID int64) ([]domain.TeamAssignment, error)

	RecordResult(ctx context.Context, sessionID int64, req domain.ResultRequest) error
	ListResults(ctx context.Context, sessionID int64) ([]domain.Result, error)
	RecordPlayerStat(ctx context.Context, sessionID int64, stat domain.PlayerStat) error
	ListPlayerStats(ctx context.Context, sessionID int64) ([]domain.PlayerStat, error)

	VoteElection(ctx context.Context, sessionID int64, req domain.ElectionRequest) error
	ListElectionVotes(ctx context.Context, sessionID int64) ([]domain.ElectionVote, error)
	VoteGoal(ctx context.Context, sessionID int64, req domain.GoalVoteRequest) error
	ListGoalVotes(ctx context.Context, sessionID int64) ([]domain.GoalVote, error)

	CreateMatch(ctx context.Context, sessionID int64) (*domain.Match, error)
	GetMatch(ctx context.Context, id int64) (*domain.Match, error)
	ListMatches(ctx context.Context, sessionID int64) ([]domain.Match, error)
	FinishMatch(ctx context.Context, id int64) error
	ShuffleMatchTeams(ctx context.Context, matchID int64, req domain.MatchShuffleRequest) error
	SplitMatchTeams(ctx context.Context, matchID int64, req domain.SplitRequest) error
	ListMatchTeams(ctx context.Context, matchID int64) ([]domain.TeamAssignment, error)
	RecordMatchResult(ctx context.Context, matchID int64, req domain.ResultRequest) error
	ListMatchResults(ctx context.Context, matchID int64) ([]domain.Result, error)
	RecordMatchPlayerStat(ctx context.Context, matchID int64, stat domain.PlayerStat) error
	ListMatchPlayerStats(ctx context.Context, matchID int64) ([]domain.PlayerStat, error)

	IngestEvents(ctx context.Context, events []domain.ScoresheetEvent) domain.IngestReport
}

func (h *Handler) sessionRoutes(r chi.Router) {
	r.Get("/", h.ListSessions)
	r.Post("/", h.CreateSession)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)

		r.Post("/confirmar", h.Confirm)
		r.Post("/checkin", h.CheckIn)
		r.Get("/confirmacoes", h.ListConfirmations)
		r.Get("/presencas", h.ListAttendances)

		r.Post("/dividir-times", h.SplitTeams)
		r.Post("/sortear-times", h.ShuffleTeams)
		r.Get("/times", h.ListTeams)

		r.Post("/resultado", h.RecordResult)
		r.Get("/resultados", h.ListResults)
		r.Post("/estatisticas", h.RecordPlayerStat)
		r.Get("/estatisticas", h.ListPlayerStats)

		r.Post("/eleicao", h.VoteElection)
		r.Get("/eleicoes", h.ListElectionVotes)
		r.Post("/gol-mais-bonito", h.VoteGoal)
		r.Get("/gols-mais-bonitos", h.ListGoalVotes)

		r.Get("/partidas", h.ListMatches)
		r.Post("/partidas", h.CreateMatch)
	})
}

// CreateSession schedules a session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.sessions.CreateSession(r.Context(), req)
	if err != nil {
		h.handleError(w, err, "create session")
		return
	}
	h.writeCreated(w, session)
}

// ListSessions returns sessions filtered by grupo_id, inicio and fim
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	filter := domain.SessionFilter{Period: periodQuery(r)}
	if raw := r.URL.Query().Get("grupo_id"); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || groupID <= 0 {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: grupo_id must be a positive integer", domain.ErrInvalidRequest))
			return
		}
		filter.GroupID = groupID
	}

	sessions, err := h.sessions.ListSessions(r.Context(), filter)
	if err != nil {
		h.handleError(w, err, "list sessions")
		return
	}
	h.writeSuccess(w, sessions)
}

// GetSession returns a session by id
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get session")
		return
	}
	h.writeSuccess(w, session)
}

// Confirm records a member's RSVP
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.ConfirmRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.Confirm(r.Context(), id, req); err != nil {
		h.handleError(w, err, "confirm presence")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "recorded"})
}

// CheckIn records a member's actual presence
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.CheckinRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.CheckIn(r.Context(), id, req); err != nil {
		h.handleError(w, err, "check in")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "recorded"})
}

// ListConfirmations returns the RSVPs of a session
func (h *Handler) ListConfirmations(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list confirmations", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListConfirmations(ctx, id)
	})
}

// ListAttendances returns the check-ins of a session
func (h *Handler) ListAttendances(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list attendances", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListAttendances(ctx, id)
	})
}

// SplitTeams stores a manual team split for a session
func (h *Handler) SplitTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.SplitRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.SplitTeams(r.Context(), id, req); err != nil {
		h.handleError(w, err, "split teams")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "teams defined"})
}

// ShuffleTeams draws the session teams among present members
func (h *Handler) ShuffleTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessions.ShuffleTeams(r.Context(), id); err != nil {
		h.handleError(w, err, "shuffle teams")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "teams drawn"})
}

// ListTeams returns the session teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list teams", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListTeams(ctx, id)
	})
}

// RecordResult stores a team's goals for the session
func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.ResultRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.RecordResult(r.Context(), id, req); err != nil {
		h.handleError(w, err, "record result")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "recorded"})
}

// ListResults returns the session results
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list results", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListResults(ctx, id)
	})
}

// RecordPlayerStat stores a member's numbers for the session
func (h *Handler) RecordPlayerStat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var stat domain.PlayerStat
	if !h.decode(w, r, &stat) {
		return
	}

	if err := h.sessions.RecordPlayerStat(r.Context(), id, stat); err != nil {
		h.handleError(w, err, "record player stat")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "recorded"})
}

// ListPlayerStats returns the session player statistics
func (h *Handler) ListPlayerStats(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list player stats", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListPlayerStats(ctx, id)
	})
}

// VoteElection casts an award vote
func (h *Handler) VoteElection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.ElectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.VoteElection(r.Context(), id, req); err != nil {
		h.handleError(w, err, "vote election")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "vote counted"})
}

// ListElectionVotes returns the award tallies of a session
func (h *Handler) ListElectionVotes(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list election votes", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListElectionVotes(ctx, id)
	})
}

// VoteGoal casts a best-goal vote
func (h *Handler) VoteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.GoalVoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.sessions.VoteGoal(r.Context(), id, req); err != nil {
		h.handleError(w, err, "vote goal")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "vote counted"})
}

// ListGoalVotes returns the best-goal tallies of a session
func (h *Handler) ListGoalVotes(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list goal votes", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListGoalVotes(ctx, id)
	})
}

// CreateMatch opens the next match of a session
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	match, err := h.sessions.CreateMatch(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "create match")
		return
	}
	h.writeCreated(w, match)
}

// ListMatches returns the matches of a session
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	h.readByID(w, r, "list matches", func(ctx context.Context, id int64) (any, error) {
		return h.sessions.ListMatches(ctx, id)
	})
}

// readByID answers a read keyed by the {id} URL parameter
func (h *Handler) readByID(w http.ResponseWriter, r *http.Request, action string, list func(context.Context, int64) (any, error)) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	data, err := list(r.Context(), id)
	if err != nil {
		h.handleError(w, err, action)
		return
	}
	h.writeSuccess(w, data)
}
