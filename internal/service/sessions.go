package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/antoniolazaro/futamadeuhub/internal/config"
	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// SessionStore persists sessions, matches and every fact recorded on them.
// Team, result and statistic methods address a match when matchID is non-zero
// and the session itself otherwise.
type SessionStore interface {
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)

	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id int64) (*domain.Session, error)
	ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)

	UpsertConfirmation(ctx context.Context, c domain.Confirmation) error
	ListConfirmations(ctx context.Context, sessionID int64) ([]domain.Confirmation, error)
	UpsertAttendance(ctx context.Context, a domain.Attendance) error
	ListAttendances(ctx context.Context, sessionID int64) ([]domain.Attendance, error)
	ListPresentAttendees(ctx context.Context, sessionID int64) ([]domain.Attendee, error)

	CreateMatch(ctx context.Context, sessionID int64) (*domain.Match, error)
	GetMatch(ctx context.Context, id int64) (*domain.Match, error)
	ListMatches(ctx context.Context, sessionID int64) ([]domain.Match, error)
	FinishMatch(ctx context.Context, id int64) error

	ReplaceTeams(ctx context.Context, sessionID, matchID int64, teams []domain.TeamAssignment) error
	ListTeams(ctx context.Context, sessionID, matchID int64) ([]domain.TeamAssignment, error)
	UpsertResult(ctx context.Context, r domain.Result) error
	ListResults(ctx context.Context, sessionID, matchID int64) ([]domain.Result, error)
	UpsertPlayerStat(ctx context.Context, s domain.PlayerStat) error
	ListPlayerStats(ctx context.Context, sessionID, matchID int64) ([]domain.PlayerStat, error)

	IncrementElectionVote(ctx context.Context, sessionID int64, kind domain.ElectionKind, memberID int64) error
	ListElectionVotes(ctx context.Context, sessionID int64) ([]domain.ElectionVote, error)
	IncrementGoalVote(ctx context.Context, sessionID, memberID int64, description string) error
	ListGoalVotes(ctx context.Context, sessionID int64) ([]domain.GoalVote, error)
}

// SessionService provides the write side of sessions and matches
type SessionService struct {
	store   SessionStore
	config  *config.TeamsConfig
	logger  *slog.Logger
	shuffle Shuffler
}

// NewSessionService creates a new session service
func NewSessionService(store SessionStore, cfg *config.TeamsConfig, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:   store,
		config:  cfg,
		logger:  logger,
		shuffle: rand.Shuffle,
	}
}

// CreateSession schedules a session for an existing group
func (s *SessionService) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	session := req.ToSession()
	if err := s.store.CreateSession(ctx, &session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session created", "session_id", session.ID, "group_id", session.GroupID, "date", session.Date)
	return &session, nil
}

// GetSession returns a session by id
func (s *SessionService) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	return s.store.GetSession(ctx, id)
}

// ListSessions returns sessions filtered by group and period, newest first
func (s *SessionService) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	if err := filter.Period.Validate(); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return nonNil(sessions), nil
}

// Confirm records or overwrites a member's RSVP
func (s *SessionService) Confirm(ctx context.Context, sessionID int64, req domain.ConfirmRequest) error {
	if err := s.ensureSessionMember(ctx, sessionID, req.MemberID); err != nil {
		return err
	}
	err := s.store.UpsertConfirmation(ctx, domain.Confirmation{
		MemberID:  req.MemberID,
		SessionID: sessionID,
		Confirmed: req.Confirmed,
	})
	if err != nil {
		return fmt.Errorf("saving confirmation: %w", err)
	}
	return nil
}

// CheckIn records or overwrites a member's presence
func (s *SessionService) CheckIn(ctx context.Context, sessionID int64, req domain.CheckinRequest) error {
	if err := s.ensureSessionMember(ctx, sessionID, req.MemberID); err != nil {
		return err
	}
	err := s.store.UpsertAttendance(ctx, domain.Attendance{
		MemberID:  req.MemberID,
		SessionID: sessionID,
		Present:   req.Present,
	})
	if err != nil {
		return fmt.Errorf("saving attendance: %w", err)
	}
	return nil
}

// ListConfirmations returns the RSVPs of a session
func (s *SessionService) ListConfirmations(ctx context.Context, sessionID int64) ([]domain.Confirmation, error) {
	list, err := s.store.ListConfirmations(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing confirmations: %w", err)
	}
	return nonNil(list), nil
}

// ListAttendances returns the check-ins of a session
func (s *SessionService) ListAttendances(ctx context.Context, sessionID int64) ([]domain.Attendance, error) {
	list, err := s.store.ListAttendances(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing attendances: %w", err)
	}
	return nonNil(list), nil
}

// SplitTeams replaces a session's teams with a manual split
func (s *SessionService) SplitTeams(ctx context.Context, sessionID int64, req domain.SplitRequest) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.applySplit(ctx, session, 0, req.Division)
}

// ShuffleTeams draws a session's teams among present attendees
func (s *SessionService) ShuffleTeams(ctx context.Context, sessionID int64) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.draw(ctx, session, 0)
}

// ListTeams returns a session's assignments ordered by team and member
func (s *SessionService) ListTeams(ctx context.Context, sessionID int64) ([]domain.TeamAssignment, error) {
	list, err := s.store.ListTeams(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing session teams: %w", err)
	}
	return nonNil(list), nil
}

// RecordResult records or overwrites a team's goals for the session
func (s *SessionService) RecordResult(ctx context.Context, sessionID int64, req domain.ResultRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.UpsertResult(ctx, domain.Result{SessionID: sessionID, Team: req.Team, Goals: req.Goals}); err != nil {
		return fmt.Errorf("saving session result: %w", err)
	}
	return nil
}

// ListResults returns a session's results ordered by team
func (s *SessionService) ListResults(ctx context.Context, sessionID int64) ([]domain.Result, error) {
	list, err := s.store.ListResults(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing session results: %w", err)
	}
	return nonNil(list), nil
}

// RecordPlayerStat records or overwrites a member's numbers for the session
func (s *SessionService) RecordPlayerStat(ctx context.Context, sessionID int64, stat domain.PlayerStat) error {
	if err := stat.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return err
	}
	stat.SessionID, stat.MatchID = sessionID, 0
	if err := s.store.UpsertPlayerStat(ctx, stat); err != nil {
		return fmt.Errorf("saving session statistics: %w", err)
	}
	return nil
}

// ListPlayerStats returns the individual numbers recorded for a session
func (s *SessionService) ListPlayerStats(ctx context.Context, sessionID int64) ([]domain.PlayerStat, error) {
	list, err := s.store.ListPlayerStats(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing session statistics: %w", err)
	}
	return nonNil(list), nil
}

// VoteElection adds one vote to a member in an award category
func (s *SessionService) VoteElection(ctx context.Context, sessionID int64, req domain.ElectionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.ensureSessionMember(ctx, sessionID, req.MemberID); err != nil {
		return err
	}
	if err := s.store.IncrementElectionVote(ctx, sessionID, req.Kind, req.MemberID); err != nil {
		return fmt.Errorf("saving election vote: %w", err)
	}
	return nil
}

// ListElectionVotes returns the award tallies of a session
func (s *SessionService) ListElectionVotes(ctx context.Context, sessionID int64) ([]domain.ElectionVote, error) {
	list, err := s.store.ListElectionVotes(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing election votes: %w", err)
	}
	return nonNil(list), nil
}

// VoteGoal adds one best-goal vote to a member
func (s *SessionService) VoteGoal(ctx context.Context, sessionID int64, req domain.GoalVoteRequest) error {
	if err := s.ensureSessionMember(ctx, sessionID, req.MemberID); err != nil {
		return err
	}
	if err := s.store.IncrementGoalVote(ctx, sessionID, req.MemberID, req.Description); err != nil {
		return fmt.Errorf("saving goal vote: %w", err)
	}
	return nil
}

// ListGoalVotes returns the best-goal tallies of a session
func (s *SessionService) ListGoalVotes(ctx context.Context, sessionID int64) ([]domain.GoalVote, error) {
	list, err := s.store.ListGoalVotes(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing goal votes: %w", err)
	}
	return nonNil(list), nil
}

// CreateMatch opens the next numbered match of a session
func (s *SessionService) CreateMatch(ctx context.Context, sessionID int64) (*domain.Match, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	match, err := s.store.CreateMatch(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}
	s.logger.Info("match created", "match_id", match.ID, "session_id", sessionID, "number", match.Number)
	return match, nil
}

// GetMatch returns a match by id
func (s *SessionService) GetMatch(ctx context.Context, id int64) (*domain.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// ListMatches returns a session's matches ordered by number
func (s *SessionService) ListMatches(ctx context.Context, sessionID int64) ([]domain.Match, error) {
	list, err := s.store.ListMatches(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return nonNil(list), nil
}

// FinishMatch stamps a match's end time
func (s *SessionService) FinishMatch(ctx context.Context, id int64) error {
	if err := s.store.FinishMatch(ctx, id); err != nil {
		return fmt.Errorf("finishing match: %w", err)
	}
	return nil
}

// ShuffleMatchTeams draws a match's teams, or copies the session's teams when asked to
func (s *SessionService) ShuffleMatchTeams(ctx context.Context, matchID int64, req domain.MatchShuffleRequest) error {
	match, session, err := s.matchSession(ctx, matchID)
	if err != nil {
		return err
	}

	if !req.UseSessionTeams {
		return s.draw(ctx, session, match.ID)
	}

	sessionTeams, err := s.store.ListTeams(ctx, session.ID, 0)
	if err != nil {
		return fmt.Errorf("listing session teams: %w", err)
	}
	teams := make([]domain.TeamAssignment, 0, len(sessionTeams))
	for _, a := range sessionTeams {
		a.MatchID = match.ID
		teams = append(teams, a)
	}
	if err := s.store.ReplaceTeams(ctx, session.ID, match.ID, teams); err != nil {
		return fmt.Errorf("copying session teams: %w", err)
	}
	return nil
}

// SplitMatchTeams replaces a match's teams with a manual split
func (s *SessionService) SplitMatchTeams(ctx context.Context, matchID int64, req domain.SplitRequest) error {
	match, session, err := s.matchSession(ctx, matchID)
	if err != nil {
		return err
	}
	return s.applySplit(ctx, session, match.ID, req.Division)
}

// ListMatchTeams returns a match's assignments ordered by team and member
func (s *SessionService) ListMatchTeams(ctx context.Context, matchID int64) ([]domain.TeamAssignment, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListTeams(ctx, match.SessionID, match.ID)
	if err != nil {
		return nil, fmt.Errorf("listing match teams: %w", err)
	}
	return nonNil(list), nil
}

// RecordMatchResult records or overwrites a team's goals for a match
func (s *SessionService) RecordMatchResult(ctx context.Context, matchID int64, req domain.ResultRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	r := domain.Result{SessionID: match.SessionID, MatchID: match.ID, Team: req.Team, Goals: req.Goals}
	if err := s.store.UpsertResult(ctx, r); err != nil {
		return fmt.Errorf("saving match result: %w", err)
	}
	return nil
}

// ListMatchResults returns a match's results ordered by team
func (s *SessionService) ListMatchResults(ctx context.Context, matchID int64) ([]domain.Result, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListResults(ctx, match.SessionID, match.ID)
	if err != nil {
		return nil, fmt.Errorf("listing match results: %w", err)
	}
	return nonNil(list), nil
}

// RecordMatchPlayerStat records or overwrites a member's numbers for a match
func (s *SessionService) RecordMatchPlayerStat(ctx context.Context, matchID int64, stat domain.PlayerStat) error {
	if err := stat.Validate(); err != nil {
		return err
	}
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	stat.SessionID, stat.MatchID = match.SessionID, match.ID
	if err := s.store.UpsertPlayerStat(ctx, stat); err != nil {
		return fmt.Errorf("saving match statistics: %w", err)
	}
	return nil
}

// ListMatchPlayerStats returns the individual numbers recorded for a match
func (s *SessionService) ListMatchPlayerStats(ctx context.Context, matchID int64) ([]domain.PlayerStat, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListPlayerStats(ctx, match.SessionID, match.ID)
	if err != nil {
		return nil, fmt.Errorf("listing match statistics: %w", err)
	}
	return nonNil(list), nil
}

// linePlayers returns the group's line-up size, falling back to the configured default
func (s *SessionService) linePlayers(ctx context.Context, groupID int64) (int, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if group.LinePlayers > 0 {
		return group.LinePlayers, nil
	}
	return s.config.DefaultLinePlayers, nil
}

func (s *SessionService) draw(ctx context.Context, session *domain.Session, matchID int64) error {
	perTeam, err := s.linePlayers(ctx, session.GroupID)
	if err != nil {
		return err
	}
	attendees, err := s.store.ListPresentAttendees(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("listing present attendees: %w", err)
	}

	slots, err := DrawTeams(attendees, perTeam, s.config.GoalkeeperPosition, s.shuffle)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceTeams(ctx, session.ID, matchID, toAssignments(session.ID, matchID, slots)); err != nil {
		return fmt.Errorf("saving drawn teams: %w", err)
	}

	s.logger.Info("teams drawn",
		"session_id", session.ID,
		"match_id", matchID,
		"attendees", len(attendees),
		"assigned", len(slots),
	)
	return nil
}

func (s *SessionService) applySplit(ctx context.Context, session *domain.Session, matchID int64, division []domain.TeamSlot) error {
	perTeam, err := s.linePlayers(ctx, session.GroupID)
	if err != nil {
		return err
	}
	if err := ValidateSplit(division, perTeam); err != nil {
		return err
	}
	if err := s.store.ReplaceTeams(ctx, session.ID, matchID, toAssignments(session.ID, matchID, division)); err != nil {
		return fmt.Errorf("saving team split: %w", err)
	}
	return nil
}

func (s *SessionService) matchSession(ctx context.Context, matchID int64) (*domain.Match, *domain.Session, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.store.GetSession(ctx, match.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return match, session, nil
}

func (s *SessionService) ensureSessionMember(ctx context.Context, sessionID, memberID int64) error {
	if memberID <= 0 {
		return fmt.Errorf("%w: associado_id is required", domain.ErrInvalidRequest)
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return err
	}
	return nil
}

func toAssignments(sessionID, matchID int64, slots []domain.TeamSlot) []domain.TeamAssignment {
	teams := make([]domain.TeamAssignment, 0, len(slots))
	for _, slot := range slots {
		teams = append(teams, domain.TeamAssignment{
			SessionID:  sessionID,
			MatchID:    matchID,
			MemberID:   slot.MemberID,
			Team:       slot.Team,
			Goalkeeper: slot.Goalkeeper,
		})
	}
	return teams
}
