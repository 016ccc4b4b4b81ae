package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar format used for session dates and period bounds
const DateLayout = "2006-01-02"

// DivisionKind tells how a session's teams are formed
type DivisionKind string

const (
	DivisionShuffle DivisionKind = "sorteio"
	DivisionManual  DivisionKind = "manual"
)

// FormatKind describes how a confrontation ends. Display only.
type FormatKind string

const (
	FormatTime    FormatKind = "tempo"
	FormatGoals   FormatKind = "gols"
	FormatPeriods FormatKind = "tempos"
)

// ElectionKind is the category of a per-session award vote
type ElectionKind string

const (
	ElectionBestPlayer     ElectionKind = "craque"
	ElectionWorstPlayer    ElectionKind = "abacaxi"
	ElectionBestGoalkeeper ElectionKind = "melhor_goleiro"
)

// Session is one dated occurrence of a group
type Session struct {
	ID           int64        `json:"id"`
	GroupID      int64        `json:"grupo_id"`
	Date         string       `json:"data"`
	TeamCount    int          `json:"quantidade_times"`
	DivisionKind DivisionKind `json:"tipo_divisao"`
	FormatKind   FormatKind   `json:"formato_tipo"`
	FormatValue  *int         `json:"formato_valor,omitempty"`
	Periods      *int         `json:"quantidade_tempos,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Match is a numbered confrontation inside a session
type Match struct {
	ID         int64      `json:"id"`
	SessionID  int64      `json:"rodada_id"`
	Number     int        `json:"numero"`
	StartedAt  *time.Time `json:"inicio_em,omitempty"`
	FinishedAt *time.Time `json:"fim_em,omitempty"`
}

// Confirmation is a member's RSVP for a session
type Confirmation struct {
	MemberID    int64     `json:"associado_id"`
	SessionID   int64     `json:"rodada_id"`
	Confirmed   bool      `json:"confirmado"`
	ConfirmedAt time.Time `json:"confirmado_em"`
}

// Attendance is a member's check-in for a session
type Attendance struct {
	MemberID  int64     `json:"associado_id"`
	SessionID int64     `json:"rodada_id"`
	Present   bool      `json:"presente"`
	CheckinAt time.Time `json:"checkin_em"`
}

// TeamAssignment places a member in a team of a session, or of a match when MatchID is set
type TeamAssignment struct {
	SessionID  int64  `json:"rodada_id"`
	MatchID    int64  `json:"partida_id,omitempty"`
	MemberID   int64  `json:"associado_id"`
	Team       string `json:"time"`
	Goalkeeper bool   `json:"is_goleiro"`
}

// Result is the final goal count of one team in a session or match
type Result struct {
	SessionID int64  `json:"rodada_id"`
	MatchID   int64  `json:"partida_id,omitempty"`
	Team      string `json:"time_nome"`
	Goals     int    `json:"gols"`
}

// PlayerStat holds a member's individual numbers in a session or match
type PlayerStat struct {
	SessionID    int64 `json:"rodada_id"`
	MatchID      int64 `json:"partida_id,omitempty"`
	MemberID     int64 `json:"associado_id"`
	Goals        int   `json:"gols"`
	Assists      int   `json:"assistencias"`
	YellowCards  int   `json:"cartao_amarelo"`
	BlueCards    int   `json:"cartao_azul"`
	RedCards     int   `json:"cartao_vermelho"`
	BlueRedCards int   `json:"cartao_azul_vermelho"`
}

// Validate rejects negative counters
func (s *PlayerStat) Validate() error {
	if s.MemberID <= 0 {
		return fmt.Errorf("%w: associado_id is required", ErrInvalidRequest)
	}
	if s.Goals < 0 || s.Assists < 0 || s.YellowCards < 0 || s.BlueCards < 0 || s.RedCards < 0 || s.BlueRedCards < 0 {
		return fmt.Errorf("%w: statistics cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// ElectionVote is the tally of one award category for one member
type ElectionVote struct {
	SessionID int64        `json:"rodada_id"`
	Kind      ElectionKind `json:"tipo"`
	MemberID  int64        `json:"associado_id"`
	Votes     int          `json:"votos"`
}

// GoalVote is the tally of best-goal votes for one member
type GoalVote struct {
	SessionID   int64  `json:"rodada_id"`
	MemberID    int64  `json:"associado_id"`
	Description string `json:"descricao,omitempty"`
	Votes       int    `json:"votos"`
}

// CreateSessionRequest represents a request to schedule a session
type CreateSessionRequest struct {
	GroupID      int64        `json:"grupo_id"`
	Date         string       `json:"data"`
	TeamCount    int          `json:"quantidade_times,omitempty"`
	DivisionKind DivisionKind `json:"tipo_divisao,omitempty"`
	FormatKind   FormatKind   `json:"formato_tipo,omitempty"`
	FormatValue  *int         `json:"formato_valor,omitempty"`
	Periods      *int         `json:"quantidade_tempos,omitempty"`
}

// Validate checks required fields and enumerations
func (r *CreateSessionRequest) Validate() error {
	if r.GroupID <= 0 {
		return fmt.Errorf("%w: grupo_id is required", ErrInvalidRequest)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: data must be YYYY-MM-DD", ErrInvalidRequest)
	}
	if r.TeamCount < 0 {
		return fmt.Errorf("%w: quantidade_times cannot be negative", ErrInvalidRequest)
	}
	switch r.DivisionKind {
	case "", DivisionShuffle, DivisionManual:
	default:
		return fmt.Errorf("%w: unknown tipo_divisao %q", ErrInvalidRequest, r.DivisionKind)
	}
	switch r.FormatKind {
	case "", FormatTime, FormatGoals, FormatPeriods:
	default:
		return fmt.Errorf("%w: unknown formato_tipo %q", ErrInvalidRequest, r.FormatKind)
	}
	return nil
}

// ToSession converts a CreateSessionRequest to a Session with defaults
func (r *CreateSessionRequest) ToSession() Session {
	session := Session{
		GroupID:      r.GroupID,
		Date:         r.Date,
		TeamCount:    r.TeamCount,
		DivisionKind: r.DivisionKind,
		FormatKind:   r.FormatKind,
		FormatValue:  r.FormatValue,
		Periods:      r.Periods,
	}
	if session.TeamCount == 0 {
		session.TeamCount = 2
	}
	if session.DivisionKind == "" {
		session.DivisionKind = DivisionShuffle
	}
	if session.FormatKind == "" {
		session.FormatKind = FormatTime
	}
	return session
}

// SessionFilter narrows session listings
type SessionFilter struct {
	GroupID int64
	Period  Period
}

// ConfirmRequest records an RSVP
type ConfirmRequest struct {
	MemberID  int64 `json:"associado_id"`
	Confirmed bool  `json:"confirmado"`
}

// CheckinRequest records an actual presence
type CheckinRequest struct {
	MemberID int64 `json:"associado_id"`
	Present  bool  `json:"presente"`
}

// TeamSlot is one entry of a manual team split
type TeamSlot struct {
	MemberID   int64  `json:"associado_id"`
	Team       string `json:"time"`
	Goalkeeper bool   `json:"is_goleiro"`
}

// SplitRequest is a manual team split
type SplitRequest struct {
	Division []TeamSlot `json:"divisao"`
}

// MatchShuffleRequest controls how a match's teams are drawn
type MatchShuffleRequest struct {
	UseSessionTeams bool `json:"usar_times_rodada"`
}

// ResultRequest records a team's goals
type ResultRequest struct {
	Team  string `json:"time_nome"`
	Goals int    `json:"gols"`
}

// Validate checks the team label and goal count
func (r *ResultRequest) Validate() error {
	if r.Team == "" {
		return fmt.Errorf("%w: time_nome is required", ErrInvalidRequest)
	}
	if r.Goals < 0 {
		return fmt.Errorf("%w: gols cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// ElectionRequest casts one award vote
type ElectionRequest struct {
	Kind     ElectionKind `json:"tipo"`
	MemberID int64        `json:"associado_id"`
}

// Validate checks the award category
func (r *ElectionRequest) Validate() error {
	switch r.Kind {
	case ElectionBestPlayer, ElectionWorstPlayer, ElectionBestGoalkeeper:
	default:
		return fmt.Errorf("%w: unknown tipo %q", ErrInvalidRequest, r.Kind)
	}
	if r.MemberID <= 0 {
		return fmt.Errorf("%w: associado_id is required", ErrInvalidRequest)
	}
	return nil
}

// GoalVoteRequest casts one best-goal vote
type GoalVoteRequest struct {
	MemberID    int64  `json:"associado_id"`
	Description string `json:"descricao,omitempty"`
}
