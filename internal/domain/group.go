package domain

import (
	"fmt"
	"strings"
	"time"
)

// Periodicity represents how often a group meets
type Periodicity string

const (
	PeriodicityWeekly   Periodicity = "semanal"
	PeriodicityBiweekly Periodicity = "quinzenal"
	PeriodicityMonthly  Periodicity = "mensal"
)

// TeamKind tells whether a group keeps fixed teams or reshuffles every session
type TeamKind string

const (
	TeamKindFixed   TeamKind = "fixo"
	TeamKindDynamic TeamKind = "dinamico"
)

// MembershipStatus represents the state of a member inside a group
type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "ativo"
	MembershipPending  MembershipStatus = "pendente"
	MembershipRejected MembershipStatus = "rejeitado"
)

// MembershipOrigin records how a member joined a group
type MembershipOrigin string

const (
	OriginInvite  MembershipOrigin = "convite"
	OriginRequest MembershipOrigin = "solicitacao"
)

// RequestStatus represents the lifecycle of a join request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pendente"
	RequestApproved RequestStatus = "aprovada"
	RequestRejected RequestStatus = "rejeitada"
)

// Default group settings
const (
	DefaultLinePlayers = 10
	DefaultMinPlayers  = 12
	DefaultMaxPlayers  = 24
	DefaultStartTime   = "08:00"
	DefaultEndTime     = "10:00"
)

// Group represents a recurring pelada
type Group struct {
	ID          int64       `json:"id"`
	Name        string      `json:"nome"`
	Description string      `json:"descricao,omitempty"`
	Location    string      `json:"local,omitempty"`
	Weekday     int         `json:"dia_semana"`
	StartTime   string      `json:"horario_inicio"`
	EndTime     string      `json:"horario_fim"`
	Periodicity Periodicity `json:"periodicidade"`
	LinePlayers int         `json:"quantidade_jogadores_linha"`
	MinPlayers  int         `json:"quantidade_minima_jogadores"`
	MaxPlayers  int         `json:"quantidade_maxima_jogadores"`
	TeamKind    TeamKind    `json:"tipo_time"`
	InviteToken string      `json:"link_convite"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GroupRef is the identity subset of a group
type GroupRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Membership links a member to a group
type Membership struct {
	ID        int64            `json:"id"`
	GroupID   int64            `json:"grupo_id"`
	MemberID  int64            `json:"associado_id"`
	Status    MembershipStatus `json:"status"`
	Origin    MembershipOrigin `json:"criado_via"`
	CreatedAt time.Time        `json:"created_at"`
	Member    MemberRef        `json:"associado"`
}

// Manager is a member responsible for a group
type Manager struct {
	GroupID   int64     `json:"grupo_id"`
	MemberID  int64     `json:"associado_id"`
	CreatedAt time.Time `json:"created_at"`
	Member    MemberRef `json:"associado"`
}

// GroupDetail is a group with its managers and members
type GroupDetail struct {
	Group
	Managers []Manager    `json:"responsaveis"`
	Members  []Membership `json:"associados"`
}

// JoinRequest is a member's request to enter a group
type JoinRequest struct {
	ID        int64         `json:"id"`
	GroupID   int64         `json:"grupo_id"`
	MemberID  int64         `json:"associado_id"`
	Status    RequestStatus `json:"status"`
	Message   string        `json:"mensagem,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Member    MemberRef     `json:"associado"`
	Group     GroupRef      `json:"grupo"`
}

// CreateGroupRequest represents a request to create a new group
type CreateGroupRequest struct {
	Name        string      `json:"nome"`
	Description string      `json:"descricao,omitempty"`
	Location    string      `json:"local,omitempty"`
	Weekday     int         `json:"dia_semana"`
	StartTime   string      `json:"horario_inicio,omitempty"`
	EndTime     string      `json:"horario_fim,omitempty"`
	Periodicity Periodicity `json:"periodicidade,omitempty"`
	LinePlayers int         `json:"quantidade_jogadores_linha,omitempty"`
	MinPlayers  int         `json:"quantidade_minima_jogadores,omitempty"`
	MaxPlayers  int         `json:"quantidade_maxima_jogadores,omitempty"`
	TeamKind    TeamKind    `json:"tipo_time,omitempty"`
}

// Validate checks required fields and enumerations
func (r *CreateGroupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: nome is required", ErrInvalidRequest)
	}
	if r.Weekday < 0 || r.Weekday > 6 {
		return fmt.Errorf("%w: dia_semana must be between 0 and 6", ErrInvalidRequest)
	}
	if r.LinePlayers < 0 || r.MinPlayers < 0 || r.MaxPlayers < 0 {
		return fmt.Errorf("%w: player counts cannot be negative", ErrInvalidRequest)
	}
	return validateGroupEnums(r.Periodicity, r.TeamKind)
}

// ToGroup converts a CreateGroupRequest to a Group with defaults
func (r *CreateGroupRequest) ToGroup() Group {
	group := Group{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Weekday:     r.Weekday,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Periodicity: r.Periodicity,
		LinePlayers: r.LinePlayers,
		MinPlayers:  r.MinPlayers,
		MaxPlayers:  r.MaxPlayers,
		TeamKind:    r.TeamKind,
	}

	// Apply defaults
	if group.StartTime == "" {
		group.StartTime = DefaultStartTime
	}
	if group.EndTime == "" {
		group.EndTime = DefaultEndTime
	}
	if group.Periodicity == "" {
		group.Periodicity = PeriodicityWeekly
	}
	if group.LinePlayers == 0 {
		group.LinePlayers = DefaultLinePlayers
	}
	if group.MinPlayers == 0 {
		group.MinPlayers = DefaultMinPlayers
	}
	if group.MaxPlayers == 0 {
		group.MaxPlayers = DefaultMaxPlayers
	}
	if group.TeamKind == "" {
		group.TeamKind = TeamKindDynamic
	}

	return group
}

// UpdateGroupRequest carries a partial update; nil fields are left unchanged
type UpdateGroupRequest struct {
	Name        *string      `json:"nome,omitempty"`
	Description *string      `json:"descricao,omitempty"`
	Location    *string      `json:"local,omitempty"`
	Weekday     *int         `json:"dia_semana,omitempty"`
	StartTime   *string      `json:"horario_inicio,omitempty"`
	EndTime     *string      `json:"horario_fim,omitempty"`
	Periodicity *Periodicity `json:"periodicidade,omitempty"`
	LinePlayers *int         `json:"quantidade_jogadores_linha,omitempty"`
	MinPlayers  *int         `json:"quantidade_minima_jogadores,omitempty"`
	MaxPlayers  *int         `json:"quantidade_maxima_jogadores,omitempty"`
	TeamKind    *TeamKind    `json:"tipo_time,omitempty"`
}

// Validate checks the provided fields
func (r *UpdateGroupRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("%w: nome cannot be empty", ErrInvalidRequest)
	}
	if r.Weekday != nil && (*r.Weekday < 0 || *r.Weekday > 6) {
		return fmt.Errorf("%w: dia_semana must be between 0 and 6", ErrInvalidRequest)
	}
	if r.LinePlayers != nil && *r.LinePlayers <= 0 {
		return fmt.Errorf("%w: quantidade_jogadores_linha must be positive", ErrInvalidRequest)
	}
	var p Periodicity
	var k TeamKind
	if r.Periodicity != nil {
		p = *r.Periodicity
	}
	if r.TeamKind != nil {
		k = *r.TeamKind
	}
	return validateGroupEnums(p, k)
}

func validateGroupEnums(p Periodicity, k TeamKind) error {
	switch p {
	case "", PeriodicityWeekly, PeriodicityBiweekly, PeriodicityMonthly:
	default:
		return fmt.Errorf("%w: unknown periodicidade %q", ErrInvalidRequest, p)
	}
	switch k {
	case "", TeamKindFixed, TeamKindDynamic:
	default:
		return fmt.Errorf("%w: unknown tipo_time %q", ErrInvalidRequest, k)
	}
	return nil
}

// CreateJoinRequest represents a request to enter a group
type CreateJoinRequest struct {
	MemberID int64  `json:"associado_id"`
	Message  string `json:"mensagem,omitempty"`
}

// MemberIDRequest is a body carrying only a member id
type MemberIDRequest struct {
	MemberID int64 `json:"associado_id"`
}
