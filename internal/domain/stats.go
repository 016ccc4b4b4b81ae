package domain

import (
	"fmt"
	"time"
)

// Period is an inclusive date range; an empty bound is unbounded on that side
type Period struct {
	Start string `json:"inicio,omitempty"`
	End   string `json:"fim,omitempty"`
}

// Validate checks that both bounds, when present, are calendar dates
func (p Period) Validate() error {
	if p.Start != "" {
		if _, err := time.Parse(DateLayout, p.Start); err != nil {
			return fmt.Errorf("%w: inicio=%q", ErrInvalidPeriod, p.Start)
		}
	}
	if p.End != "" {
		if _, err := time.Parse(DateLayout, p.End); err != nil {
			return fmt.Errorf("%w: fim=%q", ErrInvalidPeriod, p.End)
		}
	}
	return nil
}

// Contains reports whether a session date falls inside the period
func (p Period) Contains(date string) bool {
	if p.Start != "" && date < p.Start {
		return false
	}
	if p.End != "" && date > p.End {
		return false
	}
	return true
}

// Scope selects the fact rows an aggregation reads. Zero ids mean "all".
type Scope struct {
	MemberID int64
	GroupID  int64
	Period   Period
}

// FactSet is the raw material of every derived statistic
type FactSet struct {
	Attendances   []Attendance
	Confirmations []Confirmation
	Assignments   []TeamAssignment
	Results       []Result
	Stats         []PlayerStat
}

// Attendee is a present member together with the position used for team drawing
type Attendee struct {
	MemberID int64
	Position string
}

// Metrics is the metric set shared by member statistics and ranking rows
type Metrics struct {
	Games          int     `json:"jogos"`
	Points         int     `json:"pontos"`
	Goals          int     `json:"gols"`
	Assists        int     `json:"assistencias"`
	Wins           int     `json:"vitorias"`
	Draws          int     `json:"empates"`
	Losses         int     `json:"derrotas"`
	YellowCards    int     `json:"cartao_amarelo"`
	BlueCards      int     `json:"cartao_azul"`
	RedCards       int     `json:"cartao_vermelho"`
	BlueRedCards   int     `json:"cartao_azul_vermelho"`
	GoalsPerGame   float64 `json:"media_gols"`
	WinPercentage  float64 `json:"percentual_vitoria"`
	LossPercentage float64 `json:"percentual_derrota"`
	DrawPercentage float64 `json:"percentual_empate"`
	Frequency      float64 `json:"frequencia"`
}

// MemberStats is a member's statistics across all groups for a period
type MemberStats struct {
	Member
	Metrics
	WinRate float64    `json:"aproveitamento_vitoria"`
	Groups  []GroupRef `json:"grupos"`
}

// RankingRow is one line of a group leaderboard
type RankingRow struct {
	MemberID int64  `json:"associado_id"`
	Name     string `json:"nome"`
	Nickname string `json:"apelido"`
	Position string `json:"posicao"`
	Metrics
	Efficiency float64 `json:"aproveitamento"`
}
