package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/antoniolazaro/futamadeuhub/internal/stats"
)

// StatsStore is the read side the aggregation engines depend on
type StatsStore interface {
	GetMember(ctx context.Context, id int64) (*domain.Member, error)
	ListMemberActiveGroups(ctx context.Context, memberID int64) ([]domain.GroupRef, error)
	ListActiveGroupMembers(ctx context.Context, groupID int64) ([]domain.Member, error)
	// CountSessions counts sessions in the period; a zero group id counts every group
	CountSessions(ctx context.Context, groupID int64, period domain.Period) (int, error)
	LoadFacts(ctx context.Context, scope domain.Scope) (domain.FactSet, error)
}

// StatsService computes member statistics and group rankings on demand
type StatsService struct {
	store  StatsStore
	logger *slog.Logger
}

// NewStatsService creates a new statistics service
func NewStatsService(store StatsStore, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// GetMemberStats returns a member's statistics across every group for the period.
// The frequency denominator counts the sessions of all groups.
func (s *StatsService) GetMemberStats(ctx context.Context, memberID int64, period domain.Period) (*domain.MemberStats, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}

	facts, err := s.store.LoadFacts(ctx, domain.Scope{MemberID: memberID, Period: period})
	if err != nil {
		return nil, fmt.Errorf("loading member facts: %w", err)
	}

	sessions, err := s.store.CountSessions(ctx, 0, period)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	groups, err := s.store.ListMemberActiveGroups(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing member groups: %w", err)
	}

	metrics := stats.NewLedger(facts).Tally(memberID).Metrics(sessions)

	return &domain.MemberStats{
		Member:  *member,
		Metrics: metrics,
		WinRate: metrics.WinPercentage,
		Groups:  nonNil(groups),
	}, nil
}

// GetGroupRanking returns the leaderboard of a group's active members, ordered by points
// descending and then by member id. An unknown group yields an empty ranking.
func (s *StatsService) GetGroupRanking(ctx context.Context, groupID int64, period domain.Period) ([]domain.RankingRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	members, err := s.store.ListActiveGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	if len(members) == 0 {
		return []domain.RankingRow{}, nil
	}

	facts, err := s.store.LoadFacts(ctx, domain.Scope{GroupID: groupID, Period: period})
	if err != nil {
		return nil, fmt.Errorf("loading group facts: %w", err)
	}

	sessions, err := s.store.CountSessions(ctx, groupID, period)
	if err != nil {
		return nil, fmt.Errorf("counting group sessions: %w", err)
	}

	ledger := stats.NewLedger(facts)
	rows := make([]domain.RankingRow, 0, len(members))
	for _, m := range members {
		totals := ledger.Tally(m.ID)
		rows = append(rows, domain.RankingRow{
			MemberID:   m.ID,
			Name:       m.Name,
			Nickname:   m.Nickname,
			Position:   m.Position,
			Metrics:    totals.Metrics(sessions),
			Efficiency: totals.Efficiency(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].MemberID < rows[j].MemberID
	})

	s.logger.Debug("computed group ranking",
		"group_id", groupID,
		"members", len(rows),
		"sessions", sessions,
	)

	return rows, nil
}
