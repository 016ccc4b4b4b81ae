package postgres

import (
	"context"
	"fmt"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/jackc/pgx/v5"
)

const (
	memberFact = "f.member_id = $%d"

	// a member-scoped load keeps every team's goals for the confrontations the member played
	memberConfrontation = `EXISTS (
		SELECT 1 FROM team_assignments ta
		WHERE ta.session_id = f.session_id
			AND COALESCE(ta.match_id, 0) = COALESCE(f.match_id, 0)
			AND ta.member_id = $%d)`
)

// scopeWhere restricts fact rows, aliased f and joined to sessions s, to a scope
func scopeWhere(scope domain.Scope, memberCond string) (*whereBuilder, error) {
	w := &whereBuilder{}
	if scope.GroupID != 0 {
		w.add("s.group_id = $%d", scope.GroupID)
	}
	if err := w.period("s.date", scope.Period); err != nil {
		return nil, err
	}
	if scope.MemberID != 0 {
		w.add(memberCond, scope.MemberID)
	}
	return w, nil
}

type factQuery struct {
	sql        string
	memberCond string
}

var factQueries = [5]factQuery{
	{sql: `SELECT f.member_id, f.session_id, f.present, f.checkin_at FROM attendances f`, memberCond: memberFact},
	{sql: `SELECT f.member_id, f.session_id, f.confirmed, f.confirmed_at FROM confirmations f`, memberCond: memberFact},
	{sql: `SELECT f.session_id, COALESCE(f.match_id, 0), f.member_id, f.team, f.goalkeeper FROM team_assignments f`, memberCond: memberFact},
	{sql: `SELECT f.session_id, COALESCE(f.match_id, 0), f.team, f.goals FROM results f`, memberCond: memberConfrontation},
	{sql: `SELECT f.session_id, COALESCE(f.match_id, 0), f.member_id, f.goals, f.assists,
		f.yellow_cards, f.blue_cards, f.red_cards, f.blue_red_cards FROM player_stats f`, memberCond: memberFact},
}

// LoadFacts reads every fact row inside the scope in a single round trip
func (r *Repository) LoadFacts(ctx context.Context, scope domain.Scope) (domain.FactSet, error) {
	var facts domain.FactSet

	batch := &pgx.Batch{}
	for _, q := range factQueries {
		where, err := scopeWhere(scope, q.memberCond)
		if err != nil {
			return facts, err
		}
		batch.Queue(q.sql+` JOIN sessions s ON s.id = f.session_id`+where.String(), where.args...)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	var err error
	if facts.Attendances, err = batchRows(br, scanAttendance); err != nil {
		return facts, fmt.Errorf("loading attendances: %w", err)
	}
	if facts.Confirmations, err = batchRows(br, scanConfirmation); err != nil {
		return facts, fmt.Errorf("loading confirmations: %w", err)
	}
	if facts.Assignments, err = batchRows(br, scanAssignment); err != nil {
		return facts, fmt.Errorf("loading team assignments: %w", err)
	}
	if facts.Results, err = batchRows(br, scanResult); err != nil {
		return facts, fmt.Errorf("loading results: %w", err)
	}
	if facts.Stats, err = batchRows(br, scanPlayerStat); err != nil {
		return facts, fmt.Errorf("loading player statistics: %w", err)
	}

	r.logger.Debug("facts loaded",
		"member_id", scope.MemberID,
		"group_id", scope.GroupID,
		"attendances", len(facts.Attendances),
		"results", len(facts.Results),
	)
	return facts, nil
}

func batchRows[T any](br pgx.BatchResults, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	return scanAll(rows, scan)
}

// CountSessions counts sessions inside the period; a zero group id counts every group
func (r *Repository) CountSessions(ctx context.Context, groupID int64, period domain.Period) (int, error) {
	where, err := scopeWhere(domain.Scope{GroupID: groupID, Period: period}, "")
	if err != nil {
		return 0, err
	}

	var count int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions s`+where.String(), where.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return count, nil
}

// ListActiveGroupMembers retrieves the active members of a group ordered by id
func (r *Repository) ListActiveGroupMembers(ctx context.Context, groupID int64) ([]domain.Member, error) {
	query := `
		SELECT m.id, m.name, m.nickname, m.position, m.created_at, m.updated_at
		FROM group_members gm
		JOIN members m ON m.id = gm.member_id
		WHERE gm.group_id = $1 AND gm.status = $2
		ORDER BY m.id
	`
	list, err := collect(ctx, r, query, func(row pgx.Row) (domain.Member, error) {
		m, err := scanMember(row)
		if err != nil {
			return domain.Member{}, err
		}
		return *m, nil
	}, groupID, string(domain.MembershipActive))
	if err != nil {
		return nil, fmt.Errorf("listing active group members: %w", err)
	}
	return list, nil
}

// ListMemberActiveGroups retrieves the groups where a member is active
func (r *Repository) ListMemberActiveGroups(ctx context.Context, memberID int64) ([]domain.GroupRef, error) {
	query := `
		SELECT g.id, g.name
		FROM group_members gm
		JOIN groups g ON g.id = gm.group_id
		WHERE gm.member_id = $1 AND gm.status = $2
		ORDER BY g.name
	`
	list, err := collect(ctx, r, query, func(row pgx.Row) (domain.GroupRef, error) {
		var g domain.GroupRef
		err := row.Scan(&g.ID, &g.Name)
		return g, err
	}, memberID, string(domain.MembershipActive))
	if err != nil {
		return nil, fmt.Errorf("listing member groups: %w", err)
	}
	return list, nil
}
