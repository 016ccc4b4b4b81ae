package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `s.id, s.group_id, to_char(s.date, 'YYYY-MM-DD'), s.team_count, s.division_kind,
	s.format_kind, s.format_value, s.periods, s.created_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.Date,
		&s.TeamCount,
		&s.DivisionKind,
		&s.FormatKind,
		&s.FormatValue,
		&s.Periods,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession inserts a session and fills its id and creation time
func (r *Repository) CreateSession(ctx context.Context, session *domain.Session) error {
	date, err := parseDate(session.Date)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (group_id, date, team_count, division_kind, format_kind, format_value, periods, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now()
	err = r.pool.QueryRow(ctx, query,
		session.GroupID,
		date,
		session.TeamCount,
		string(session.DivisionKind),
		string(session.FormatKind),
		session.FormatValue,
		session.Periods,
		now,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	session.CreatedAt = now
	return nil
}

// GetSession retrieves a session by id
func (r *Repository) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return s, nil
}

// ListSessions retrieves sessions matching the filter, most recent first
func (r *Repository) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	var where whereBuilder
	if filter.GroupID != 0 {
		where.add("s.group_id = $%d", filter.GroupID)
	}
	if err := where.period("s.date", filter.Period); err != nil {
		return nil, err
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions s` + where.String() + ` ORDER BY s.date DESC, s.id DESC`
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// UpsertConfirmation records or overwrites a member's RSVP
func (r *Repository) UpsertConfirmation(ctx context.Context, c domain.Confirmation) error {
	query := `
		INSERT INTO confirmations (member_id, session_id, confirmed, confirmed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (member_id, session_id)
		DO UPDATE SET confirmed = $3, confirmed_at = $4
	`
	if _, err := r.pool.Exec(ctx, query, c.MemberID, c.SessionID, c.Confirmed, time.Now()); err != nil {
		return fmt.Errorf("upserting confirmation: %w", err)
	}
	return nil
}

// ListConfirmations retrieves the RSVPs of a session
func (r *Repository) ListConfirmations(ctx context.Context, sessionID int64) ([]domain.Confirmation, error) {
	query := `SELECT member_id, session_id, confirmed, confirmed_at FROM confirmations WHERE session_id = $1 ORDER BY confirmed_at`
	list, err := collect(ctx, r, query, scanConfirmation, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing confirmations: %w", err)
	}
	return list, nil
}

// UpsertAttendance records or overwrites a member's check-in
func (r *Repository) UpsertAttendance(ctx context.Context, a domain.Attendance) error {
	query := `
		INSERT INTO attendances (member_id, session_id, present, checkin_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (member_id, session_id)
		DO UPDATE SET present = $3, checkin_at = $4
	`
	if _, err := r.pool.Exec(ctx, query, a.MemberID, a.SessionID, a.Present, time.Now()); err != nil {
		return fmt.Errorf("upserting attendance: %w", err)
	}
	return nil
}

// ListAttendances retrieves the check-ins of a session
func (r *Repository) ListAttendances(ctx context.Context, sessionID int64) ([]domain.Attendance, error) {
	query := `SELECT member_id, session_id, present, checkin_at FROM attendances WHERE session_id = $1 ORDER BY checkin_at`
	list, err := collect(ctx, r, query, scanAttendance, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing attendances: %w", err)
	}
	return list, nil
}

// ListPresentAttendees retrieves the members checked in as present with their position
func (r *Repository) ListPresentAttendees(ctx context.Context, sessionID int64) ([]domain.Attendee, error) {
	query := `
		SELECT a.member_id, m.position
		FROM attendances a
		JOIN members m ON m.id = a.member_id
		WHERE a.session_id = $1 AND a.present
		ORDER BY a.member_id
	`
	list, err := collect(ctx, r, query, func(row pgx.Row) (domain.Attendee, error) {
		var a domain.Attendee
		err := row.Scan(&a.MemberID, &a.Position)
		return a, err
	}, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing present attendees: %w", err)
	}
	return list, nil
}

// CreateMatch opens the next numbered match of a session
func (r *Repository) CreateMatch(ctx context.Context, sessionID int64) (*domain.Match, error) {
	query := `
		INSERT INTO matches (session_id, number, started_at)
		SELECT $1::bigint, COALESCE(MAX(number), 0) + 1, $2::timestamp FROM matches WHERE session_id = $1::bigint
		RETURNING id, session_id, number, started_at, finished_at
	`
	m, err := scanMatch(r.pool.QueryRow(ctx, query, sessionID, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}
	return &m, nil
}

// GetMatch retrieves a match by id
func (r *Repository) GetMatch(ctx context.Context, id int64) (*domain.Match, error) {
	query := `SELECT id, session_id, number, started_at, finished_at FROM matches WHERE id = $1`
	m, err := scanMatch(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, fmt.Errorf("getting match: %w", err)
	}
	return &m, nil
}

// ListMatches retrieves the matches of a session in order
func (r *Repository) ListMatches(ctx context.Context, sessionID int64) ([]domain.Match, error) {
	query := `SELECT id, session_id, number, started_at, finished_at FROM matches WHERE session_id = $1 ORDER BY number`
	list, err := collect(ctx, r, query, scanMatch, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return list, nil
}

// FinishMatch stamps a match's end time
func (r *Repository) FinishMatch(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `UPDATE matches SET finished_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("finishing match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

// ReplaceTeams swaps the whole team set of a session or match in one transaction
func (r *Repository) ReplaceTeams(ctx context.Context, sessionID, matchID int64, teams []domain.TeamAssignment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM team_assignments WHERE session_id = $1 AND COALESCE(match_id, 0) = $2`, sessionID, matchID)
	if err != nil {
		return fmt.Errorf("clearing teams: %w", err)
	}

	if len(teams) > 0 {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO team_assignments (session_id, match_id, member_id, team, goalkeeper)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, a := range teams {
			batch.Queue(query, sessionID, matchRef(matchID), a.MemberID, a.Team, a.Goalkeeper)
		}

		br := tx.SendBatch(ctx, batch)
		for range teams {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("inserting team assignment: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("closing batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing teams: %w", err)
	}
	return nil
}

// ListTeams retrieves the assignments of a session or match ordered by team and member
func (r *Repository) ListTeams(ctx context.Context, sessionID, matchID int64) ([]domain.TeamAssignment, error) {
	query := `
		SELECT session_id, COALESCE(match_id, 0), member_id, team, goalkeeper
		FROM team_assignments
		WHERE session_id = $1 AND COALESCE(match_id, 0) = $2
		ORDER BY team, member_id
	`
	list, err := collect(ctx, r, query, scanAssignment, sessionID, matchID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return list, nil
}

// UpsertResult records or overwrites a team's goals
func (r *Repository) UpsertResult(ctx context.Context, res domain.Result) error {
	query := `
		INSERT INTO results (session_id, match_id, team, goals)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, (COALESCE(match_id, 0)), team)
		DO UPDATE SET goals = EXCLUDED.goals
	`
	if _, err := r.pool.Exec(ctx, query, res.SessionID, matchRef(res.MatchID), res.Team, res.Goals); err != nil {
		return fmt.Errorf("upserting result: %w", err)
	}
	return nil
}

// ListResults retrieves the results of a session or match ordered by team
func (r *Repository) ListResults(ctx context.Context, sessionID, matchID int64) ([]domain.Result, error) {
	query := `
		SELECT session_id, COALESCE(match_id, 0), team, goals
		FROM results
		WHERE session_id = $1 AND COALESCE(match_id, 0) = $2
		ORDER BY team
	`
	list, err := collect(ctx, r, query, scanResult, sessionID, matchID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	return list, nil
}

// UpsertPlayerStat records or overwrites a member's individual numbers
func (r *Repository) UpsertPlayerStat(ctx context.Context, s domain.PlayerStat) error {
	query := `
		INSERT INTO player_stats (session_id, match_id, member_id, goals, assists,
			yellow_cards, blue_cards, red_cards, blue_red_cards)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_id, (COALESCE(match_id, 0)), member_id)
		DO UPDATE SET
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			yellow_cards = EXCLUDED.yellow_cards,
			blue_cards = EXCLUDED.blue_cards,
			red_cards = EXCLUDED.red_cards,
			blue_red_cards = EXCLUDED.blue_red_cards
	`
	_, err := r.pool.Exec(ctx, query,
		s.SessionID,
		matchRef(s.MatchID),
		s.MemberID,
		s.Goals,
		s.Assists,
		s.YellowCards,
		s.BlueCards,
		s.RedCards,
		s.BlueRedCards,
	)
	if err != nil {
		return fmt.Errorf("upserting player statistics: %w", err)
	}
	return nil
}

// ListPlayerStats retrieves the individual numbers of a session or match
func (r *Repository) ListPlayerStats(ctx context.Context, sessionID, matchID int64) ([]domain.PlayerStat, error) {
	query := `SELECT ` + statColumns + `
		FROM player_stats
		WHERE session_id = $1 AND COALESCE(match_id, 0) = $2
		ORDER BY member_id`
	list, err := collect(ctx, r, query, scanPlayerStat, sessionID, matchID)
	if err != nil {
		return nil, fmt.Errorf("listing player statistics: %w", err)
	}
	return list, nil
}

// IncrementElectionVote adds one vote to a member in an award category
func (r *Repository) IncrementElectionVote(ctx context.Context, sessionID int64, kind domain.ElectionKind, memberID int64) error {
	query := `
		INSERT INTO election_votes (session_id, kind, member_id, votes)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (session_id, kind, member_id)
		DO UPDATE SET votes = election_votes.votes + 1
	`
	if _, err := r.pool.Exec(ctx, query, sessionID, string(kind), memberID); err != nil {
		return fmt.Errorf("incrementing election vote: %w", err)
	}
	return nil
}

// ListElectionVotes retrieves award tallies, highest first within each category
func (r *Repository) ListElectionVotes(ctx context.Context, sessionID int64) ([]domain.ElectionVote, error) {
	query := `
		SELECT session_id, kind, member_id, votes
		FROM election_votes
		WHERE session_id = $1
		ORDER BY kind, votes DESC, member_id
	`
	list, err := collect(ctx, r, query, func(row pgx.Row) (domain.ElectionVote, error) {
		var v domain.ElectionVote
		err := row.Scan(&v.SessionID, &v.Kind, &v.MemberID, &v.Votes)
		return v, err
	}, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing election votes: %w", err)
	}
	return list, nil
}

// IncrementGoalVote adds one best-goal vote; a non-empty description replaces the stored one
func (r *Repository) IncrementGoalVote(ctx context.Context, sessionID, memberID int64, description string) error {
	query := `
		INSERT INTO goal_votes (session_id, member_id, description, votes)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (session_id, member_id)
		DO UPDATE SET
			votes = goal_votes.votes + 1,
			description = CASE WHEN EXCLUDED.description <> '' THEN EXCLUDED.description ELSE goal_votes.description END
	`
	if _, err := r.pool.Exec(ctx, query, sessionID, memberID, description); err != nil {
		return fmt.Errorf("incrementing goal vote: %w", err)
	}
	return nil
}

// ListGoalVotes retrieves best-goal tallies, highest first
func (r *Repository) ListGoalVotes(ctx context.Context, sessionID int64) ([]domain.GoalVote, error) {
	query := `
		SELECT session_id, member_id, description, votes
		FROM goal_votes
		WHERE session_id = $1
		ORDER BY votes DESC, member_id
	`
	list, err := collect(ctx, r, query, func(row pgx.Row) (domain.GoalVote, error) {
		var v domain.GoalVote
		err := row.Scan(&v.SessionID, &v.MemberID, &v.Description, &v.Votes)
		return v, err
	}, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing goal votes: %w", err)
	}
	return list, nil
}

// collect runs a query and scans every row with scan
func collect[T any](ctx context.Context, r *Repository, query string, scan func(pgx.Row) (T, error), args ...any) ([]T, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanAll(rows, scan)
}

func scanAll[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanMatch(row pgx.Row) (domain.Match, error) {
	var m domain.Match
	err := row.Scan(&m.ID, &m.SessionID, &m.Number, &m.StartedAt, &m.FinishedAt)
	return m, err
}

func scanConfirmation(row pgx.Row) (domain.Confirmation, error) {
	var c domain.Confirmation
	err := row.Scan(&c.MemberID, &c.SessionID, &c.Confirmed, &c.ConfirmedAt)
	return c, err
}

func scanAttendance(row pgx.Row) (domain.Attendance, error) {
	var a domain.Attendance
	err := row.Scan(&a.MemberID, &a.SessionID, &a.Present, &a.CheckinAt)
	return a, err
}

func scanAssignment(row pgx.Row) (domain.TeamAssignment, error) {
	var a domain.TeamAssignment
	err := row.Scan(&a.SessionID, &a.MatchID, &a.MemberID, &a.Team, &a.Goalkeeper)
	return a, err
}

func scanResult(row pgx.Row) (domain.Result, error) {
	var res domain.Result
	err := row.Scan(&res.SessionID, &res.MatchID, &res.Team, &res.Goals)
	return res, err
}

const statColumns = `session_id, COALESCE(match_id, 0), member_id, goals, assists,
	yellow_cards, blue_cards, red_cards, blue_red_cards`

func scanPlayerStat(row pgx.Row) (domain.PlayerStat, error) {
	var s domain.PlayerStat
	err := row.Scan(
		&s.SessionID,
		&s.MatchID,
		&s.MemberID,
		&s.Goals,
		&s.Assists,
		&s.YellowCards,
		&s.BlueCards,
		&s.RedCards,
		&s.BlueRedCards,
	)
	return s, err
}
