package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antoniolazaro/futamadeuhub/internal/config"
	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed", "statements", len(migrations))
	return nil
}

// Session-level rows leave match_id NULL; the unique indexes fold NULL to 0 so
// session and match rows upsert independently.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		nickname VARCHAR(100) NOT NULL DEFAULT '',
		position VARCHAR(50) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL DEFAULT '',
		weekday INT NOT NULL DEFAULT 0,
		start_time VARCHAR(5) NOT NULL DEFAULT '08:00',
		end_time VARCHAR(5) NOT NULL DEFAULT '10:00',
		periodicity VARCHAR(20) NOT NULL DEFAULT 'semanal',
		line_players INT NOT NULL DEFAULT 10,
		min_players INT NOT NULL DEFAULT 12,
		max_players INT NOT NULL DEFAULT 24,
		team_kind VARCHAR(20) NOT NULL DEFAULT 'dinamico',
		invite_token VARCHAR(64) NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'ativo',
		origin VARCHAR(20) NOT NULL DEFAULT 'convite',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(group_id, member_id)
	)`,
	`CREATE TABLE IF NOT EXISTS group_managers (
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (group_id, member_id)
	)`,
	`CREATE TABLE IF NOT EXISTS join_requests (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'pendente',
		message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		team_count INT NOT NULL DEFAULT 2,
		division_kind VARCHAR(20) NOT NULL DEFAULT 'sorteio',
		format_kind VARCHAR(20) NOT NULL DEFAULT 'tempo',
		format_value INT,
		periods INT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGSERIAL PRIMARY KEY,
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		number INT NOT NULL,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP,
		UNIQUE(session_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS confirmations (
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		confirmed BOOLEAN NOT NULL,
		confirmed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (member_id, session_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		present BOOLEAN NOT NULL,
		checkin_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (member_id, session_id)
	)`,
	`CREATE TABLE IF NOT EXISTS team_assignments (
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		match_id BIGINT REFERENCES matches(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		team VARCHAR(20) NOT NULL,
		goalkeeper BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		match_id BIGINT REFERENCES matches(id) ON DELETE CASCADE,
		team VARCHAR(20) NOT NULL,
		goals INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS player_stats (
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		match_id BIGINT REFERENCES matches(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		goals INT NOT NULL DEFAULT 0,
		assists INT NOT NULL DEFAULT 0,
		yellow_cards INT NOT NULL DEFAULT 0,
		blue_cards INT NOT NULL DEFAULT 0,
		red_cards INT NOT NULL DEFAULT 0,
		blue_red_cards INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS election_votes (
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		kind VARCHAR(20) NOT NULL,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		votes INT NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, kind, member_id)
	)`,
	`CREATE TABLE IF NOT EXISTS goal_votes (
		session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		votes INT NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, member_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_team_assignments_unique ON team_assignments(session_id, (COALESCE(match_id, 0)), member_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_results_unique ON results(session_id, (COALESCE(match_id, 0)), team)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_player_stats_unique ON player_stats(session_id, (COALESCE(match_id, 0)), member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_group_date ON sessions(group_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_team_assignments_member ON team_assignments(member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_player_stats_member ON player_stats(member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_member ON group_members(member_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_join_requests_group ON join_requests(group_id, status)`,
}

// matchRef turns the zero match id of session-level rows into NULL
func matchRef(matchID int64) *int64 {
	if matchID == 0 {
		return nil
	}
	return &matchID
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, s)
	}
	return t, nil
}

// whereBuilder accumulates AND-ed conditions with positional placeholders.
// Each condition carries a single %d verb for its placeholder index.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// period adds inclusive date bounds on the given column
func (w *whereBuilder) period(column string, p domain.Period) error {
	if p.Start != "" {
		start, err := parseDate(p.Start)
		if err != nil {
			return err
		}
		w.add(column+" >= $%d", start)
	}
	if p.End != "" {
		end, err := parseDate(p.End)
		if err != nil {
			return err
		}
		w.add(column+" <= $%d", end)
	}
	return nil
}

// setBuilder accumulates the SET list of a partial update
type setBuilder struct {
	sets []string
	args []any
}

func (s *setBuilder) set(column string, arg any) {
	s.args = append(s.args, arg)
	s.sets = append(s.sets, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setBuilder) empty() bool {
	return len(s.sets) == 0
}

// update renders "UPDATE table SET ... WHERE id = $n" with the id appended last
func (s *setBuilder) update(table, extra string, id int64) (string, []any) {
	sets := s.sets
	if extra != "" {
		sets = append(append([]string{}, sets...), extra)
	}
	args := append(s.args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args)), args
}
