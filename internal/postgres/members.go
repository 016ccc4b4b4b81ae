package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/jackc/pgx/v5"
)

const memberColumns = `id, name, nickname, position, created_at, updated_at`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.Name, &m.Nickname, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMember inserts a member and fills its id and timestamps
func (r *Repository) CreateMember(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (name, nickname, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	now := time.Now()
	err := r.pool.QueryRow(ctx, query, member.Name, member.Nickname, member.Position, now).Scan(&member.ID)
	if err != nil {
		return fmt.Errorf("creating member: %w", err)
	}
	member.CreatedAt, member.UpdatedAt = now, now
	return nil
}

// ListMembers retrieves all members ordered by name
func (r *Repository) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// GetMember retrieves a member by id
func (r *Repository) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// UpdateMember applies the non-nil fields of a partial update
func (r *Repository) UpdateMember(ctx context.Context, id int64, req domain.UpdateMemberRequest) error {
	var sb setBuilder
	if req.Name != nil {
		sb.set("name", *req.Name)
	}
	if req.Nickname != nil {
		sb.set("nickname", *req.Nickname)
	}
	if req.Position != nil {
		sb.set("position", *req.Position)
	}
	if sb.empty() {
		_, err := r.GetMember(ctx, id)
		return err
	}

	query, args := sb.update("members", "updated_at = CURRENT_TIMESTAMP", id)
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// DeleteMember removes a member and, through cascades, every fact about them
func (r *Repository) DeleteMember(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
