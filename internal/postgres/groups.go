package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/jackc/pgx/v5"
)

const groupColumns = `g.id, g.name, g.description, g.location, g.weekday, g.start_time, g.end_time,
	g.periodicity, g.line_players, g.min_players, g.max_players, g.team_kind, g.invite_token,
	g.created_at, g.updated_at`

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.Location,
		&g.Weekday,
		&g.StartTime,
		&g.EndTime,
		&g.Periodicity,
		&g.LinePlayers,
		&g.MinPlayers,
		&g.MaxPlayers,
		&g.TeamKind,
		&g.InviteToken,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repository) queryGroups(ctx context.Context, query string, args ...any) ([]domain.Group, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// CreateGroup inserts a group and fills its id and timestamps
func (r *Repository) CreateGroup(ctx context.Context, group *domain.Group) error {
	query := `
		INSERT INTO groups (name, description, location, weekday, start_time, end_time, periodicity,
			line_players, min_players, max_players, team_kind, invite_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING id
	`
	now := time.Now()
	err := r.pool.QueryRow(ctx, query,
		group.Name,
		group.Description,
		group.Location,
		group.Weekday,
		group.StartTime,
		group.EndTime,
		string(group.Periodicity),
		group.LinePlayers,
		group.MinPlayers,
		group.MaxPlayers,
		string(group.TeamKind),
		group.InviteToken,
		now,
	).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}
	group.CreatedAt, group.UpdatedAt = now, now
	return nil
}

// ListGroups retrieves all groups ordered by name
func (r *Repository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := r.queryGroups(ctx, `SELECT `+groupColumns+` FROM groups g ORDER BY g.name, g.id`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}

// GetGroup retrieves a group by id
func (r *Repository) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	g, err := scanGroup(r.pool.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups g WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return g, nil
}

// GetGroupByInvite retrieves the group an invite token belongs to
func (r *Repository) GetGroupByInvite(ctx context.Context, token string) (*domain.Group, error) {
	g, err := scanGroup(r.pool.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups g WHERE g.invite_token = $1`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, fmt.Errorf("getting group by invite: %w", err)
	}
	return g, nil
}

// UpdateGroup applies the non-nil fields of a partial update
func (r *Repository) UpdateGroup(ctx context.Context, id int64, req domain.UpdateGroupRequest) error {
	var sb setBuilder
	if req.Name != nil {
		sb.set("name", *req.Name)
	}
	if req.Description != nil {
		sb.set("description", *req.Description)
	}
	if req.Location != nil {
		sb.set("location", *req.Location)
	}
	if req.Weekday != nil {
		sb.set("weekday", *req.Weekday)
	}
	if req.StartTime != nil {
		sb.set("start_time", *req.StartTime)
	}
	if req.EndTime != nil {
		sb.set("end_time", *req.EndTime)
	}
	if req.Periodicity != nil {
		sb.set("periodicity", string(*req.Periodicity))
	}
	if req.LinePlayers != nil {
		sb.set("line_players", *req.LinePlayers)
	}
	if req.MinPlayers != nil {
		sb.set("min_players", *req.MinPlayers)
	}
	if req.MaxPlayers != nil {
		sb.set("max_players", *req.MaxPlayers)
	}
	if req.TeamKind != nil {
		sb.set("team_kind", string(*req.TeamKind))
	}
	if sb.empty() {
		_, err := r.GetGroup(ctx, id)
		return err
	}

	query, args := sb.update("groups", "updated_at = CURRENT_TIMESTAMP", id)
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// DeleteGroup removes a group and all associated data
func (r *Repository) DeleteGroup(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// SetInviteToken replaces a group's invite token
func (r *Repository) SetInviteToken(ctx context.Context, groupID int64, token string) error {
	query := `UPDATE groups SET invite_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, token, groupID)
	if err != nil {
		return fmt.Errorf("setting invite token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// AddManager makes a member responsible for a group; repeated calls are no-ops
func (r *Repository) AddManager(ctx context.Context, groupID, memberID int64) error {
	query := `
		INSERT INTO group_managers (group_id, member_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, member_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, groupID, memberID, time.Now()); err != nil {
		return fmt.Errorf("adding manager: %w", err)
	}
	return nil
}

// RemoveManager revokes a member's responsibility for a group
func (r *Repository) RemoveManager(ctx context.Context, groupID, memberID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM group_managers WHERE group_id = $1 AND member_id = $2`, groupID, memberID)
	if err != nil {
		return fmt.Errorf("removing manager: %w", err)
	}
	return nil
}

// ListManagers retrieves the managers of a group with their member identity
func (r *Repository) ListManagers(ctx context.Context, groupID int64) ([]domain.Manager, error) {
	query := `
		SELECT gm.group_id, gm.member_id, gm.created_at, m.id, m.name, m.nickname, m.position
		FROM group_managers gm
		JOIN members m ON m.id = gm.member_id
		WHERE gm.group_id = $1
		ORDER BY m.name
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing managers: %w", err)
	}
	defer rows.Close()

	var managers []domain.Manager
	for rows.Next() {
		var mg domain.Manager
		err := rows.Scan(
			&mg.GroupID,
			&mg.MemberID,
			&mg.CreatedAt,
			&mg.Member.ID,
			&mg.Member.Name,
			&mg.Member.Nickname,
			&mg.Member.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning manager: %w", err)
		}
		managers = append(managers, mg)
	}
	return managers, rows.Err()
}

// ListGroupsManagedBy retrieves the groups a member is responsible for
func (r *Repository) ListGroupsManagedBy(ctx context.Context, memberID int64) ([]domain.Group, error) {
	query := `SELECT ` + groupColumns + `
		FROM groups g
		JOIN group_managers gm ON gm.group_id = g.id
		WHERE gm.member_id = $1
		ORDER BY g.name`
	groups, err := r.queryGroups(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing managed groups: %w", err)
	}
	return groups, nil
}

// UpsertMembership makes a membership active, creating it when missing
func (r *Repository) UpsertMembership(ctx context.Context, groupID, memberID int64, origin domain.MembershipOrigin) error {
	query := `
		INSERT INTO group_members (group_id, member_id, status, origin, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (group_id, member_id)
		DO UPDATE SET status = $3, origin = $4
	`
	_, err := r.pool.Exec(ctx, query, groupID, memberID, string(domain.MembershipActive), string(origin), time.Now())
	if err != nil {
		return fmt.Errorf("upserting membership: %w", err)
	}
	return nil
}

// RemoveMembership deletes a membership
func (r *Repository) RemoveMembership(ctx context.Context, groupID, memberID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND member_id = $2`, groupID, memberID)
	if err != nil {
		return fmt.Errorf("removing membership: %w", err)
	}
	return nil
}

// ListMemberships retrieves every membership of a group with the member identity
func (r *Repository) ListMemberships(ctx context.Context, groupID int64) ([]domain.Membership, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.member_id, gm.status, gm.origin, gm.created_at,
			m.id, m.name, m.nickname, m.position
		FROM group_members gm
		JOIN members m ON m.id = gm.member_id
		WHERE gm.group_id = $1
		ORDER BY m.name
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var ms domain.Membership
		err := rows.Scan(
			&ms.ID,
			&ms.GroupID,
			&ms.MemberID,
			&ms.Status,
			&ms.Origin,
			&ms.CreatedAt,
			&ms.Member.ID,
			&ms.Member.Name,
			&ms.Member.Nickname,
			&ms.Member.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning membership: %w", err)
		}
		memberships = append(memberships, ms)
	}
	return memberships, rows.Err()
}

// MembershipExists checks whether a member has any membership in a group
func (r *Repository) MembershipExists(ctx context.Context, groupID, memberID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND member_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, groupID, memberID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking membership existence: %w", err)
	}
	return exists, nil
}

// ListGroupsForMember retrieves the groups where a member is active
func (r *Repository) ListGroupsForMember(ctx context.Context, memberID int64) ([]domain.Group, error) {
	query := `SELECT ` + groupColumns + `
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.member_id = $1 AND gm.status = $2
		ORDER BY g.name`
	groups, err := r.queryGroups(ctx, query, memberID, string(domain.MembershipActive))
	if err != nil {
		return nil, fmt.Errorf("listing member groups: %w", err)
	}
	return groups, nil
}

// HasPendingRequest checks for an open join request of a member to a group
func (r *Repository) HasPendingRequest(ctx context.Context, groupID, memberID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM join_requests WHERE group_id = $1 AND member_id = $2 AND status = $3)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, groupID, memberID, string(domain.RequestPending)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking pending request: %w", err)
	}
	return exists, nil
}

// CreateJoinRequest inserts a join request and fills its id and timestamps
func (r *Repository) CreateJoinRequest(ctx context.Context, req *domain.JoinRequest) error {
	query := `
		INSERT INTO join_requests (group_id, member_id, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`
	now := time.Now()
	err := r.pool.QueryRow(ctx, query, req.GroupID, req.MemberID, string(req.Status), req.Message, now).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("creating join request: %w", err)
	}
	req.CreatedAt, req.UpdatedAt = now, now
	return nil
}

const joinRequestQuery = `
	SELECT jr.id, jr.group_id, jr.member_id, jr.status, jr.message, jr.created_at, jr.updated_at,
		m.id, m.name, m.nickname, m.position, g.id, g.name
	FROM join_requests jr
	JOIN members m ON m.id = jr.member_id
	JOIN groups g ON g.id = jr.group_id
`

func scanJoinRequest(row pgx.Row) (*domain.JoinRequest, error) {
	var jr domain.JoinRequest
	err := row.Scan(
		&jr.ID,
		&jr.GroupID,
		&jr.MemberID,
		&jr.Status,
		&jr.Message,
		&jr.CreatedAt,
		&jr.UpdatedAt,
		&jr.Member.ID,
		&jr.Member.Name,
		&jr.Member.Nickname,
		&jr.Member.Position,
		&jr.Group.ID,
		&jr.Group.Name,
	)
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

func (r *Repository) queryJoinRequests(ctx context.Context, where string, args ...any) ([]domain.JoinRequest, error) {
	rows, err := r.pool.Query(ctx, joinRequestQuery+where+` ORDER BY jr.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		jr, err := scanJoinRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning join request: %w", err)
		}
		reqs = append(reqs, *jr)
	}
	return reqs, rows.Err()
}

// GetJoinRequest retrieves a join request by id
func (r *Repository) GetJoinRequest(ctx context.Context, id int64) (*domain.JoinRequest, error) {
	jr, err := scanJoinRequest(r.pool.QueryRow(ctx, joinRequestQuery+` WHERE jr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("getting join request: %w", err)
	}
	return jr, nil
}

// SetJoinRequestStatus moves a join request to a new status
func (r *Repository) SetJoinRequestStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	query := `UPDATE join_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating join request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// ListPendingRequests retrieves the pending join requests of a group, newest first
func (r *Repository) ListPendingRequests(ctx context.Context, groupID int64) ([]domain.JoinRequest, error) {
	reqs, err := r.queryJoinRequests(ctx, ` WHERE jr.group_id = $1 AND jr.status = $2`, groupID, string(domain.RequestPending))
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	return reqs, nil
}

// ListMemberRequests retrieves every join request filed by a member, newest first
func (r *Repository) ListMemberRequests(ctx context.Context, memberID int64) ([]domain.JoinRequest, error) {
	reqs, err := r.queryJoinRequests(ctx, ` WHERE jr.member_id = $1`, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing member requests: %w", err)
	}
	return reqs, nil
}
