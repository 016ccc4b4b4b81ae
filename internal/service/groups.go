package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/google/uuid"
)

// GroupStore persists groups, memberships, managers and join requests
type GroupStore interface {
	GetMember(ctx context.Context, id int64) (*domain.Member, error)

	CreateGroup(ctx context.Context, group *domain.Group) error
	ListGroups(ctx context.Context) ([]domain.Group, error)
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	GetGroupByInvite(ctx context.Context, token string) (*domain.Group, error)
	UpdateGroup(ctx context.Context, id int64, req domain.UpdateGroupRequest) error
	DeleteGroup(ctx context.Context, id int64) error
	SetInviteToken(ctx context.Context, groupID int64, token string) error

	AddManager(ctx context.Context, groupID, memberID int64) error
	RemoveManager(ctx context.Context, groupID, memberID int64) error
	ListManagers(ctx context.Context, groupID int64) ([]domain.Manager, error)
	ListGroupsManagedBy(ctx context.Context, memberID int64) ([]domain.Group, error)

	UpsertMembership(ctx context.Context, groupID, memberID int64, origin domain.MembershipOrigin) error
	RemoveMembership(ctx context.Context, groupID, memberID int64) error
	ListMemberships(ctx context.Context, groupID int64) ([]domain.Membership, error)
	MembershipExists(ctx context.Context, groupID, memberID int64) (bool, error)
	ListGroupsForMember(ctx context.Context, memberID int64) ([]domain.Group, error)

	HasPendingRequest(ctx context.Context, groupID, memberID int64) (bool, error)
	CreateJoinRequest(ctx context.Context, req *domain.JoinRequest) error
	GetJoinRequest(ctx context.Context, id int64) (*domain.JoinRequest, error)
	SetJoinRequestStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	ListPendingRequests(ctx context.Context, groupID int64) ([]domain.JoinRequest, error)
	ListMemberRequests(ctx context.Context, memberID int64) ([]domain.JoinRequest, error)
}

// GroupService provides group administration operations
type GroupService struct {
	store   GroupStore
	logger  *slog.Logger
	tokenFn func() string
}

// NewGroupService creates a new group service
func NewGroupService(store GroupStore, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:   store,
		logger:  logger,
		tokenFn: newInviteToken,
	}
}

// newInviteToken returns 32 random hex characters
func newInviteToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateGroup creates a group with defaults applied and a fresh invite token
func (s *GroupService) CreateGroup(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	group := req.ToGroup()
	group.InviteToken = s.tokenFn()
	if err := s.store.CreateGroup(ctx, &group); err != nil {
		return nil, fmt.Errorf("creating group: %w", err)
	}

	s.logger.Info("group created", "group_id", group.ID, "name", group.Name)
	return &group, nil
}

// ListGroups returns every group ordered by name
func (s *GroupService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return nonNil(groups), nil
}

// GetGroup returns a group by id
func (s *GroupService) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// GetGroupDetail returns a group together with its managers and members
func (s *GroupService) GetGroupDetail(ctx context.Context, id int64) (*domain.GroupDetail, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	managers, err := s.store.ListManagers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing managers: %w", err)
	}
	members, err := s.store.ListMemberships(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	return &domain.GroupDetail{
		Group:    *group,
		Managers: nonNil(managers),
		Members:  nonNil(members),
	}, nil
}

// UpdateGroup applies a partial update and returns the stored group
func (s *GroupService) UpdateGroup(ctx context.Context, id int64, req domain.UpdateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateGroup(ctx, id, req); err != nil {
		return nil, fmt.Errorf("updating group: %w", err)
	}
	return s.store.GetGroup(ctx, id)
}

// DeleteGroup removes a group
func (s *GroupService) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	s.logger.Info("group deleted", "group_id", id)
	return nil
}

// AddManager makes a member responsible for a group
func (s *GroupService) AddManager(ctx context.Context, groupID, memberID int64) error {
	if err := s.ensureGroupAndMember(ctx, groupID, memberID); err != nil {
		return err
	}
	if err := s.store.AddManager(ctx, groupID, memberID); err != nil {
		return fmt.Errorf("adding manager: %w", err)
	}
	return nil
}

// RemoveManager revokes a member's responsibility for a group
func (s *GroupService) RemoveManager(ctx context.Context, groupID, memberID int64) error {
	if err := s.store.RemoveManager(ctx, groupID, memberID); err != nil {
		return fmt.Errorf("removing manager: %w", err)
	}
	return nil
}

// ListManagers returns the managers of a group
func (s *GroupService) ListManagers(ctx context.Context, groupID int64) ([]domain.Manager, error) {
	managers, err := s.store.ListManagers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing managers: %w", err)
	}
	return nonNil(managers), nil
}

// AddMember adds an active membership created by an administrator
func (s *GroupService) AddMember(ctx context.Context, groupID, memberID int64) error {
	if err := s.ensureGroupAndMember(ctx, groupID, memberID); err != nil {
		return err
	}
	if err := s.store.UpsertMembership(ctx, groupID, memberID, domain.OriginInvite); err != nil {
		return fmt.Errorf("adding member to group: %w", err)
	}
	return nil
}

// RemoveMember removes a membership
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	if err := s.store.RemoveMembership(ctx, groupID, memberID); err != nil {
		return fmt.Errorf("removing member from group: %w", err)
	}
	return nil
}

// ListMembers returns the memberships of a group
func (s *GroupService) ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error) {
	members, err := s.store.ListMemberships(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	return nonNil(members), nil
}

// GroupsOfMember returns the groups where the member is active
func (s *GroupService) GroupsOfMember(ctx context.Context, memberID int64) ([]domain.Group, error) {
	groups, err := s.store.ListGroupsForMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing member groups: %w", err)
	}
	return nonNil(groups), nil
}

// GroupsManagedBy returns the groups a member is responsible for
func (s *GroupService) GroupsManagedBy(ctx context.Context, memberID int64) ([]domain.Group, error) {
	groups, err := s.store.ListGroupsManagedBy(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing managed groups: %w", err)
	}
	return nonNil(groups), nil
}

// ResolveInvite returns the group an invite token points to
func (s *GroupService) ResolveInvite(ctx context.Context, token string) (*domain.Group, error) {
	if token == "" {
		return nil, domain.ErrInviteNotFound
	}
	return s.store.GetGroupByInvite(ctx, token)
}

// RegenerateInvite replaces a group's invite token, invalidating the previous link
func (s *GroupService) RegenerateInvite(ctx context.Context, groupID int64) (string, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return "", err
	}
	token := s.tokenFn()
	if err := s.store.SetInviteToken(ctx, groupID, token); err != nil {
		return "", fmt.Errorf("setting invite token: %w", err)
	}
	s.logger.Info("invite link regenerated", "group_id", groupID)
	return token, nil
}

// AcceptInvite joins a member to the group behind an invite token
func (s *GroupService) AcceptInvite(ctx context.Context, token string, memberID int64) (*domain.Group, error) {
	group, err := s.ResolveInvite(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, err
	}

	exists, err := s.store.MembershipExists(ctx, group.ID, memberID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.store.UpsertMembership(ctx, group.ID, memberID, domain.OriginInvite); err != nil {
		return nil, fmt.Errorf("adding member to group: %w", err)
	}
	s.logger.Info("invite accepted", "group_id", group.ID, "member_id", memberID)
	return group, nil
}

// RequestToJoin files a pending join request
func (s *GroupService) RequestToJoin(ctx context.Context, groupID int64, req domain.CreateJoinRequest) (*domain.JoinRequest, error) {
	if err := s.ensureGroupAndMember(ctx, groupID, req.MemberID); err != nil {
		return nil, err
	}

	pending, err := s.store.HasPendingRequest(ctx, groupID, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("checking pending requests: %w", err)
	}
	if pending {
		return nil, domain.ErrPendingRequestExists
	}

	jr := &domain.JoinRequest{
		GroupID:  groupID,
		MemberID: req.MemberID,
		Status:   domain.RequestPending,
		Message:  req.Message,
	}
	if err := s.store.CreateJoinRequest(ctx, jr); err != nil {
		return nil, fmt.Errorf("creating join request: %w", err)
	}
	return jr, nil
}

// ListPendingRequests returns the pending requests of a group, newest first
func (s *GroupService) ListPendingRequests(ctx context.Context, groupID int64) ([]domain.JoinRequest, error) {
	reqs, err := s.store.ListPendingRequests(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing join requests: %w", err)
	}
	return nonNil(reqs), nil
}

// ListMemberRequests returns every request filed by a member, newest first
func (s *GroupService) ListMemberRequests(ctx context.Context, memberID int64) ([]domain.JoinRequest, error) {
	reqs, err := s.store.ListMemberRequests(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing member join requests: %w", err)
	}
	return nonNil(reqs), nil
}

// ApproveRequest adds the requester to the group and marks the request approved
func (s *GroupService) ApproveRequest(ctx context.Context, requestID int64) error {
	jr, err := s.store.GetJoinRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.store.UpsertMembership(ctx, jr.GroupID, jr.MemberID, domain.OriginRequest); err != nil {
		return fmt.Errorf("adding member to group: %w", err)
	}
	if err := s.store.SetJoinRequestStatus(ctx, requestID, domain.RequestApproved); err != nil {
		return fmt.Errorf("approving join request: %w", err)
	}
	s.logger.Info("join request approved", "request_id", requestID, "group_id", jr.GroupID, "member_id", jr.MemberID)
	return nil
}

// RejectRequest marks a request rejected
func (s *GroupService) RejectRequest(ctx context.Context, requestID int64) error {
	if err := s.store.SetJoinRequestStatus(ctx, requestID, domain.RequestRejected); err != nil {
		return fmt.Errorf("rejecting join request: %w", err)
	}
	return nil
}

func (s *GroupService) ensureGroupAndMember(ctx context.Context, groupID, memberID int64) error {
	if memberID <= 0 {
		return fmt.Errorf("%w: associado_id is required", domain.ErrInvalidRequest)
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return err
	}
	return nil
}

// nonNil keeps empty listings encoded as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
