package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// MemberStore persists members
type MemberStore interface {
	CreateMember(ctx context.Context, member *domain.Member) error
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, id int64) (*domain.Member, error)
	UpdateMember(ctx context.Context, id int64, req domain.UpdateMemberRequest) error
	DeleteMember(ctx context.Context, id int64) error
}

// MemberService provides member registration operations
type MemberService struct {
	store  MemberStore
	logger *slog.Logger
}

// NewMemberService creates a new member service
func NewMemberService(store MemberStore, logger *slog.Logger) *MemberService {
	return &MemberService{
		store:  store,
		logger: logger,
	}
}

// CreateMember registers a member
func (s *MemberService) CreateMember(ctx context.Context, req domain.CreateMemberRequest) (*domain.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	member := &domain.Member{
		Name:     strings.TrimSpace(req.Name),
		Nickname: strings.TrimSpace(req.Nickname),
		Position: strings.TrimSpace(req.Position),
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}

	s.logger.Info("member created", "member_id", member.ID)
	return member, nil
}

// ListMembers returns every member ordered by name
func (s *MemberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return nonNil(members), nil
}

// GetMember returns a member by id
func (s *MemberService) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	return s.store.GetMember(ctx, id)
}

// UpdateMember applies a partial update and returns the stored member
func (s *MemberService) UpdateMember(ctx context.Context, id int64, req domain.UpdateMemberRequest) (*domain.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateMember(ctx, id, req); err != nil {
		return nil, fmt.Errorf("updating member: %w", err)
	}
	return s.store.GetMember(ctx, id)
}

// DeleteMember removes a member
func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.store.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	s.logger.Info("member deleted", "member_id", id)
	return nil
}
