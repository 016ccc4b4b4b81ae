package service

import (
	"context"
	"errors"
	"testing"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

func TestCreateGroupDefaults(t *testing.T) {
	svc := NewGroupService(newMemStore(), testLogger())

	group, err := svc.CreateGroup(context.Background(), domain.CreateGroupRequest{Name: "Pelada de Sabado", Weekday: 6})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if group.LinePlayers != domain.DefaultLinePlayers {
		t.Errorf("expected %d line players, got %d", domain.DefaultLinePlayers, group.LinePlayers)
	}
	if group.MinPlayers != 12 || group.MaxPlayers != 24 {
		t.Errorf("unexpected player bounds %d..%d", group.MinPlayers, group.MaxPlayers)
	}
	if group.StartTime != "08:00" || group.EndTime != "10:00" {
		t.Errorf("unexpected schedule %s-%s", group.StartTime, group.EndTime)
	}
	if group.Periodicity != domain.PeriodicityWeekly || group.TeamKind != domain.TeamKindDynamic {
		t.Errorf("unexpected kinds %q/%q", group.Periodicity, group.TeamKind)
	}
	if len(group.InviteToken) != 32 {
		t.Errorf("expected a 32 character invite token, got %q", group.InviteToken)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	svc := NewGroupService(newMemStore(), testLogger())

	tests := []struct {
		name string
		req  domain.CreateGroupRequest
	}{
		{name: "missing name", req: domain.CreateGroupRequest{}},
		{name: "bad weekday", req: domain.CreateGroupRequest{Name: "x", Weekday: 7}},
		{name: "bad periodicity", req: domain.CreateGroupRequest{Name: "x", Periodicity: "diaria"}},
		{name: "bad team kind", req: domain.CreateGroupRequest{Name: "x", TeamKind: "misto"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateGroup(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestInviteFlow(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "")
	svc := NewGroupService(store, testLogger())
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, domain.CreateGroupRequest{Name: "Sabado"})

	joined, err := svc.AcceptInvite(ctx, group.InviteToken, ana)
	if err != nil {
		t.Fatalf("AcceptInvite failed: %v", err)
	}
	if joined.ID != group.ID {
		t.Errorf("joined group %d, expected %d", joined.ID, group.ID)
	}
	members, _ := svc.ListMembers(ctx, group.ID)
	if len(members) != 1 || members[0].Origin != domain.OriginInvite || members[0].Status != domain.MembershipActive {
		t.Errorf("unexpected memberships: %+v", members)
	}

	if _, err := svc.AcceptInvite(ctx, group.InviteToken, ana); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
	if _, err := svc.AcceptInvite(ctx, "", ana); !errors.Is(err, domain.ErrInviteNotFound) {
		t.Errorf("expected ErrInviteNotFound for an empty token, got %v", err)
	}

	old := group.InviteToken
	token, err := svc.RegenerateInvite(ctx, group.ID)
	if err != nil {
		t.Fatalf("RegenerateInvite failed: %v", err)
	}
	if token == old {
		t.Error("expected a new token")
	}
	if _, err := svc.ResolveInvite(ctx, old); !errors.Is(err, domain.ErrInviteNotFound) {
		t.Errorf("old token should no longer resolve, got %v", err)
	}
	if g, err := svc.ResolveInvite(ctx, token); err != nil || g.ID != group.ID {
		t.Errorf("new token should resolve to the group, got %v, %v", g, err)
	}
}

func TestJoinRequestFlow(t *testing.T) {
	store := newMemStore()
	bia := store.addMember("Bia", "")
	svc := NewGroupService(store, testLogger())
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, domain.CreateGroupRequest{Name: "Sabado"})

	req, err := svc.RequestToJoin(ctx, group.ID, domain.CreateJoinRequest{MemberID: bia, Message: "posso jogar?"})
	if err != nil {
		t.Fatalf("RequestToJoin failed: %v", err)
	}
	if req.Status != domain.RequestPending {
		t.Errorf("expected a pending request, got %q", req.Status)
	}

	_, err = svc.RequestToJoin(ctx, group.ID, domain.CreateJoinRequest{MemberID: bia})
	if !errors.Is(err, domain.ErrPendingRequestExists) {
		t.Errorf("expected ErrPendingRequestExists, got %v", err)
	}

	pending, _ := svc.ListPendingRequests(ctx, group.ID)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(pending))
	}

	if err := svc.ApproveRequest(ctx, req.ID); err != nil {
		t.Fatalf("ApproveRequest failed: %v", err)
	}
	members, _ := svc.ListMembers(ctx, group.ID)
	if len(members) != 1 || members[0].Origin != domain.OriginRequest {
		t.Errorf("expected a membership created by request, got %+v", members)
	}
	stored, _ := store.GetJoinRequest(ctx, req.ID)
	if stored.Status != domain.RequestApproved {
		t.Errorf("expected approved status, got %q", stored.Status)
	}
	if pending, _ := svc.ListPendingRequests(ctx, group.ID); len(pending) != 0 {
		t.Errorf("expected no pending requests after approval, got %d", len(pending))
	}

	if err := svc.ApproveRequest(ctx, 999); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestToJoinUnknownGroup(t *testing.T) {
	store := newMemStore()
	bia := store.addMember("Bia", "")
	svc := NewGroupService(store, testLogger())

	_, err := svc.RequestToJoin(context.Background(), 42, domain.CreateJoinRequest{MemberID: bia})
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestGroupDetailAndManagers(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "")
	bia := store.addMember("Bia", "")
	svc := NewGroupService(store, testLogger())
	ctx := context.Background()

	group, _ := svc.CreateGroup(ctx, domain.CreateGroupRequest{Name: "Sabado"})
	if err := svc.AddManager(ctx, group.ID, ana); err != nil {
		t.Fatalf("AddManager failed: %v", err)
	}
	if err := svc.AddMember(ctx, group.ID, bia); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := svc.AddMember(ctx, group.ID, 999); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}

	detail, err := svc.GetGroupDetail(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupDetail failed: %v", err)
	}
	if len(detail.Managers) != 1 || detail.Managers[0].MemberID != ana {
		t.Errorf("unexpected managers: %+v", detail.Managers)
	}
	if len(detail.Members) != 1 || detail.Members[0].MemberID != bia {
		t.Errorf("unexpected members: %+v", detail.Members)
	}

	managed, _ := svc.GroupsManagedBy(ctx, ana)
	if len(managed) != 1 {
		t.Errorf("expected 1 managed group, got %d", len(managed))
	}
	mine, _ := svc.GroupsOfMember(ctx, ana)
	if mine == nil || len(mine) != 0 {
		t.Errorf("a manager is not a member by default, got %+v", mine)
	}
}

func TestUpdateGroup(t *testing.T) {
	svc := NewGroupService(newMemStore(), testLogger())
	ctx := context.Background()
	group, _ := svc.CreateGroup(ctx, domain.CreateGroupRequest{Name: "Sabado"})

	name := "Sabado Cedo"
	line := 6
	got, err := svc.UpdateGroup(ctx, group.ID, domain.UpdateGroupRequest{Name: &name, LinePlayers: &line})
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if got.Name != name || got.LinePlayers != 6 {
		t.Errorf("update not applied: %+v", got)
	}

	zero := 0
	_, err = svc.UpdateGroup(ctx, group.ID, domain.UpdateGroupRequest{LinePlayers: &zero})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}

	_, err = svc.UpdateGroup(ctx, 999, domain.UpdateGroupRequest{Name: &name})
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
