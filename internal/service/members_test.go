package service

import (
	"context"
	"errors"
	"testing"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

func TestMemberLifecycle(t *testing.T) {
	svc := NewMemberService(newMemStore(), testLogger())
	ctx := context.Background()

	member, err := svc.CreateMember(ctx, domain.CreateMemberRequest{Name: "  Ana Souza ", Nickname: "Aninha", Position: "goleiro"})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if member.Name != "Ana Souza" {
		t.Errorf("expected a trimmed name, got %q", member.Name)
	}

	nick := "Ana"
	updated, err := svc.UpdateMember(ctx, member.ID, domain.UpdateMemberRequest{Nickname: &nick})
	if err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}
	if updated.Nickname != "Ana" || updated.Position != "goleiro" {
		t.Errorf("partial update changed the wrong fields: %+v", updated)
	}

	list, _ := svc.ListMembers(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 member, got %d", len(list))
	}

	if err := svc.DeleteMember(ctx, member.ID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}
	if _, err := svc.GetMember(ctx, member.ID); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound after delete, got %v", err)
	}
}

func TestMemberValidation(t *testing.T) {
	svc := NewMemberService(newMemStore(), testLogger())
	ctx := context.Background()

	if _, err := svc.CreateMember(ctx, domain.CreateMemberRequest{Name: "   "}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for a blank name, got %v", err)
	}

	empty := ""
	if _, err := svc.UpdateMember(ctx, 1, domain.UpdateMemberRequest{Name: &empty}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for an empty name, got %v", err)
	}

	list, err := svc.ListMembers(ctx)
	if err != nil || list == nil {
		t.Errorf("expected an empty non-nil list, got %v, %v", list, err)
	}
}
