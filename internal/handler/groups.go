package handler

import (
	"context"
	"net/http"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GroupService is the group administration used by the handlers
type GroupService interface {
	CreateGroup(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	GetGroupDetail(ctx context.Context, id int64) (*domain.GroupDetail, error)
	UpdateGroup(ctx context.Context, id int64, req domain.UpdateGroupRequest) (*domain.Group, error)
	DeleteGroup(ctx context.Context, id int64) error

	AddManager(ctx context.Context, groupID, memberID int64) error
	RemoveManager(ctx context.Context, groupID, memberID int64) error
	ListManagers(ctx context.Context, groupID int64) ([]domain.Manager, error)

	AddMember(ctx context.Context, groupID, memberID int64) error
	RemoveMember(ctx context.Context, groupID, memberID int64) error
	ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error)
	GroupsOfMember(ctx context.Context, memberID int64) ([]domain.Group, error)
	GroupsManagedBy(ctx context.Context, memberID int64) ([]domain.Group, error)

	ResolveInvite(ctx context.Context, token string) (*domain.Group, error)
	RegenerateInvite(ctx context.Context, groupID int64) (string, error)
	AcceptInvite(ctx context.Context, token string, memberID int64) (*domain.Group, error)

	RequestToJoin(ctx context.Context, groupID int64, req domain.CreateJoinRequest) (*domain.JoinRequest, error)
	ListPendingRequests(ctx context.Context, groupID int64) ([]domain.JoinRequest, error)
	ListMemberRequests(ctx context.Context, memberID int64) ([]domain.JoinRequest, error)
	ApproveRequest(ctx context.Context, requestID int64) error
	RejectRequest(ctx context.Context, requestID int64) error
}

func (h *Handler) groupRoutes(r chi.Router) {
	r.Get("/", h.ListGroups)
	r.Post("/", h.CreateGroup)

	// Invite links and join requests
	r.Get("/convite/{token}", h.ResolveInvite)
	r.Post("/convite/{token}/aceitar", h.AcceptInvite)
	r.Post("/solicitacoes/{id}/aprovar", h.ApproveRequest)
	r.Post("/solicitacoes/{id}/rejeitar", h.RejectRequest)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetGroup)
		r.Put("/", h.UpdateGroup)
		r.Delete("/", h.DeleteGroup)

		r.Get("/responsaveis", h.ListManagers)
		r.Post("/responsaveis", h.AddManager)
		r.Delete("/responsaveis/{associadoID}", h.RemoveManager)

		r.Get("/associados", h.ListGroupMembers)
		r.Post("/associados", h.AddGroupMember)
		r.Delete("/associados/{associadoID}", h.RemoveGroupMember)

		r.Post("/gerar-link", h.RegenerateInvite)
		r.Post("/solicitar-entrada", h.RequestToJoin)
		r.Get("/solicitacoes", h.ListPendingRequests)
	})
}

// CreateGroup creates a group
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), req)
	if err != nil {
		h.handleError(w, err, "create group")
		return
	}
	h.writeCreated(w, group)
}

// ListGroups returns every group
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListGroups(r.Context())
	if err != nil {
		h.handleError(w, err, "list groups")
		return
	}
	h.writeSuccess(w, groups)
}

// GetGroup returns a group with its managers and members
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.groups.GetGroupDetail(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get group")
		return
	}
	h.writeSuccess(w, detail)
}

// UpdateGroup applies a partial update to a group
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, err := h.groups.UpdateGroup(r.Context(), id, req)
	if err != nil {
		h.handleError(w, err, "update group")
		return
	}
	h.writeSuccess(w, group)
}

// DeleteGroup removes a group
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.groups.DeleteGroup(r.Context(), id); err != nil {
		h.handleError(w, err, "delete group")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "deleted"})
}

// ListManagers returns the managers of a group
func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	managers, err := h.groups.ListManagers(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "list managers")
		return
	}
	h.writeSuccess(w, managers)
}

// AddManager makes a member responsible for a group
func (h *Handler) AddManager(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.MemberIDRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.groups.AddManager(r.Context(), id, req.MemberID); err != nil {
		h.handleError(w, err, "add manager")
		return
	}
	h.writeCreated(w, map[string]string{"status": "added"})
}

// RemoveManager revokes a member's responsibility for a group
func (h *Handler) RemoveManager(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := h.idParam(w, r, "associadoID")
	if !ok {
		return
	}

	if err := h.groups.RemoveManager(r.Context(), id, memberID); err != nil {
		h.handleError(w, err, "remove manager")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "removed"})
}

// ListGroupMembers returns the memberships of a group
func (h *Handler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	members, err := h.groups.ListMembers(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "list group members")
		return
	}
	h.writeSuccess(w, members)
}

// AddGroupMember adds a member to a group
func (h *Handler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.MemberIDRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.groups.AddMember(r.Context(), id, req.MemberID); err != nil {
		h.handleError(w, err, "add group member")
		return
	}
	h.writeCreated(w, map[string]string{"status": "added"})
}

// RemoveGroupMember removes a member from a group
func (h *Handler) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := h.idParam(w, r, "associadoID")
	if !ok {
		return
	}

	if err := h.groups.RemoveMember(r.Context(), id, memberID); err != nil {
		h.handleError(w, err, "remove group member")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "removed"})
}

// RegenerateInvite issues a new invite token for a group
func (h *Handler) RegenerateInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	token, err := h.groups.RegenerateInvite(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "regenerate invite")
		return
	}
	h.writeSuccess(w, map[string]string{"link_convite": token})
}

// ResolveInvite returns the group behind an invite token
func (h *Handler) ResolveInvite(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.ResolveInvite(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.handleError(w, err, "resolve invite")
		return
	}
	h.writeSuccess(w, group)
}

// AcceptInvite joins a member through an invite token
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req domain.MemberIDRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, err := h.groups.AcceptInvite(r.Context(), chi.URLParam(r, "token"), req.MemberID)
	if err != nil {
		h.handleError(w, err, "accept invite")
		return
	}
	h.writeSuccess(w, group)
}

// RequestToJoin files a join request
func (h *Handler) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.CreateJoinRequest
	if !h.decode(w, r, &req) {
		return
	}

	jr, err := h.groups.RequestToJoin(r.Context(), id, req)
	if err != nil {
		h.handleError(w, err, "request to join")
		return
	}
	h.writeCreated(w, jr)
}

// ListPendingRequests returns the pending join requests of a group
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	reqs, err := h.groups.ListPendingRequests(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "list pending requests")
		return
	}
	h.writeSuccess(w, reqs)
}

// ApproveRequest approves a join request
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.groups.ApproveRequest(r.Context(), id); err != nil {
		h.handleError(w, err, "approve request")
		return
	}
	h.writeSuccess(w, map[string]string{"status": string(domain.RequestApproved)})
}

// RejectRequest rejects a join request
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.groups.RejectRequest(r.Context(), id); err != nil {
		h.handleError(w, err, "reject request")
		return
	}
	h.writeSuccess(w, map[string]string{"status": string(domain.RequestRejected)})
}
