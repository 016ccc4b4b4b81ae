package handler

import (
	"context"
	"net/http"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/go-chi/chi/v5"
)

// MemberService is the member registry used by the handlers
type MemberService interface {
	CreateMember(ctx context.Context, req domain.CreateMemberRequest) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, id int64) (*domain.Member, error)
	UpdateMember(ctx context.Context, id int64, req domain.UpdateMemberRequest) (*domain.Member, error)
	DeleteMember(ctx context.Context, id int64) error
}

func (h *Handler) memberRoutes(r chi.Router) {
	r.Get("/", h.ListMembers)
	r.Post("/", h.CreateMember)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetMember)
		r.Put("/", h.UpdateMember)
		r.Delete("/", h.DeleteMember)
		r.Get("/estatisticas", h.GetMemberStats)
		r.Get("/grupos", h.ListMemberGroups)
		r.Get("/grupos-responsavel", h.ListManagedGroups)
		r.Get("/solicitacoes", h.ListMemberRequests)
	})
}

// CreateMember registers a member
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	member, err := h.members.CreateMember(r.Context(), req)
	if err != nil {
		h.handleError(w, err, "create member")
		return
	}
	h.writeCreated(w, member)
}

// ListMembers returns every member
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListMembers(r.Context())
	if err != nil {
		h.handleError(w, err, "list members")
		return
	}
	h.writeSuccess(w, members)
}

// GetMember returns a member by id
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	member, err := h.members.GetMember(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "get member")
		return
	}
	h.writeSuccess(w, member)
}

// UpdateMember applies a partial update to a member
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateMemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	member, err := h.members.UpdateMember(r.Context(), id, req)
	if err != nil {
		h.handleError(w, err, "update member")
		return
	}
	h.writeSuccess(w, member)
}

// DeleteMember removes a member
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.members.DeleteMember(r.Context(), id); err != nil {
		h.handleError(w, err, "delete member")
		return
	}
	h.writeSuccess(w, map[string]string{"status": "deleted"})
}

// GetMemberStats returns a member's statistics across all groups
func (h *Handler) GetMemberStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.stats.GetMemberStats(r.Context(), id, periodQuery(r))
	if err != nil {
		h.handleError(w, err, "get member stats")
		return
	}
	h.writeSuccess(w, stats)
}

// ListMemberGroups returns the groups where a member is active
func (h *Handler) ListMemberGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	groups, err := h.groups.GroupsOfMember(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "list member groups")
		return
	}
	h.writeSuccess(w, groups)
}

// ListManagedGroups returns the groups a member is responsible for
func (h *Handler) ListManagedGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	groups, err := h.groups.GroupsManagedBy(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "list managed groups")
		return
	}
	h.writeSuccess(w, groups)
}

// ListMemberRequests returns the join requests filed by a member
func (h *Handler) ListMemberRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	reqs, err := h.groups.ListMemberRequests(r.Context(), id)
	if err != nil {
		h.handleError(w, err, "list member requests")
		return
	}
	h.writeSuccess(w, reqs)
}
