package handler

import (
	"context"
	"net/http"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// StatsService computes member statistics and group rankings
type StatsService interface {
	GetMemberStats(ctx context.Context, memberID int64, period domain.Period) (*domain.MemberStats, error)
	GetGroupRanking(ctx context.Context, groupID int64, period domain.Period) ([]domain.RankingRow, error)
}

// GetGroupRanking returns the ranking of a group, optionally bounded by inicio and fim
func (h *Handler) GetGroupRanking(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.idParam(w, r, "grupoID")
	if !ok {
		return
	}

	ranking, err := h.stats.GetGroupRanking(r.Context(), groupID, periodQuery(r))
	if err != nil {
		h.handleError(w, err, "get group ranking")
		return
	}
	h.writeSuccess(w, ranking)
}
