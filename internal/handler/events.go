package handler

import (
	"fmt"
	"net/http"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// IngestEvents applies a batch of scoresheet events posted directly
func (h *Handler) IngestEvents(w http.ResponseWriter, r *http.Request) {
	var events []domain.ScoresheetEvent
	if !h.decode(w, r, &events) {
		return
	}
	if len(events) == 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: no events", domain.ErrInvalidRequest))
		return
	}

	report := h.sessions.IngestEvents(r.Context(), events)
	h.logger.Info("scoresheet events ingested", "applied", report.Applied, "failed", report.Failed)
	h.writeSuccess(w, report)
}
