package service

import (
	"context"
	"fmt"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// IngestEvents applies a batch of scoresheet events in order.
// A failing event is logged and skipped; the rest of the batch still applies.
func (s *SessionService) IngestEvents(ctx context.Context, events []domain.ScoresheetEvent) domain.IngestReport {
	var report domain.IngestReport
	for _, event := range events {
		if err := s.applyEvent(ctx, event); err != nil {
			report.Failed++
			s.logger.Error("failed to apply scoresheet event",
				"event_id", event.EventID,
				"type", event.Type,
				"session_id", event.SessionID,
				"match_id", event.MatchID,
				"error", err,
			)
			// Continue processing other events
			continue
		}
		report.Applied++
	}
	return report
}

func (s *SessionService) applyEvent(ctx context.Context, e domain.ScoresheetEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}

	switch e.Type {
	case domain.EventResult:
		req := domain.ResultRequest{Team: e.Team, Goals: e.Goals}
		if e.MatchID != 0 {
			return s.RecordMatchResult(ctx, e.MatchID, req)
		}
		return s.RecordResult(ctx, e.SessionID, req)

	case domain.EventPlayerStat:
		stat := domain.PlayerStat{
			MemberID:     e.MemberID,
			Goals:        e.Goals,
			Assists:      e.Assists,
			YellowCards:  e.YellowCards,
			BlueCards:    e.BlueCards,
			RedCards:     e.RedCards,
			BlueRedCards: e.BlueRedCards,
		}
		if e.MatchID != 0 {
			return s.RecordMatchPlayerStat(ctx, e.MatchID, stat)
		}
		return s.RecordPlayerStat(ctx, e.SessionID, stat)

	case domain.EventCheckin:
		return s.CheckIn(ctx, e.SessionID, domain.CheckinRequest{MemberID: e.MemberID, Present: e.Present})

	case domain.EventConfirmation:
		return s.Confirm(ctx, e.SessionID, domain.ConfirmRequest{MemberID: e.MemberID, Confirmed: e.Confirmed})
	}

	return fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidRequest, e.Type)
}
