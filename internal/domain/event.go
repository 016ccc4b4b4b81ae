package domain

import "fmt"

// EventType identifies the kind of fact carried by a scoresheet event
type EventType string

const (
	EventResult       EventType = "result"
	EventPlayerStat   EventType = "player_stat"
	EventCheckin      EventType = "checkin"
	EventConfirmation EventType = "confirmation"
)

// ScoresheetEvent is a fact reported from the pitch side, delivered through the message broker
type ScoresheetEvent struct {
	EventID      string    `json:"event_id"`
	Type         EventType `json:"type"`
	SessionID    int64     `json:"session_id"`
	MatchID      int64     `json:"match_id,omitempty"`
	MemberID     int64     `json:"member_id,omitempty"`
	Team         string    `json:"team,omitempty"`
	Goals        int       `json:"gols,omitempty"`
	Assists      int       `json:"assistencias,omitempty"`
	YellowCards  int       `json:"cartao_amarelo,omitempty"`
	BlueCards    int       `json:"cartao_azul,omitempty"`
	RedCards     int       `json:"cartao_vermelho,omitempty"`
	BlueRedCards int       `json:"cartao_azul_vermelho,omitempty"`
	Confirmed    bool      `json:"confirmado,omitempty"`
	Present      bool      `json:"presente,omitempty"`
}

// Validate checks that the event carries what its type needs
func (e *ScoresheetEvent) Validate() error {
	if e.SessionID <= 0 && e.MatchID <= 0 {
		return fmt.Errorf("%w: session_id or match_id is required", ErrInvalidRequest)
	}
	switch e.Type {
	case EventResult:
		if e.Team == "" {
			return fmt.Errorf("%w: result event without team", ErrInvalidRequest)
		}
	case EventPlayerStat, EventCheckin, EventConfirmation:
		if e.MemberID <= 0 {
			return fmt.Errorf("%w: %s event without member_id", ErrInvalidRequest, e.Type)
		}
		if e.Type != EventPlayerStat && e.SessionID <= 0 {
			return fmt.Errorf("%w: %s event without session_id", ErrInvalidRequest, e.Type)
		}
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidRequest, e.Type)
	}
	return nil
}

// IngestReport summarizes a processed event batch
type IngestReport struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
}
