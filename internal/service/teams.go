package service

import (
	"fmt"
	"strings"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// Shuffler permutes n elements in place through swap, like rand.Shuffle
type Shuffler func(n int, swap func(i, j int))

// TeamLabel returns the label of the i-th team: A, B, C...
func TeamLabel(i int) string {
	return string(rune('A' + i))
}

// DrawTeams splits present attendees into random teams.
//
// Goalkeepers and line players are shuffled separately. The team count is the
// number of full line-ups the line players can fill and must be at least two.
// Each team receives at most one goalkeeper; goalkeepers beyond the team count
// stay out of the draw. Line players are dealt round-robin.
func DrawTeams(attendees []domain.Attendee, linePlayers int, goalkeeperPosition string, shuffle Shuffler) ([]domain.TeamSlot, error) {
	if len(attendees) == 0 {
		return nil, domain.ErrNoAttendees
	}
	if linePlayers <= 0 {
		return nil, fmt.Errorf("%w: line players per team must be positive", domain.ErrInvalidRequest)
	}

	var keepers, field []int64
	for _, a := range attendees {
		if strings.EqualFold(strings.TrimSpace(a.Position), goalkeeperPosition) {
			keepers = append(keepers, a.MemberID)
		} else {
			field = append(field, a.MemberID)
		}
	}

	teamCount := len(field) / linePlayers
	if teamCount < 2 {
		return nil, fmt.Errorf("%w: need at least %d line players, have %d",
			domain.ErrInsufficientPlayers, linePlayers*2, len(field))
	}

	shuffle(len(keepers), func(i, j int) { keepers[i], keepers[j] = keepers[j], keepers[i] })
	shuffle(len(field), func(i, j int) { field[i], field[j] = field[j], field[i] })

	slots := make([]domain.TeamSlot, 0, len(field)+teamCount)
	for i, id := range keepers {
		if i >= teamCount {
			break
		}
		slots = append(slots, domain.TeamSlot{MemberID: id, Team: TeamLabel(i), Goalkeeper: true})
	}
	for i, id := range field {
		slots = append(slots, domain.TeamSlot{MemberID: id, Team: TeamLabel(i % teamCount)})
	}

	return slots, nil
}

// ValidateSplit checks a manual split: labels are required, members appear once and the
// number of distinct teams may not exceed floor(len(division) / linePlayers).
func ValidateSplit(division []domain.TeamSlot, linePlayers int) error {
	if linePlayers <= 0 {
		return fmt.Errorf("%w: line players per team must be positive", domain.ErrInvalidRequest)
	}

	teams := make(map[string]struct{})
	seen := make(map[int64]struct{}, len(division))
	for _, slot := range division {
		if slot.MemberID <= 0 || strings.TrimSpace(slot.Team) == "" {
			return fmt.Errorf("%w: every entry needs associado_id and time", domain.ErrInvalidRequest)
		}
		if _, dup := seen[slot.MemberID]; dup {
			return fmt.Errorf("%w: member %d assigned twice", domain.ErrInvalidRequest, slot.MemberID)
		}
		seen[slot.MemberID] = struct{}{}
		teams[slot.Team] = struct{}{}
	}

	maxTeams := len(division) / linePlayers
	if len(teams) > maxTeams {
		return fmt.Errorf("%w: at most %d teams allowed (%d players / %d per team)",
			domain.ErrInvalidTeamCount, maxTeams, len(division), linePlayers)
	}
	return nil
}
