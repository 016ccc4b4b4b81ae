package stats

// Level tags the two kinds of confrontation a member can take part in
type Level int

const (
	SessionLevel Level = iota
	MatchLevel
)

func (l Level) String() string {
	if l == MatchLevel {
		return "match"
	}
	return "session"
}

// Confrontation identifies one independent win/draw/loss unit:
// a whole session, or a single match inside it.
type Confrontation struct {
	Level Level
	ID    int64
}

// ConfrontationOf maps the (session, match) pair stored on fact rows to its confrontation.
// A zero match id means the row belongs to the session itself.
func ConfrontationOf(sessionID, matchID int64) Confrontation {
	if matchID != 0 {
		return Confrontation{Level: MatchLevel, ID: matchID}
	}
	return Confrontation{Level: SessionLevel, ID: sessionID}
}

// Outcome is the result of a confrontation from one team's point of view
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "loss"
	}
}

// Classify decides a team's outcome given the goal counts of every team in the confrontation.
// Every team at the top score wins unless all teams tied; any team below the top loses.
func Classify(teamGoals int, allGoals []int) Outcome {
	if len(allGoals) == 0 {
		return Draw
	}
	hi, lo := allGoals[0], allGoals[0]
	for _, g := range allGoals[1:] {
		if g > hi {
			hi = g
		}
		if g < lo {
			lo = g
		}
	}
	switch {
	case hi == lo:
		return Draw
	case teamGoals == hi:
		return Win
	default:
		return Loss
	}
}
