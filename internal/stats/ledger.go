// Package stats reduces raw attendance, team and scoresheet rows into
// per-member statistics. It holds no state between calls.
package stats

import (
	"math"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

// Point weights
const (
	PointsPerGame        = 1
	PointsPerAbsence     = -1
	PointsPerWin         = 3
	PointsPerDraw        = 1
	PointsPerBlueCard    = -2
	PointsPerRedCard     = -3
	PointsPerBlueRedCard = -5
	PointsPerYellowCard  = 0
)

// Totals are the raw counters of one member within a fact set
type Totals struct {
	Games             int
	ConfirmedAbsences int
	Goals             int
	Assists           int
	Wins              int
	Draws             int
	Losses            int
	YellowCards       int
	BlueCards         int
	RedCards          int
	BlueRedCards      int
}

// Points applies the scoring rules to the counters
func (t Totals) Points() int {
	return t.Games*PointsPerGame +
		t.ConfirmedAbsences*PointsPerAbsence +
		t.Wins*PointsPerWin +
		t.Draws*PointsPerDraw +
		t.YellowCards*PointsPerYellowCard +
		t.BlueCards*PointsPerBlueCard +
		t.RedCards*PointsPerRedCard +
		t.BlueRedCards*PointsPerBlueRedCard
}

// Metrics derives the published metric set. sessions is the frequency denominator.
func (t Totals) Metrics(sessions int) domain.Metrics {
	m := domain.Metrics{
		Games:        t.Games,
		Points:       t.Points(),
		Goals:        t.Goals,
		Assists:      t.Assists,
		Wins:         t.Wins,
		Draws:        t.Draws,
		Losses:       t.Losses,
		YellowCards:  t.YellowCards,
		BlueCards:    t.BlueCards,
		RedCards:     t.RedCards,
		BlueRedCards: t.BlueRedCards,
	}
	if t.Games > 0 {
		games := float64(t.Games)
		m.GoalsPerGame = Round2(float64(t.Goals) / games)
		m.WinPercentage = Round2(float64(t.Wins) / games * 100)
		m.LossPercentage = Round2(float64(t.Losses) / games * 100)
		m.DrawPercentage = Round2(float64(t.Draws) / games * 100)
	}
	if sessions > 0 {
		m.Frequency = Round2(float64(t.Games) / float64(sessions) * 100)
	}
	return m
}

// Efficiency is the share of available points won from results: (3W + D) / (3 * games)
func (t Totals) Efficiency() float64 {
	if t.Games == 0 {
		return 0
	}
	return Round2(float64(t.Wins*3+t.Draws) / float64(t.Games*3) * 100)
}

// Round2 rounds half-up to two decimal places
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

type memberFacts struct {
	present   map[int64]bool
	confirmed []int64
	teams     map[Confrontation]string
	stats     []domain.PlayerStat
}

// Ledger indexes a fact set once so any number of members can be tallied from it
type Ledger struct {
	members map[int64]*memberFacts
	results map[Confrontation]map[string]int
}

// NewLedger indexes the rows of a fact set by member and by confrontation
func NewLedger(facts domain.FactSet) *Ledger {
	l := &Ledger{
		members: make(map[int64]*memberFacts),
		results: make(map[Confrontation]map[string]int),
	}

	for _, a := range facts.Attendances {
		if a.Present {
			l.member(a.MemberID).present[a.SessionID] = true
		}
	}
	for _, c := range facts.Confirmations {
		if c.Confirmed {
			mf := l.member(c.MemberID)
			mf.confirmed = append(mf.confirmed, c.SessionID)
		}
	}
	for _, a := range facts.Assignments {
		key := ConfrontationOf(a.SessionID, a.MatchID)
		mf := l.member(a.MemberID)
		if _, ok := mf.teams[key]; !ok {
			mf.teams[key] = a.Team
		}
	}
	for _, r := range facts.Results {
		key := ConfrontationOf(r.SessionID, r.MatchID)
		teams, ok := l.results[key]
		if !ok {
			teams = make(map[string]int)
			l.results[key] = teams
		}
		teams[r.Team] = r.Goals
	}
	for _, s := range facts.Stats {
		mf := l.member(s.MemberID)
		mf.stats = append(mf.stats, s)
	}

	return l
}

func (l *Ledger) member(id int64) *memberFacts {
	mf, ok := l.members[id]
	if !ok {
		mf = &memberFacts{
			present: make(map[int64]bool),
			teams:   make(map[Confrontation]string),
		}
		l.members[id] = mf
	}
	return mf
}

// Tally computes the counters of one member. Unknown members yield zero totals.
func (l *Ledger) Tally(memberID int64) Totals {
	var t Totals
	mf, ok := l.members[memberID]
	if !ok {
		return t
	}

	t.Games = len(mf.present)
	for _, sessionID := range mf.confirmed {
		if !mf.present[sessionID] {
			t.ConfirmedAbsences++
		}
	}

	for _, s := range mf.stats {
		t.Goals += s.Goals
		t.Assists += s.Assists
		t.YellowCards += s.YellowCards
		t.BlueCards += s.BlueCards
		t.RedCards += s.RedCards
		t.BlueRedCards += s.BlueRedCards
	}

	for key, team := range mf.teams {
		goals, ok := l.results[key][team]
		if !ok {
			continue
		}
		all := make([]int, 0, len(l.results[key]))
		for _, g := range l.results[key] {
			all = append(all, g)
		}
		switch Classify(goals, all) {
		case Win:
			t.Wins++
		case Draw:
			t.Draws++
		default:
			t.Losses++
		}
	}

	return t
}

// Confrontations returns how many confrontations the member has both a team and a result in
func (l *Ledger) Confrontations(memberID int64) int {
	mf, ok := l.members[memberID]
	if !ok {
		return 0
	}
	n := 0
	for key, team := range mf.teams {
		if _, ok := l.results[key][team]; ok {
			n++
		}
	}
	return n
}
