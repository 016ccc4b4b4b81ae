package service

import (
	"context"
	"errors"
	"testing"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/antoniolazaro/futamadeuhub/internal/stats"
)

func TestGetMemberStatsNotFound(t *testing.T) {
	svc := NewStatsService(newMemStore(), testLogger())

	_, err := svc.GetMemberStats(context.Background(), 99, domain.Period{})
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if !domain.IsNotFoundError(err) {
		t.Error("expected a not-found classification")
	}
}

func TestGetMemberStatsInvalidPeriod(t *testing.T) {
	store := newMemStore()
	id := store.addMember("Ana", "")
	svc := NewStatsService(store, testLogger())

	_, err := svc.GetMemberStats(context.Background(), id, domain.Period{Start: "01/02/2024"})
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestGetMemberStatsAcrossGroups(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "atacante")
	bia := store.addMember("Bia", "zagueiro")

	sabado := store.addGroup("Sabado", 10)
	quarta := store.addGroup("Quarta", 10)
	store.join(sabado, ana)
	store.join(quarta, ana)
	store.join(sabado, bia)

	s1 := store.addSession(sabado, "2024-03-02")
	s2 := store.addSession(quarta, "2024-03-06")
	store.addSession(sabado, "2024-03-09")
	store.addSession(quarta, "2024-03-13")

	// s1: Ana wins 3-1
	store.checkin(ana, s1)
	store.checkin(bia, s1)
	store.assign(ana, s1, 0, "A")
	store.assign(bia, s1, 0, "B")
	store.score(s1, 0, "A", 3)
	store.score(s1, 0, "B", 1)
	store.stat(domain.PlayerStat{SessionID: s1, MemberID: ana, Goals: 2, Assists: 1})

	// s2: Ana draws 0-0
	store.checkin(ana, s2)
	store.assign(ana, s2, 0, "A")
	store.score(s2, 0, "A", 0)
	store.score(s2, 0, "B", 0)

	svc := NewStatsService(store, testLogger())
	got, err := svc.GetMemberStats(context.Background(), ana, domain.Period{})
	if err != nil {
		t.Fatalf("GetMemberStats failed: %v", err)
	}

	if got.Games != 2 || got.Wins != 1 || got.Draws != 1 || got.Losses != 0 {
		t.Errorf("unexpected record: games=%d W/D/L=%d/%d/%d", got.Games, got.Wins, got.Draws, got.Losses)
	}
	// 2 games + 3 per win + 1 per draw
	if got.Points != 6 {
		t.Errorf("expected 6 points, got %d", got.Points)
	}
	if got.Goals != 2 || got.Assists != 1 {
		t.Errorf("expected 2 goals and 1 assist, got %d/%d", got.Goals, got.Assists)
	}
	// 2 of the 4 sessions held by all groups
	if got.Frequency != 50 {
		t.Errorf("expected frequency 50, got %v", got.Frequency)
	}
	if got.WinRate != got.WinPercentage {
		t.Errorf("win rate %v should equal win percentage %v", got.WinRate, got.WinPercentage)
	}
	if len(got.Groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(got.Groups))
	}
}

func TestGetMemberStatsNoActivity(t *testing.T) {
	store := newMemStore()
	id := store.addMember("Caio", "")
	svc := NewStatsService(store, testLogger())

	got, err := svc.GetMemberStats(context.Background(), id, domain.Period{})
	if err != nil {
		t.Fatalf("GetMemberStats failed: %v", err)
	}
	if got.Games != 0 || got.Points != 0 || got.Frequency != 0 {
		t.Errorf("expected zeroed metrics, got %+v", got.Metrics)
	}
	if got.Groups == nil {
		t.Error("groups should be an empty list, not nil")
	}
}

func TestGetGroupRankingUnknownGroup(t *testing.T) {
	svc := NewStatsService(newMemStore(), testLogger())

	rows, err := svc.GetGroupRanking(context.Background(), 42, domain.Period{})
	if err != nil {
		t.Fatalf("GetGroupRanking failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("expected an empty ranking, got %v", rows)
	}
}

func TestGetGroupRankingOrder(t *testing.T) {
	store := newMemStore()
	ze := store.addMember("Ze", "")
	ana := store.addMember("Ana", "")
	caio := store.addMember("Caio", "")
	g := store.addGroup("Sabado", 10)
	for _, id := range []int64{ze, ana, caio} {
		store.join(g, id)
	}

	s := store.addSession(g, "2024-03-02")
	for _, id := range []int64{ze, ana, caio} {
		store.checkin(id, s)
	}
	store.assign(ze, s, 0, "A")
	store.assign(ana, s, 0, "A")
	store.assign(caio, s, 0, "B")
	store.score(s, 0, "A", 2)
	store.score(s, 0, "B", 1)

	svc := NewStatsService(store, testLogger())
	rows, err := svc.GetGroupRanking(context.Background(), g, domain.Period{})
	if err != nil {
		t.Fatalf("GetGroupRanking failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Ze and Ana tie on 4 points; the lower id comes first
	want := []struct {
		id     int64
		points int
	}{{ze, 4}, {ana, 4}, {caio, 1}}
	for i, w := range want {
		if rows[i].MemberID != w.id || rows[i].Points != w.points {
			t.Errorf("row %d: expected member %d with %d points, got member %d with %d",
				i, w.id, w.points, rows[i].MemberID, rows[i].Points)
		}
	}
	if rows[0].Efficiency != 100 {
		t.Errorf("expected efficiency 100 for a single win, got %v", rows[0].Efficiency)
	}
	if rows[2].Efficiency != 0 {
		t.Errorf("expected efficiency 0 for a single loss, got %v", rows[2].Efficiency)
	}
}

func TestGetGroupRankingScopesToGroup(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "")
	g := store.addGroup("Sabado", 10)
	other := store.addGroup("Quarta", 10)
	store.join(g, ana)
	store.join(other, ana)

	var own []int64
	for i, date := range []string{"2024-03-02", "2024-03-09", "2024-03-16", "2024-03-23", "2024-03-30"} {
		id := store.addSession(g, date)
		own = append(own, id)
		if i < 2 {
			store.checkin(ana, id)
		}
	}
	elsewhere := store.addSession(other, "2024-03-06")
	store.checkin(ana, elsewhere)
	store.stat(domain.PlayerStat{SessionID: elsewhere, MemberID: ana, Goals: 5})

	svc := NewStatsService(store, testLogger())
	rows, err := svc.GetGroupRanking(context.Background(), g, domain.Period{})
	if err != nil {
		t.Fatalf("GetGroupRanking failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Games != 2 {
		t.Errorf("expected 2 games inside the group, got %d", row.Games)
	}
	if row.Goals != 0 {
		t.Errorf("goals from another group leaked into the ranking: %d", row.Goals)
	}
	if row.Frequency != 40 {
		t.Errorf("expected frequency 40, got %v", row.Frequency)
	}
}

func TestGetGroupRankingPeriod(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "")
	g := store.addGroup("Sabado", 10)
	store.join(g, ana)

	jan := store.addSession(g, "2024-01-13")
	mar := store.addSession(g, "2024-03-09")
	store.checkin(ana, jan)
	store.checkin(ana, mar)

	svc := NewStatsService(store, testLogger())
	rows, err := svc.GetGroupRanking(context.Background(), g, domain.Period{Start: "2024-02-01", End: "2024-12-31"})
	if err != nil {
		t.Fatalf("GetGroupRanking failed: %v", err)
	}
	if rows[0].Games != 1 {
		t.Errorf("expected 1 game inside the period, got %d", rows[0].Games)
	}
	if rows[0].Frequency != 100 {
		t.Errorf("expected frequency 100, got %v", rows[0].Frequency)
	}
}

func TestGetGroupRankingSkipsInactiveMembers(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "")
	bia := store.addMember("Bia", "")
	g := store.addGroup("Sabado", 10)
	store.join(g, ana)
	store.memberships[pairKey{g, bia}] = domain.Membership{GroupID: g, MemberID: bia, Status: domain.MembershipPending}

	svc := NewStatsService(store, testLogger())
	rows, err := svc.GetGroupRanking(context.Background(), g, domain.Period{})
	if err != nil {
		t.Fatalf("GetGroupRanking failed: %v", err)
	}
	if len(rows) != 1 || rows[0].MemberID != ana {
		t.Errorf("expected only the active member, got %+v", rows)
	}
}

func TestGetGroupRankingStoreError(t *testing.T) {
	store := newMemStore()
	ana := store.addMember("Ana", "")
	g := store.addGroup("Sabado", 10)
	store.join(g, ana)
	store.loadErr = errors.New("connection reset")

	svc := NewStatsService(store, testLogger())
	if _, err := svc.GetGroupRanking(context.Background(), g, domain.Period{}); err == nil {
		t.Fatal("expected the store error to propagate")
	}
}

// A ranking row must match the member engine run over the same group's facts.
func TestRankingAgreesWithMemberScope(t *testing.T) {
	store := newMemStore()
	g := store.addGroup("Sabado", 10)
	var ids []int64
	for _, name := range []string{"Ana", "Bia", "Caio", "Duda", "Edu", "Fabi"} {
		id := store.addMember(name, "")
		store.join(g, id)
		ids = append(ids, id)
	}

	s1 := store.addSession(g, "2024-04-06")
	s2 := store.addSession(g, "2024-04-13")

	// s1 has a session score and two matches
	for i, id := range ids {
		store.checkin(id, s1)
		team := TeamLabel(i % 3)
		store.assign(id, s1, 0, team)
		store.assign(id, s1, 100, team)
		store.assign(id, s1, 101, TeamLabel((i+1)%3))
	}
	store.score(s1, 0, "A", 3)
	store.score(s1, 0, "B", 3)
	store.score(s1, 0, "C", 1)
	store.score(s1, 100, "A", 0)
	store.score(s1, 100, "B", 2)
	store.score(s1, 101, "C", 1)
	store.score(s1, 101, "A", 1)
	store.score(s1, 101, "B", 1)
	store.stat(domain.PlayerStat{SessionID: s1, MemberID: ids[0], Goals: 2, YellowCards: 1})
	store.stat(domain.PlayerStat{SessionID: s1, MatchID: 100, MemberID: ids[1], Goals: 1, BlueCards: 1})
	store.stat(domain.PlayerStat{SessionID: s1, MatchID: 101, MemberID: ids[2], RedCards: 1})

	// s2: two confirmed no-shows, the rest play
	for i, id := range ids {
		if i < 2 {
			store.confirmations[pairKey{id, s2}] = domain.Confirmation{MemberID: id, SessionID: s2, Confirmed: true}
			continue
		}
		store.checkin(id, s2)
		store.assign(id, s2, 0, TeamLabel(i%2))
	}
	store.score(s2, 0, "A", 4)
	store.score(s2, 0, "B", 2)

	ctx := context.Background()
	svc := NewStatsService(store, testLogger())
	rows, err := svc.GetGroupRanking(ctx, g, domain.Period{})
	if err != nil {
		t.Fatalf("GetGroupRanking failed: %v", err)
	}
	sessions, _ := store.CountSessions(ctx, g, domain.Period{})

	for _, row := range rows {
		facts, err := store.LoadFacts(ctx, domain.Scope{MemberID: row.MemberID, GroupID: g})
		if err != nil {
			t.Fatalf("LoadFacts failed: %v", err)
		}
		totals := stats.NewLedger(facts).Tally(row.MemberID)
		if want := totals.Metrics(sessions); row.Metrics != want {
			t.Errorf("member %d: ranking %+v, member scope %+v", row.MemberID, row.Metrics, want)
		}
		if row.Efficiency != totals.Efficiency() {
			t.Errorf("member %d: efficiency %v, member scope %v", row.MemberID, row.Efficiency, totals.Efficiency())
		}
	}

	for i := 1; i < len(rows); i++ {
		if rows[i-1].Points < rows[i].Points {
			t.Errorf("ranking not sorted at %d: %d < %d", i, rows[i-1].Points, rows[i].Points)
		}
	}
}
