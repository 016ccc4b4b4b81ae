package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type pairKey struct{ a, b int64 }

type rowKey struct {
	session, match int64
	member         int64
	team           string
}

type electionKey struct {
	session int64
	kind    domain.ElectionKind
	member  int64
}

// memStore is an in-memory implementation of every store interface in this package.
// LoadFacts applies the same scoping rules as the SQL repository.
type memStore struct {
	nextID int64

	members       map[int64]*domain.Member
	groups        map[int64]*domain.Group
	memberships   map[pairKey]domain.Membership // (group, member)
	managers      map[pairKey]time.Time         // (group, member)
	requests      map[int64]*domain.JoinRequest
	sessions      map[int64]*domain.Session
	matches       map[int64]*domain.Match
	confirmations map[pairKey]domain.Confirmation // (member, session)
	attendances   map[pairKey]domain.Attendance   // (member, session)
	teams         []domain.TeamAssignment
	results       map[rowKey]domain.Result
	stats         map[rowKey]domain.PlayerStat
	elections     map[electionKey]int
	goalVotes     map[pairKey]*domain.GoalVote // (session, member)

	loadErr error
}

func newMemStore() *memStore {
	return &memStore{
		members:       make(map[int64]*domain.Member),
		groups:        make(map[int64]*domain.Group),
		memberships:   make(map[pairKey]domain.Membership),
		managers:      make(map[pairKey]time.Time),
		requests:      make(map[int64]*domain.JoinRequest),
		sessions:      make(map[int64]*domain.Session),
		matches:       make(map[int64]*domain.Match),
		confirmations: make(map[pairKey]domain.Confirmation),
		attendances:   make(map[pairKey]domain.Attendance),
		results:       make(map[rowKey]domain.Result),
		stats:         make(map[rowKey]domain.PlayerStat),
		elections:     make(map[electionKey]int),
		goalVotes:     make(map[pairKey]*domain.GoalVote),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// fixture helpers

func (m *memStore) addMember(name, position string) int64 {
	id := m.id()
	m.members[id] = &domain.Member{ID: id, Name: name, Position: position}
	return id
}

func (m *memStore) addGroup(name string, linePlayers int) int64 {
	id := m.id()
	m.groups[id] = &domain.Group{ID: id, Name: name, LinePlayers: linePlayers}
	return id
}

func (m *memStore) join(groupID, memberID int64) {
	m.memberships[pairKey{groupID, memberID}] = domain.Membership{
		GroupID: groupID, MemberID: memberID, Status: domain.MembershipActive, Origin: domain.OriginInvite,
	}
}

func (m *memStore) addSession(groupID int64, date string) int64 {
	id := m.id()
	m.sessions[id] = &domain.Session{ID: id, GroupID: groupID, Date: date, TeamCount: 2}
	return id
}

func (m *memStore) checkin(memberID, sessionID int64) {
	m.attendances[pairKey{memberID, sessionID}] = domain.Attendance{MemberID: memberID, SessionID: sessionID, Present: true}
}

func (m *memStore) assign(memberID, sessionID, matchID int64, team string) {
	m.teams = append(m.teams, domain.TeamAssignment{SessionID: sessionID, MatchID: matchID, MemberID: memberID, Team: team})
}

func (m *memStore) score(sessionID, matchID int64, team string, goals int) {
	m.results[rowKey{session: sessionID, match: matchID, team: team}] = domain.Result{
		SessionID: sessionID, MatchID: matchID, Team: team, Goals: goals,
	}
}

func (m *memStore) stat(s domain.PlayerStat) {
	m.stats[rowKey{session: s.SessionID, match: s.MatchID, member: s.MemberID}] = s
}

// members

func (m *memStore) CreateMember(_ context.Context, member *domain.Member) error {
	member.ID = m.id()
	cp := *member
	m.members[member.ID] = &cp
	return nil
}

func (m *memStore) ListMembers(_ context.Context) ([]domain.Member, error) {
	var out []domain.Member
	for _, mem := range m.members {
		out = append(out, *mem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetMember(_ context.Context, id int64) (*domain.Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *memStore) UpdateMember(_ context.Context, id int64, req domain.UpdateMemberRequest) error {
	mem, ok := m.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	if req.Name != nil {
		mem.Name = *req.Name
	}
	if req.Nickname != nil {
		mem.Nickname = *req.Nickname
	}
	if req.Position != nil {
		mem.Position = *req.Position
	}
	return nil
}

func (m *memStore) DeleteMember(_ context.Context, id int64) error {
	if _, ok := m.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(m.members, id)
	return nil
}

// groups

func (m *memStore) CreateGroup(_ context.Context, group *domain.Group) error {
	group.ID = m.id()
	cp := *group
	m.groups[group.ID] = &cp
	return nil
}

func (m *memStore) ListGroups(_ context.Context) ([]domain.Group, error) {
	var out []domain.Group
	for _, g := range m.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetGroup(_ context.Context, id int64) (*domain.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) GetGroupByInvite(_ context.Context, token string) (*domain.Group, error) {
	for _, g := range m.groups {
		if g.InviteToken == token {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrInviteNotFound
}

func (m *memStore) UpdateGroup(_ context.Context, id int64, req domain.UpdateGroupRequest) error {
	g, ok := m.groups[id]
	if !ok {
		return domain.ErrGroupNotFound
	}
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.LinePlayers != nil {
		g.LinePlayers = *req.LinePlayers
	}
	if req.Periodicity != nil {
		g.Periodicity = *req.Periodicity
	}
	return nil
}

func (m *memStore) DeleteGroup(_ context.Context, id int64) error {
	if _, ok := m.groups[id]; !ok {
		return domain.ErrGroupNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *memStore) SetInviteToken(_ context.Context, groupID int64, token string) error {
	g, ok := m.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	g.InviteToken = token
	return nil
}

func (m *memStore) AddManager(_ context.Context, groupID, memberID int64) error {
	m.managers[pairKey{groupID, memberID}] = time.Now()
	return nil
}

func (m *memStore) RemoveManager(_ context.Context, groupID, memberID int64) error {
	delete(m.managers, pairKey{groupID, memberID})
	return nil
}

func (m *memStore) ListManagers(_ context.Context, groupID int64) ([]domain.Manager, error) {
	var out []domain.Manager
	for k, at := range m.managers {
		if k.a == groupID {
			out = append(out, domain.Manager{GroupID: k.a, MemberID: k.b, CreatedAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (m *memStore) ListGroupsManagedBy(_ context.Context, memberID int64) ([]domain.Group, error) {
	var out []domain.Group
	for k := range m.managers {
		if k.b == memberID {
			out = append(out, *m.groups[k.a])
		}
	}
	return out, nil
}

func (m *memStore) UpsertMembership(_ context.Context, groupID, memberID int64, origin domain.MembershipOrigin) error {
	m.memberships[pairKey{groupID, memberID}] = domain.Membership{
		GroupID: groupID, MemberID: memberID, Status: domain.MembershipActive, Origin: origin,
	}
	return nil
}

func (m *memStore) RemoveMembership(_ context.Context, groupID, memberID int64) error {
	delete(m.memberships, pairKey{groupID, memberID})
	return nil
}

func (m *memStore) ListMemberships(_ context.Context, groupID int64) ([]domain.Membership, error) {
	var out []domain.Membership
	for k, ms := range m.memberships {
		if k.a == groupID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (m *memStore) MembershipExists(_ context.Context, groupID, memberID int64) (bool, error) {
	_, ok := m.memberships[pairKey{groupID, memberID}]
	return ok, nil
}

func (m *memStore) ListGroupsForMember(_ context.Context, memberID int64) ([]domain.Group, error) {
	var out []domain.Group
	for k, ms := range m.memberships {
		if k.b == memberID && ms.Status == domain.MembershipActive {
			out = append(out, *m.groups[k.a])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) HasPendingRequest(_ context.Context, groupID, memberID int64) (bool, error) {
	for _, r := range m.requests {
		if r.GroupID == groupID && r.MemberID == memberID && r.Status == domain.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateJoinRequest(_ context.Context, req *domain.JoinRequest) error {
	req.ID = m.id()
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *memStore) GetJoinRequest(_ context.Context, id int64) (*domain.JoinRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) SetJoinRequestStatus(_ context.Context, id int64, status domain.RequestStatus) error {
	r, ok := m.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	r.Status = status
	return nil
}

func (m *memStore) ListPendingRequests(_ context.Context, groupID int64) ([]domain.JoinRequest, error) {
	var out []domain.JoinRequest
	for _, r := range m.requests {
		if r.GroupID == groupID && r.Status == domain.RequestPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ListMemberRequests(_ context.Context, memberID int64) ([]domain.JoinRequest, error) {
	var out []domain.JoinRequest
	for _, r := range m.requests {
		if r.MemberID == memberID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// sessions and matches

func (m *memStore) CreateSession(_ context.Context, session *domain.Session) error {
	session.ID = m.id()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *memStore) GetSession(_ context.Context, id int64) (*domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) ListSessions(_ context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range m.sessions {
		if filter.GroupID != 0 && s.GroupID != filter.GroupID {
			continue
		}
		if !filter.Period.Contains(s.Date) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memStore) UpsertConfirmation(_ context.Context, c domain.Confirmation) error {
	m.confirmations[pairKey{c.MemberID, c.SessionID}] = c
	return nil
}

func (m *memStore) ListConfirmations(_ context.Context, sessionID int64) ([]domain.Confirmation, error) {
	var out []domain.Confirmation
	for _, c := range m.confirmations {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) UpsertAttendance(_ context.Context, a domain.Attendance) error {
	m.attendances[pairKey{a.MemberID, a.SessionID}] = a
	return nil
}

func (m *memStore) ListAttendances(_ context.Context, sessionID int64) ([]domain.Attendance, error) {
	var out []domain.Attendance
	for _, a := range m.attendances {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListPresentAttendees(_ context.Context, sessionID int64) ([]domain.Attendee, error) {
	var out []domain.Attendee
	for _, a := range m.attendances {
		if a.SessionID == sessionID && a.Present {
			out = append(out, domain.Attendee{MemberID: a.MemberID, Position: m.members[a.MemberID].Position})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (m *memStore) CreateMatch(_ context.Context, sessionID int64) (*domain.Match, error) {
	next := 1
	for _, mt := range m.matches {
		if mt.SessionID == sessionID && mt.Number >= next {
			next = mt.Number + 1
		}
	}
	now := time.Now()
	match := &domain.Match{ID: m.id(), SessionID: sessionID, Number: next, StartedAt: &now}
	m.matches[match.ID] = match
	cp := *match
	return &cp, nil
}

func (m *memStore) GetMatch(_ context.Context, id int64) (*domain.Match, error) {
	mt, ok := m.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	cp := *mt
	return &cp, nil
}

func (m *memStore) ListMatches(_ context.Context, sessionID int64) ([]domain.Match, error) {
	var out []domain.Match
	for _, mt := range m.matches {
		if mt.SessionID == sessionID {
			out = append(out, *mt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memStore) FinishMatch(_ context.Context, id int64) error {
	mt, ok := m.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	now := time.Now()
	mt.FinishedAt = &now
	return nil
}

func (m *memStore) ReplaceTeams(_ context.Context, sessionID, matchID int64, teams []domain.TeamAssignment) error {
	kept := m.teams[:0]
	for _, a := range m.teams {
		if !(a.SessionID == sessionID && a.MatchID == matchID) {
			kept = append(kept, a)
		}
	}
	m.teams = append(kept, teams...)
	return nil
}

func (m *memStore) ListTeams(_ context.Context, sessionID, matchID int64) ([]domain.TeamAssignment, error) {
	var out []domain.TeamAssignment
	for _, a := range m.teams {
		if a.SessionID == sessionID && a.MatchID == matchID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

func (m *memStore) UpsertResult(_ context.Context, r domain.Result) error {
	m.score(r.SessionID, r.MatchID, r.Team, r.Goals)
	return nil
}

func (m *memStore) ListResults(_ context.Context, sessionID, matchID int64) ([]domain.Result, error) {
	var out []domain.Result
	for _, r := range m.results {
		if r.SessionID == sessionID && r.MatchID == matchID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out, nil
}

func (m *memStore) UpsertPlayerStat(_ context.Context, s domain.PlayerStat) error {
	m.stat(s)
	return nil
}

func (m *memStore) ListPlayerStats(_ context.Context, sessionID, matchID int64) ([]domain.PlayerStat, error) {
	var out []domain.PlayerStat
	for _, s := range m.stats {
		if s.SessionID == sessionID && s.MatchID == matchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) IncrementElectionVote(_ context.Context, sessionID int64, kind domain.ElectionKind, memberID int64) error {
	m.elections[electionKey{sessionID, kind, memberID}]++
	return nil
}

func (m *memStore) ListElectionVotes(_ context.Context, sessionID int64) ([]domain.ElectionVote, error) {
	var out []domain.ElectionVote
	for k, v := range m.elections {
		if k.session == sessionID {
			out = append(out, domain.ElectionVote{SessionID: k.session, Kind: k.kind, MemberID: k.member, Votes: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	return out, nil
}

func (m *memStore) IncrementGoalVote(_ context.Context, sessionID, memberID int64, description string) error {
	k := pairKey{sessionID, memberID}
	v, ok := m.goalVotes[k]
	if !ok {
		v = &domain.GoalVote{SessionID: sessionID, MemberID: memberID}
		m.goalVotes[k] = v
	}
	v.Votes++
	if description != "" {
		v.Description = description
	}
	return nil
}

func (m *memStore) ListGoalVotes(_ context.Context, sessionID int64) ([]domain.GoalVote, error) {
	var out []domain.GoalVote
	for k, v := range m.goalVotes {
		if k.a == sessionID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	return out, nil
}

// statistics read side

func (m *memStore) ListMemberActiveGroups(_ context.Context, memberID int64) ([]domain.GroupRef, error) {
	var out []domain.GroupRef
	for k, ms := range m.memberships {
		if k.b == memberID && ms.Status == domain.MembershipActive {
			out = append(out, domain.GroupRef{ID: k.a, Name: m.groups[k.a].Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListActiveGroupMembers(_ context.Context, groupID int64) ([]domain.Member, error) {
	var out []domain.Member
	for k, ms := range m.memberships {
		if k.a == groupID && ms.Status == domain.MembershipActive {
			out = append(out, *m.members[k.b])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CountSessions(_ context.Context, groupID int64, period domain.Period) (int, error) {
	n := 0
	for _, s := range m.sessions {
		if (groupID == 0 || s.GroupID == groupID) && period.Contains(s.Date) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) LoadFacts(_ context.Context, scope domain.Scope) (domain.FactSet, error) {
	if m.loadErr != nil {
		return domain.FactSet{}, m.loadErr
	}

	inScope := func(sessionID int64) bool {
		s, ok := m.sessions[sessionID]
		if !ok {
			return false
		}
		if scope.GroupID != 0 && s.GroupID != scope.GroupID {
			return false
		}
		return scope.Period.Contains(s.Date)
	}
	forMember := func(memberID int64) bool {
		return scope.MemberID == 0 || memberID == scope.MemberID
	}

	var facts domain.FactSet
	for _, a := range m.attendances {
		if inScope(a.SessionID) && forMember(a.MemberID) {
			facts.Attendances = append(facts.Attendances, a)
		}
	}
	for _, c := range m.confirmations {
		if inScope(c.SessionID) && forMember(c.MemberID) {
			facts.Confirmations = append(facts.Confirmations, c)
		}
	}
	played := make(map[pairKey]bool)
	for _, a := range m.teams {
		if inScope(a.SessionID) && forMember(a.MemberID) {
			facts.Assignments = append(facts.Assignments, a)
			played[pairKey{a.SessionID, a.MatchID}] = true
		}
	}
	for _, r := range m.results {
		if !inScope(r.SessionID) {
			continue
		}
		if scope.MemberID != 0 && !played[pairKey{r.SessionID, r.MatchID}] {
			continue
		}
		facts.Results = append(facts.Results, r)
	}
	for _, s := range m.stats {
		if inScope(s.SessionID) && forMember(s.MemberID) {
			facts.Stats = append(facts.Stats, s)
		}
	}
	return facts, nil
}
