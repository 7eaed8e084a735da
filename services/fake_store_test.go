package services

import (
	"context"
	"sort"
	"sync"

	"league-stats-engine/apperrors"
	"league-stats-engine/models"
	"league-stats-engine/store"
)

// Fixture ids. Player ids are ordered p1 < p2 < ... so tie-break
// assertions are readable.
const (
	leagueA = "aaaaaaaa-0000-4000-8000-00000000000a"
	leagueB = "bbbbbbbb-0000-4000-8000-00000000000b"
	seasonA = "cccccccc-0000-4000-8000-00000000000c"

	p1 = "11111111-0000-4000-8000-000000000001"
	p2 = "22222222-0000-4000-8000-000000000002"
	p3 = "33333333-0000-4000-8000-000000000003"
	p4 = "44444444-0000-4000-8000-000000000004"
	p5 = "55555555-0000-4000-8000-000000000005"
)

// fakeStore is an in-memory Store for service tests. It counts fetches
// so tests can assert that validation rejects before any store access
// and that cached reads skip the store entirely.
type fakeStore struct {
	mu sync.Mutex

	leagues map[string]models.League
	players map[string]models.Player
	matches []models.Match
	stats   []models.PlayerMatchStat
	votes   []models.Vote

	failWith error // returned by every fetch when set

	fetchCalls  int
	wroteXP     map[string]int // matchID + "|" + playerID
	wroteTotals map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leagues:     make(map[string]models.League),
		players:     make(map[string]models.Player),
		wroteXP:     make(map[string]int),
		wroteTotals: make(map[string]int),
	}
}

func (f *fakeStore) countFetch() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.failWith
}

func (f *fakeStore) FetchMatches(_ context.Context, filter store.MatchFilter) ([]models.Match, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	var out []models.Match
	for _, m := range f.matches {
		if m.Archived {
			continue
		}
		if filter.LeagueID != nil && m.LeagueID != *filter.LeagueID {
			continue
		}
		if filter.SeasonID != nil && (m.SeasonID == nil || *m.SeasonID != *filter.SeasonID) {
			continue
		}
		if filter.Year != nil && m.Date.Year() != *filter.Year {
			continue
		}
		if len(filter.StatusIn) > 0 && !contains(filter.StatusIn, m.Status) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) FetchMatch(_ context.Context, matchID string) (*models.Match, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	for _, m := range f.matches {
		if m.ID == matchID {
			m := m
			return &m, nil
		}
	}
	return nil, apperrors.ErrNotFound("match", matchID)
}

func (f *fakeStore) FetchPlayerStats(_ context.Context, matchIDs []string, playerID *string) ([]models.PlayerMatchStat, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	var out []models.PlayerMatchStat
	for _, st := range f.stats {
		if !contains(matchIDs, st.MatchID) {
			continue
		}
		if playerID != nil && st.PlayerID != *playerID {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeStore) FetchVotes(_ context.Context, matchIDs []string) ([]models.Vote, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	var out []models.Vote
	for _, v := range f.votes {
		if contains(matchIDs, v.MatchID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchLeagueMembers(_ context.Context, leagueID string) ([]models.Player, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	league, ok := f.leagues[leagueID]
	if !ok {
		return nil, apperrors.ErrNotFound("league", leagueID)
	}
	var out []models.Player
	for _, id := range league.MemberIDs {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchLeague(_ context.Context, leagueID string) (*models.League, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	league, ok := f.leagues[leagueID]
	if !ok {
		return nil, apperrors.ErrNotFound("league", leagueID)
	}
	return &league, nil
}

func (f *fakeStore) FetchPlayer(_ context.Context, playerID string) (*models.Player, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	p, ok := f.players[playerID]
	if !ok {
		return nil, apperrors.ErrNotFound("player", playerID)
	}
	return &p, nil
}

func (f *fakeStore) FetchPlayers(_ context.Context, playerIDs []string) ([]models.Player, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	var out []models.Player
	for _, id := range playerIDs {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchPlayerLeagues(_ context.Context, playerID string) ([]models.League, error) {
	if err := f.countFetch(); err != nil {
		return nil, err
	}
	var out []models.League
	for _, id := range sortedKeys(f.leagues) {
		if f.leagues[id].MemberIDs.Contains(playerID) {
			out = append(out, f.leagues[id])
		}
	}
	return out, nil
}

func (f *fakeStore) WriteXP(_ context.Context, matchID, playerID string, xp int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wroteXP[matchID+"|"+playerID] = xp
	for i := range f.stats {
		if f.stats[i].MatchID == matchID && f.stats[i].PlayerID == playerID {
			f.stats[i].XPAwarded = xp
			return nil
		}
	}
	f.stats = append(f.stats, models.PlayerMatchStat{MatchID: matchID, PlayerID: playerID, XPAwarded: xp})
	return nil
}

func (f *fakeStore) WritePlayerTotalXP(_ context.Context, playerID string, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wroteTotals[playerID] = total
	p := f.players[playerID]
	p.XP = total
	f.players[playerID] = p
	return nil
}

func (f *fakeStore) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]models.League) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
