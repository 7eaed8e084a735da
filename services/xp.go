package services

import (
	"context"
	"fmt"
	"sort"

	"league-stats-engine/cache"
	"league-stats-engine/config"
	"league-stats-engine/models"
	"league-stats-engine/store"

	"github.com/sirupsen/logrus"
)

// Match results from one team's perspective.
const (
	ResultWin  = "W"
	ResultDraw = "D"
	ResultLoss = "L"
)

// XPAward is one participant's XP for a match, with a human-readable
// breakdown of where the points came from.
type XPAward struct {
	XP        int      `json:"xp"`
	Breakdown []string `json:"breakdown"`
}

// XPService turns a finalized match into per-participant XP deltas and
// persists them. Recomputation overwrites, never accumulates, so it is
// safe to rerun on the same match any number of times.
type XPService struct {
	Store  store.Store
	Cache  *cache.Cache
	Points config.PointTable
	Log    *logrus.Logger
}

func NewXPService(st store.Store, ca *cache.Cache, points config.PointTable, log *logrus.Logger) *XPService {
	if log == nil {
		log = logrus.New()
	}
	return &XPService{Store: st, Cache: ca, Points: points, Log: log}
}

// ComputeMatchXP is the pure scoring reduction: one match's result, stat
// rows, and votes in, an XP award per participant out. A participant
// with no stat row still earns the result-based points with all counts
// treated as zero.
func (s *XPService) ComputeMatchXP(match *models.Match, stats []models.PlayerMatchStat, votes []models.Vote) map[string]XPAward {
	statsByPlayer := make(map[string]models.PlayerMatchStat, len(stats))
	for _, st := range stats {
		if st.MatchID == match.ID {
			statsByPlayer[st.PlayerID] = st
		}
	}

	votesFor := make(map[string]int)
	for _, v := range votes {
		if v.MatchID == match.ID {
			votesFor[v.VotedForID]++
		}
	}
	motmID := manOfTheMatch(votesFor)

	awards := make(map[string]XPAward)
	for _, playerID := range participants(match) {
		onHome := match.HomeRoster.Contains(playerID)
		onAway := match.AwayRoster.Contains(playerID)
		st := statsByPlayer[playerID] // zero value when missing

		if onHome && onAway {
			// Roster inconsistency: no side to score the result from.
			// The player keeps only result-independent terms.
			s.Log.WithFields(logrus.Fields{
				"match":  match.ID,
				"player": playerID,
			}).Warn("player on both rosters, skipping result-dependent XP")
			xp := st.CleanSheets * s.Points.CleanSheetBonus
			awards[playerID] = XPAward{
				XP:        clampXP(xp),
				Breakdown: []string{breakdownLine("clean sheets", xp)},
			}
			continue
		}

		result := teamResult(match, onHome)
		var xp int
		var breakdown []string
		add := func(label string, points int) {
			if points == 0 {
				return
			}
			xp += points
			breakdown = append(breakdown, breakdownLine(label, points))
		}

		add("result", s.Points.Base.For(result))
		add("goals", st.Goals*s.Points.PerGoal.For(result))
		add("assists", st.Assists*s.Points.PerAssist.For(result))
		add("clean sheets", st.CleanSheets*s.Points.CleanSheetBonus)
		if playerID == motmID {
			add("man of the match", s.Points.MOTMWinner.For(result))
		}
		add("votes received", votesFor[playerID]*s.Points.PerVoteReceived.For(result))
		if picked(match.HomeDefensiveImpactID, match.AwayDefensiveImpactID, onHome, playerID) {
			add("defensive impact pick", s.Points.CaptainDefensive.For(result))
		}
		if picked(match.HomeMentalityID, match.AwayMentalityID, onHome, playerID) {
			add("mentality pick", s.Points.CaptainMentality.For(result))
		}

		awards[playerID] = XPAward{XP: clampXP(xp), Breakdown: breakdown}
	}
	return awards
}

// FinalizeMatchXP recomputes and persists XP for every participant of a
// match, then drops the cached aggregates the new values feed into.
func (s *XPService) FinalizeMatchXP(ctx context.Context, matchID string) (map[string]XPAward, error) {
	if err := validUUID("matchId", matchID); err != nil {
		return nil, err
	}
	match, err := s.Store.FetchMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Store.FetchPlayerStats(ctx, []string{match.ID}, nil)
	if err != nil {
		return nil, err
	}
	votes, err := s.Store.FetchVotes(ctx, []string{match.ID})
	if err != nil {
		return nil, err
	}

	awards := s.ComputeMatchXP(match, stats, votes)
	for playerID, award := range awards {
		if err := s.Store.WriteXP(ctx, match.ID, playerID, award.XP); err != nil {
			return nil, err
		}
	}

	if s.Cache != nil {
		s.Cache.ClearPattern("league:" + match.LeagueID)
		for playerID := range awards {
			s.Cache.ClearPattern("player:" + playerID)
		}
	}
	s.Log.WithFields(logrus.Fields{
		"match":        match.ID,
		"participants": len(awards),
	}).Info("match XP finalized")
	return awards, nil
}

// RecomputePlayerTotal rebuilds a player's running total from source
// rows: per-match XP plus the XP of every unlocked badge. Persisting it
// is an overwrite, so any drift between the total and its sources heals
// on the next run.
func (s *XPService) RecomputePlayerTotal(ctx context.Context, playerID string) (int, error) {
	if err := validUUID("playerId", playerID); err != nil {
		return 0, err
	}
	player, err := s.Store.FetchPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	matches, err := s.Store.FetchMatches(ctx, store.MatchFilter{
		StatusIn: []string{models.MatchResultPublished},
	})
	if err != nil {
		return 0, err
	}
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, found := m.OnHomeSide(playerID); found {
			matchIDs = append(matchIDs, m.ID)
		}
	}
	stats, err := s.Store.FetchPlayerStats(ctx, matchIDs, &playerID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, st := range stats {
		total += st.XPAwarded
	}
	for _, badgeID := range player.Achievements {
		total += models.BadgeXP(badgeID)
	}

	if err := s.Store.WritePlayerTotalXP(ctx, playerID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// manOfTheMatch returns the most-voted player, ties broken by lowest
// player id so reruns always agree. Empty string when no votes were cast.
func manOfTheMatch(votesFor map[string]int) string {
	ids := make([]string, 0, len(votesFor))
	for id := range votesFor {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best, bestVotes := "", 0
	for _, id := range ids {
		if votesFor[id] > bestVotes {
			best, bestVotes = id, votesFor[id]
		}
	}
	return best
}

func participants(match *models.Match) []string {
	seen := make(map[string]bool, len(match.HomeRoster)+len(match.AwayRoster))
	var ids []string
	for _, roster := range []models.RosterIDs{match.HomeRoster, match.AwayRoster} {
		for _, id := range roster {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func teamResult(match *models.Match, home bool) string {
	us, them := match.HomeGoals, match.AwayGoals
	if !home {
		us, them = them, us
	}
	switch {
	case us > them:
		return ResultWin
	case us == them:
		return ResultDraw
	default:
		return ResultLoss
	}
}

func picked(homePick, awayPick *string, onHome bool, playerID string) bool {
	pick := awayPick
	if onHome {
		pick = homePick
	}
	return pick != nil && *pick == playerID
}

func clampXP(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp
}

func breakdownLine(label string, points int) string {
	return fmt.Sprintf("%+d %s", points, label)
}
