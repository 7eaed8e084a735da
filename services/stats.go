package services

import (
	"context"
	"fmt"
	"time"

	"league-stats-engine/apperrors"
	"league-stats-engine/cache"
	"league-stats-engine/config"
	"league-stats-engine/models"
	"league-stats-engine/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QueryFilters narrows a per-player query. SeasonID requires LeagueID
// because season ids are not comparable across leagues.
type QueryFilters struct {
	LeagueID *string
	SeasonID *string
	Year     *int
}

// LeaderboardRow is one decorated leaderboard line.
type LeaderboardRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PositionType string `json:"position_type"`
	Value        int    `json:"value"`
}

// LeaderboardPayload is the served leaderboard shape.
type LeaderboardPayload struct {
	Players []LeaderboardRow `json:"players"`
}

// TrophyRoomPayload is one league's full set of derived awards.
type TrophyRoomPayload struct {
	LeagueID   string  `json:"league_id"`
	LeagueName string  `json:"league_name"`
	Awards     []Award `json:"awards"`
}

// LeagueRef names a league a trophy was won in.
type LeagueRef struct {
	LeagueID   string `json:"league_id"`
	LeagueName string `json:"league_name"`
}

// PlayerTrophiesPayload groups a player's wins by award title.
type PlayerTrophiesPayload struct {
	Trophies map[string][]LeagueRef `json:"trophies"`
	Counts   map[string]int         `json:"counts"`
	Total    int                    `json:"total"`
}

// StatsService serves every derived aggregate through the coalescing
// cache. Each computation fetches its store snapshot once up front; the
// reductions themselves never call back into the store.
type StatsService struct {
	store store.Store
	cache *cache.Cache
	cfg   *config.Config
	log   *logrus.Logger
}

func NewStatsService(st store.Store, ca *cache.Cache, cfg *config.Config, log *logrus.Logger) *StatsService {
	if log == nil {
		log = logrus.New()
	}
	return &StatsService{store: st, cache: ca, cfg: cfg, log: log}
}

// GetLeaderboard ranks the top players for a metric within an optional
// league/season scope, optionally restricted to one position type.
func (s *StatsService) GetLeaderboard(ctx context.Context, metricRaw string, leagueID, seasonID *string, positionType string, refresh bool) (*LeaderboardPayload, string, error) {
	metric, err := ParseMetric(metricRaw)
	if err != nil {
		return nil, "", err
	}
	if err := validOptionalUUID("leagueId", leagueID); err != nil {
		return nil, "", err
	}
	if err := validOptionalUUID("seasonId", seasonID); err != nil {
		return nil, "", err
	}
	if seasonID != nil && leagueID == nil {
		return nil, "", apperrors.ErrValidation("seasonId requires leagueId")
	}

	key := fmt.Sprintf("leaderboard:metric:%s:league:%s:season:%s:pos:%s",
		metric, deref(leagueID), deref(seasonID), positionType)

	// A coalesced computation serves every waiter, so it must outlive
	// the caller that happened to start it.
	ctx = context.WithoutCancel(ctx)
	v, etag, err := s.cached(key, s.cfg.TTL.Leaderboard, refresh, func() (any, error) {
		matches, err := s.store.FetchMatches(ctx, store.MatchFilter{LeagueID: leagueID, SeasonID: seasonID})
		if err != nil {
			return nil, err
		}
		matchIDs := matchIDsOf(matches)
		stats, err := s.store.FetchPlayerStats(ctx, matchIDs, nil)
		if err != nil {
			return nil, err
		}
		votes, err := s.store.FetchVotes(ctx, matchIDs)
		if err != nil {
			return nil, err
		}

		// Full ranking first, then decorate and position-filter from one
		// player fetch.
		ranked := RankLeaderboard(metric, matches, stats, votes, nil, "", 0)
		ids := make([]string, 0, len(ranked))
		for _, e := range ranked {
			ids = append(ids, e.PlayerID)
		}
		players, err := s.store.FetchPlayers(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.Player, len(players))
		for _, p := range players {
			byID[p.ID] = p
		}

		payload := &LeaderboardPayload{Players: []LeaderboardRow{}}
		for _, e := range ranked {
			p := byID[e.PlayerID]
			if positionType != "" && p.PositionType != positionType {
				continue
			}
			payload.Players = append(payload.Players, LeaderboardRow{
				ID:           e.PlayerID,
				Name:         p.Name,
				PositionType: p.PositionType,
				Value:        e.Value,
			})
			if len(payload.Players) == s.cfg.LeaderboardTopN {
				break
			}
		}
		return payload, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.(*LeaderboardPayload), etag, nil
}

// GetTrophyRoom computes the full award set for one league.
func (s *StatsService) GetTrophyRoom(ctx context.Context, leagueID string, refresh bool) (*TrophyRoomPayload, string, error) {
	if err := validUUID("leagueId", leagueID); err != nil {
		return nil, "", err
	}
	key := "trophyroom:league:" + leagueID

	ctx = context.WithoutCancel(ctx)
	v, etag, err := s.cached(key, s.cfg.TTL.Trophy, refresh, func() (any, error) {
		league, err := s.store.FetchLeague(ctx, leagueID)
		if err != nil {
			return nil, err // NotFound propagates uncached
		}
		members, matches, stats, votes, err := s.leagueSnapshot(ctx, leagueID, nil, nil)
		if err != nil {
			return nil, err
		}
		return &TrophyRoomPayload{
			LeagueID:   league.ID,
			LeagueName: league.Name,
			Awards:     ComputeLeagueAwards(members, matches, stats, votes),
		}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.(*TrophyRoomPayload), etag, nil
}

// GetPlayerTrophies recomputes the awards of every league the player
// belongs to (or one league when filtered) and collects the titles the
// player holds.
func (s *StatsService) GetPlayerTrophies(ctx context.Context, playerID string, filters QueryFilters, refresh bool) (*PlayerTrophiesPayload, string, error) {
	if err := s.validateFilters(playerID, filters); err != nil {
		return nil, "", err
	}
	key := fmt.Sprintf("player:%s:trophies:league:%s:season:%s:year:%s",
		playerID, deref(filters.LeagueID), deref(filters.SeasonID), derefInt(filters.Year))

	ctx = context.WithoutCancel(ctx)
	v, etag, err := s.cached(key, s.cfg.TTL.Trophy, refresh, func() (any, error) {
		player, err := s.store.FetchPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		leagues, err := s.playerLeagues(ctx, player.ID, filters)
		if err != nil {
			return nil, err
		}

		payload := &PlayerTrophiesPayload{
			Trophies: make(map[string][]LeagueRef),
			Counts:   make(map[string]int),
		}
		for _, league := range leagues {
			members, matches, stats, votes, err := s.leagueSnapshot(ctx, league.ID, filters.SeasonID, filters.Year)
			if err != nil {
				return nil, err
			}
			for _, award := range ComputeLeagueAwards(members, matches, stats, votes) {
				if award.WinnerID == nil || *award.WinnerID != player.ID {
					continue
				}
				payload.Trophies[award.Title] = append(payload.Trophies[award.Title], LeagueRef{
					LeagueID:   league.ID,
					LeagueName: league.Name,
				})
				payload.Counts[award.Title]++
				payload.Total++
			}
		}
		return payload, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.(*PlayerTrophiesPayload), etag, nil
}

// GetPlayerAchievements derives the badge sheet from the player's
// chronological match history.
func (s *StatsService) GetPlayerAchievements(ctx context.Context, playerID string, filters QueryFilters, refresh bool) (*AchievementReport, string, error) {
	if err := s.validateFilters(playerID, filters); err != nil {
		return nil, "", err
	}
	key := fmt.Sprintf("player:%s:achievements:league:%s:season:%s:year:%s",
		playerID, deref(filters.LeagueID), deref(filters.SeasonID), derefInt(filters.Year))

	ctx = context.WithoutCancel(ctx)
	v, etag, err := s.cached(key, s.cfg.TTL.Achievements, refresh, func() (any, error) {
		summaries, err := s.playerSummaries(ctx, playerID, filters)
		if err != nil {
			return nil, err
		}
		report := ComputeBadges(summaries)
		return &report, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.(*AchievementReport), etag, nil
}

// GetHistoryRecords extracts the player's best-ever single-league
// records.
func (s *StatsService) GetHistoryRecords(ctx context.Context, playerID string, filters QueryFilters, refresh bool) (*HistoryRecords, string, error) {
	if err := s.validateFilters(playerID, filters); err != nil {
		return nil, "", err
	}
	key := fmt.Sprintf("player:%s:records:league:%s:season:%s:year:%s",
		playerID, deref(filters.LeagueID), deref(filters.SeasonID), derefInt(filters.Year))

	ctx = context.WithoutCancel(ctx)
	v, etag, err := s.cached(key, s.cfg.TTL.Achievements, refresh, func() (any, error) {
		summaries, err := s.playerSummaries(ctx, playerID, filters)
		if err != nil {
			return nil, err
		}
		rec := ComputeHistoryRecords(summaries)
		return &rec, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.(*HistoryRecords), etag, nil
}

// cached routes a read through the coalescing cache; refresh skips the
// cache read but still repopulates the entry for later callers.
func (s *StatsService) cached(key string, ttl time.Duration, refresh bool, compute func() (any, error)) (any, string, error) {
	if refresh {
		v, err := compute()
		if err != nil {
			return nil, "", err
		}
		etag := s.cache.Set(key, v, ttl)
		return v, etag, nil
	}
	return s.cache.GetOrCompute(key, ttl, compute)
}

// leagueSnapshot fetches everything one league's award computation
// needs, in one pass, before any reduction runs.
func (s *StatsService) leagueSnapshot(ctx context.Context, leagueID string, seasonID *string, year *int) ([]models.Player, []models.Match, []models.PlayerMatchStat, []models.Vote, error) {
	members, err := s.store.FetchLeagueMembers(ctx, leagueID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	matches, err := s.store.FetchMatches(ctx, store.MatchFilter{
		LeagueID: &leagueID,
		SeasonID: seasonID,
		Year:     year,
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	matchIDs := matchIDsOf(matches)
	stats, err := s.store.FetchPlayerStats(ctx, matchIDs, nil)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	votes, err := s.store.FetchVotes(ctx, matchIDs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return members, matches, stats, votes, nil
}

// playerSummaries builds the player's chronological per-match tuples
// across the leagues selected by the filters.
func (s *StatsService) playerSummaries(ctx context.Context, playerID string, filters QueryFilters) ([]MatchSummary, error) {
	player, err := s.store.FetchPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	leagues, err := s.playerLeagues(ctx, player.ID, filters)
	if err != nil {
		return nil, err
	}

	var summaries []MatchSummary
	for _, league := range leagues {
		matches, err := s.store.FetchMatches(ctx, store.MatchFilter{
			LeagueID: &league.ID,
			SeasonID: filters.SeasonID,
			Year:     filters.Year,
			StatusIn: []string{models.MatchResultPublished},
		})
		if err != nil {
			return nil, err
		}

		var played []models.Match
		for _, m := range matches {
			if _, found := m.OnHomeSide(player.ID); found {
				played = append(played, m)
			}
		}
		matchIDs := matchIDsOf(played)
		stats, err := s.store.FetchPlayerStats(ctx, matchIDs, &player.ID)
		if err != nil {
			return nil, err
		}
		votes, err := s.store.FetchVotes(ctx, matchIDs)
		if err != nil {
			return nil, err
		}

		statByMatch := make(map[string]models.PlayerMatchStat, len(stats))
		for _, st := range stats {
			statByMatch[st.MatchID] = st
		}
		votesByMatch := make(map[string]int)
		for _, v := range votes {
			if v.VotedForID == player.ID {
				votesByMatch[v.MatchID]++
			}
		}

		for _, m := range played {
			onHome, _ := m.OnHomeSide(player.ID)
			conceded := m.HomeGoals
			if onHome {
				conceded = m.AwayGoals
			}
			st := statByMatch[m.ID]
			summaries = append(summaries, MatchSummary{
				LeagueID:  m.LeagueID,
				Date:      m.Date,
				KickOff:   m.KickOff,
				CreatedAt: m.CreatedAt,
				Goals:     st.Goals,
				Assists:   st.Assists,
				Result:    teamResult(&m, onHome),
				MOTMVotes: votesByMatch[m.ID],
				Conceded:  conceded,
				XP:        st.XPAwarded,
				WinMargin: m.WinMargin(),
				Scoreline: m.Scoreline(),
			})
		}
	}
	SortSummaries(summaries)
	return summaries, nil
}

func (s *StatsService) playerLeagues(ctx context.Context, playerID string, filters QueryFilters) ([]models.League, error) {
	if filters.LeagueID != nil {
		league, err := s.store.FetchLeague(ctx, *filters.LeagueID)
		if err != nil {
			return nil, err
		}
		return []models.League{*league}, nil
	}
	return s.store.FetchPlayerLeagues(ctx, playerID)
}

func (s *StatsService) validateFilters(playerID string, filters QueryFilters) error {
	if err := validUUID("playerId", playerID); err != nil {
		return err
	}
	if err := validOptionalUUID("leagueId", filters.LeagueID); err != nil {
		return err
	}
	if err := validOptionalUUID("seasonId", filters.SeasonID); err != nil {
		return err
	}
	if filters.SeasonID != nil && filters.LeagueID == nil {
		return apperrors.ErrValidation("seasonId requires leagueId")
	}
	return nil
}

func validUUID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrValidation("malformed " + field + ": " + id)
	}
	return nil
}

func validOptionalUUID(field string, id *string) error {
	if id == nil {
		return nil
	}
	return validUUID(field, *id)
}

func matchIDsOf(matches []models.Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}

func deref(s *string) string {
	if s == nil {
		return "all"
	}
	return *s
}

func derefInt(n *int) string {
	if n == nil {
		return "all"
	}
	return fmt.Sprintf("%d", *n)
}
