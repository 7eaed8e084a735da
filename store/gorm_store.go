package store

import (
	"context"
	"errors"
	"fmt"

	"league-stats-engine/apperrors"
	"league-stats-engine/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a GORM-managed Postgres database.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) FetchMatches(ctx context.Context, filter MatchFilter) ([]models.Match, error) {
	q := s.DB.WithContext(ctx).Model(&models.Match{}).Where("archived = ?", false)
	if filter.LeagueID != nil {
		q = q.Where("league_id = ?", *filter.LeagueID)
		if filter.SeasonID != nil {
			q = q.Where("season_id = ?", *filter.SeasonID)
		}
	}
	if filter.Year != nil {
		q = q.Where("EXTRACT(YEAR FROM date) = ?", *filter.Year)
	}
	if len(filter.StatusIn) > 0 {
		q = q.Where("status IN ?", filter.StatusIn)
	}

	var matches []models.Match
	if err := q.Order("date ASC, kick_off ASC, created_at ASC").Find(&matches).Error; err != nil {
		return nil, apperrors.ErrStore("fetch matches", err)
	}
	return matches, nil
}

func (s *GormStore) FetchMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	err := s.DB.WithContext(ctx).Where("id = ?", matchID).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound("match", matchID)
	}
	if err != nil {
		return nil, apperrors.ErrStore("fetch match", err)
	}
	return &match, nil
}

func (s *GormStore) FetchPlayerStats(ctx context.Context, matchIDs []string, playerID *string) ([]models.PlayerMatchStat, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	q := s.DB.WithContext(ctx).Where("match_id IN ?", matchIDs)
	if playerID != nil {
		q = q.Where("player_id = ?", *playerID)
	}
	var stats []models.PlayerMatchStat
	if err := q.Find(&stats).Error; err != nil {
		return nil, apperrors.ErrStore("fetch player stats", err)
	}
	return stats, nil
}

func (s *GormStore) FetchVotes(ctx context.Context, matchIDs []string) ([]models.Vote, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	var votes []models.Vote
	if err := s.DB.WithContext(ctx).Where("match_id IN ?", matchIDs).Find(&votes).Error; err != nil {
		return nil, apperrors.ErrStore("fetch votes", err)
	}
	return votes, nil
}

func (s *GormStore) FetchLeagueMembers(ctx context.Context, leagueID string) ([]models.Player, error) {
	league, err := s.FetchLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(league.MemberIDs) == 0 {
		return nil, nil
	}
	var players []models.Player
	if err := s.DB.WithContext(ctx).Where("id IN ?", []string(league.MemberIDs)).Find(&players).Error; err != nil {
		return nil, apperrors.ErrStore("fetch league members", err)
	}
	return players, nil
}

func (s *GormStore) FetchLeague(ctx context.Context, leagueID string) (*models.League, error) {
	var league models.League
	err := s.DB.WithContext(ctx).Where("id = ?", leagueID).First(&league).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound("league", leagueID)
	}
	if err != nil {
		return nil, apperrors.ErrStore("fetch league", err)
	}
	return &league, nil
}

func (s *GormStore) FetchPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	var player models.Player
	err := s.DB.WithContext(ctx).Where("id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound("player", playerID)
	}
	if err != nil {
		return nil, apperrors.ErrStore("fetch player", err)
	}
	return &player, nil
}

func (s *GormStore) FetchPlayers(ctx context.Context, playerIDs []string) ([]models.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var players []models.Player
	if err := s.DB.WithContext(ctx).Where("id IN ?", playerIDs).Find(&players).Error; err != nil {
		return nil, apperrors.ErrStore("fetch players", err)
	}
	return players, nil
}

func (s *GormStore) FetchPlayerLeagues(ctx context.Context, playerID string) ([]models.League, error) {
	// Membership lives in the league's jsonb member list.
	var leagues []models.League
	err := s.DB.WithContext(ctx).
		Where("member_ids @> ?::jsonb", fmt.Sprintf("[%q]", playerID)).
		Find(&leagues).Error
	if err != nil {
		return nil, apperrors.ErrStore("fetch player leagues", err)
	}
	return leagues, nil
}

// WriteXP overwrites the per-match XP for one participant. Rerunning the
// calculator on the same inputs writes the same value, never accumulates.
func (s *GormStore) WriteXP(ctx context.Context, matchID, playerID string, xp int) error {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}, {Name: "player_id"}},
		DoUpdates: clause.Assignments(map[string]any{"xp_awarded": xp}),
	}).Create(&models.PlayerMatchStat{
		MatchID:   matchID,
		PlayerID:  playerID,
		XPAwarded: xp,
	}).Error
	if err != nil {
		return apperrors.ErrStore("write xp", err)
	}
	return nil
}

func (s *GormStore) WritePlayerTotalXP(ctx context.Context, playerID string, total int) error {
	err := s.DB.WithContext(ctx).Model(&models.Player{}).
		Where("id = ?", playerID).
		Update("xp", total).Error
	if err != nil {
		return apperrors.ErrStore("write player total xp", err)
	}
	return nil
}
