package store

import (
	"context"

	"league-stats-engine/models"
)

// MatchFilter narrows a match fetch. Nil fields are ignored. SeasonID is
// only meaningful together with LeagueID since season ids are not
// comparable across leagues.
type MatchFilter struct {
	LeagueID *string
	SeasonID *string
	Year     *int
	StatusIn []string
}

// Store is the persistence boundary of the engine: read-only snapshots
// for aggregation, write-only for derived XP. Aggregation code fetches a
// snapshot once and never calls back into the store mid-reduction.
type Store interface {
	FetchMatches(ctx context.Context, filter MatchFilter) ([]models.Match, error)
	FetchMatch(ctx context.Context, matchID string) (*models.Match, error)
	FetchPlayerStats(ctx context.Context, matchIDs []string, playerID *string) ([]models.PlayerMatchStat, error)
	FetchVotes(ctx context.Context, matchIDs []string) ([]models.Vote, error)
	FetchLeagueMembers(ctx context.Context, leagueID string) ([]models.Player, error)

	FetchLeague(ctx context.Context, leagueID string) (*models.League, error)
	FetchPlayer(ctx context.Context, playerID string) (*models.Player, error)
	FetchPlayers(ctx context.Context, playerIDs []string) ([]models.Player, error)
	FetchPlayerLeagues(ctx context.Context, playerID string) ([]models.League, error)

	WriteXP(ctx context.Context, matchID, playerID string, xp int) error
	WritePlayerTotalXP(ctx context.Context, playerID string, total int) error
}
