package services

import (
	"testing"

	"league-stats-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	for _, raw := range []string{"goals", "assists", "cleanSheet", "defence", "motm", "impact"} {
		_, err := ParseMetric(raw)
		assert.NoError(t, err, raw)
	}
	_, err := ParseMetric("points")
	assert.Error(t, err)
}

func TestRankLeaderboard_GoalsDescendingNoZeros(t *testing.T) {
	matches := []models.Match{
		*publishedMatch("m1", 3, 1),
		*publishedMatch("m2", 0, 2),
	}
	stats := []models.PlayerMatchStat{
		{MatchID: "m1", PlayerID: p1, Goals: 2},
		{MatchID: "m1", PlayerID: p3, Goals: 1},
		{MatchID: "m2", PlayerID: p3, Goals: 2},
		{MatchID: "m2", PlayerID: p2, Goals: 0},
	}

	entries := RankLeaderboard(MetricGoals, matches, stats, nil, nil, "", 10)

	require.Len(t, entries, 2)
	assert.Equal(t, p3, entries[0].PlayerID)
	assert.Equal(t, 3, entries[0].Value)
	assert.Equal(t, p1, entries[1].PlayerID)
	assert.Equal(t, 2, entries[1].Value)

	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Value, entries[i].Value, "strictly non-increasing")
	}
	for _, e := range entries {
		assert.Positive(t, e.Value, "zero totals never appear")
	}
}

func TestRankLeaderboard_IgnoresUnpublishedForStatMetrics(t *testing.T) {
	pending := *publishedMatch("m1", 1, 0)
	pending.Status = models.MatchResultUploaded
	stats := []models.PlayerMatchStat{{MatchID: "m1", PlayerID: p1, Goals: 5}}

	entries := RankLeaderboard(MetricGoals, []models.Match{pending}, stats, nil, nil, "", 10)
	assert.Empty(t, entries, "only published results aggregate")
}

func TestRankLeaderboard_TieBreakByLowestID(t *testing.T) {
	matches := []models.Match{*publishedMatch("m1", 2, 2)}
	stats := []models.PlayerMatchStat{
		{MatchID: "m1", PlayerID: p2, Goals: 2},
		{MatchID: "m1", PlayerID: p1, Goals: 2},
	}

	entries := RankLeaderboard(MetricGoals, matches, stats, nil, nil, "", 10)
	require.Len(t, entries, 2)
	assert.Equal(t, p1, entries[0].PlayerID, "equal values rank by lowest player id")
}

func TestRankLeaderboard_MOTMCountsVotes(t *testing.T) {
	matches := []models.Match{*publishedMatch("m1", 1, 0), *publishedMatch("m2", 0, 1)}
	votes := []models.Vote{
		{MatchID: "m1", VoterID: p2, VotedForID: p1},
		{MatchID: "m1", VoterID: p3, VotedForID: p1},
		{MatchID: "m2", VoterID: p1, VotedForID: p3},
		{MatchID: "zzz", VoterID: p1, VotedForID: p4}, // out of scope
	}

	entries := RankLeaderboard(MetricMOTM, matches, nil, votes, nil, "", 10)
	require.Len(t, entries, 2)
	assert.Equal(t, LeaderboardEntry{PlayerID: p1, Value: 2}, entries[0])
	assert.Equal(t, LeaderboardEntry{PlayerID: p3, Value: 1}, entries[1])
}

func TestRankLeaderboard_ImpactCountsCaptainPicks(t *testing.T) {
	m1 := publishedMatch("m1", 1, 0)
	m1.HomeDefensiveImpactID = strPtr(p2)
	m2 := publishedMatch("m2", 0, 0)
	m2.AwayDefensiveImpactID = strPtr(p2)
	m3 := publishedMatch("m3", 2, 1)
	m3.HomeDefensiveImpactID = strPtr(p1)

	entries := RankLeaderboard(MetricImpact, []models.Match{*m1, *m2, *m3}, nil, nil, nil, "", 10)
	require.Len(t, entries, 2)
	assert.Equal(t, LeaderboardEntry{PlayerID: p2, Value: 2}, entries[0])
	assert.Equal(t, LeaderboardEntry{PlayerID: p1, Value: 1}, entries[1])
}

func TestRankLeaderboard_PositionFilter(t *testing.T) {
	matches := []models.Match{*publishedMatch("m1", 2, 0)}
	stats := []models.PlayerMatchStat{
		{MatchID: "m1", PlayerID: p1, CleanSheets: 1},
		{MatchID: "m1", PlayerID: p2, CleanSheets: 1},
	}
	positions := map[string]string{
		p1: models.PositionGoalkeeper,
		p2: models.PositionForward,
	}

	entries := RankLeaderboard(MetricCleanSheet, matches, stats, nil, positions, models.PositionGoalkeeper, 10)
	require.Len(t, entries, 1)
	assert.Equal(t, p1, entries[0].PlayerID)
}

func TestRankLeaderboard_TopNTruncation(t *testing.T) {
	matches := []models.Match{*publishedMatch("m1", 9, 0)}
	stats := []models.PlayerMatchStat{
		{MatchID: "m1", PlayerID: p1, Goals: 5},
		{MatchID: "m1", PlayerID: p2, Goals: 4},
		{MatchID: "m1", PlayerID: p3, Goals: 3},
		{MatchID: "m1", PlayerID: p4, Goals: 2},
		{MatchID: "m1", PlayerID: p5, Goals: 1},
	}

	entries := RankLeaderboard(MetricGoals, matches, stats, nil, nil, "", 3)
	require.Len(t, entries, 3)
	assert.Equal(t, 5, entries[0].Value)
	assert.Equal(t, 3, entries[2].Value)
}
