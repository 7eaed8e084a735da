package services

import (
	"cmp"
	"slices"

	"league-stats-engine/apperrors"
	"league-stats-engine/models"
)

// Metric selects which per-player total a leaderboard ranks by.
type Metric string

const (
	MetricGoals      Metric = "goals"
	MetricAssists    Metric = "assists"
	MetricCleanSheet Metric = "cleanSheet"
	MetricDefence    Metric = "defence"
	MetricMOTM       Metric = "motm"
	MetricImpact     Metric = "impact"
)

// ParseMetric validates a metric name from the outside world.
func ParseMetric(raw string) (Metric, error) {
	switch m := Metric(raw); m {
	case MetricGoals, MetricAssists, MetricCleanSheet, MetricDefence, MetricMOTM, MetricImpact:
		return m, nil
	default:
		return "", apperrors.ErrValidation("unknown leaderboard metric: " + raw)
	}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Value    int    `json:"value"`
}

// RankLeaderboard aggregates a per-player total for the metric over an
// already-scoped match snapshot and returns the top rows, strictly
// descending. Players with a zero total never appear; ties are broken by
// lowest player id so identical snapshots always rank identically.
//
// positionByPlayer feeds the optional positionType post-filter; pass nil
// maps / empty positionType to skip it.
func RankLeaderboard(metric Metric, matches []models.Match, stats []models.PlayerMatchStat, votes []models.Vote, positionByPlayer map[string]string, positionType string, topN int) []LeaderboardEntry {
	published := make(map[string]*models.Match, len(matches))
	inScope := make(map[string]bool, len(matches))
	for i := range matches {
		m := &matches[i]
		inScope[m.ID] = true
		if m.Published() {
			published[m.ID] = m
		}
	}

	totals := make(map[string]int)
	switch metric {
	case MetricMOTM:
		for _, v := range votes {
			if inScope[v.MatchID] {
				totals[v.VotedForID]++
			}
		}
	case MetricImpact:
		for _, m := range published {
			if m.HomeDefensiveImpactID != nil {
				totals[*m.HomeDefensiveImpactID]++
			}
			if m.AwayDefensiveImpactID != nil {
				totals[*m.AwayDefensiveImpactID]++
			}
		}
	default:
		for _, st := range stats {
			if published[st.MatchID] == nil {
				continue
			}
			totals[st.PlayerID] += statColumn(metric, st)
		}
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for playerID, value := range totals {
		if value <= 0 {
			continue
		}
		if positionType != "" && positionByPlayer[playerID] != positionType {
			continue
		}
		entries = append(entries, LeaderboardEntry{PlayerID: playerID, Value: value})
	}

	slices.SortFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

func statColumn(metric Metric, st models.PlayerMatchStat) int {
	switch metric {
	case MetricGoals:
		return st.Goals
	case MetricAssists:
		return st.Assists
	case MetricCleanSheet:
		return st.CleanSheets
	case MetricDefence:
		return st.Defences
	default:
		return 0
	}
}
