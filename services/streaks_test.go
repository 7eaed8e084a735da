package services

import (
	"testing"
	"time"

	"league-stats-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summarySeq builds ordered summaries in one league from compact specs.
func summarySeq(leagueID string, results []string, goals []int) []MatchSummary {
	n := len(results)
	if n == 0 {
		n = len(goals)
	}
	out := make([]MatchSummary, n)
	base := time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s := MatchSummary{
			LeagueID:  leagueID,
			Date:      base.AddDate(0, 0, i),
			KickOff:   base.AddDate(0, 0, i),
			CreatedAt: base.AddDate(0, 0, i),
			Result:    ResultLoss,
			Conceded:  1,
		}
		if results != nil {
			s.Result = results[i]
		}
		if goals != nil {
			s.Goals = goals[i]
		}
		out[i] = s
	}
	return out
}

func TestLongestStreak_WinSequence(t *testing.T) {
	summaries := summarySeq(leagueA, []string{"W", "W", "L", "W", "W", "W", "D"}, nil)
	streak := LongestStreak(summaries, func(s MatchSummary) bool { return s.Result == ResultWin })
	assert.Equal(t, 3, streak)
}

func TestLongestStreak_ScoringSequences(t *testing.T) {
	cases := []struct {
		goals []int
		want  int
	}{
		{[]int{1, 0, 2, 0, 0}, 1},
		{[]int{1, 1, 0, 2}, 2},
		{[]int{}, 0},
		{[]int{3, 1, 2}, 3},
	}
	for _, tc := range cases {
		summaries := summarySeq(leagueA, nil, tc.goals)
		streak := LongestStreak(summaries, func(s MatchSummary) bool { return s.Goals > 0 })
		assert.Equal(t, tc.want, streak, "goals %v", tc.goals)
	}
}

func TestSortSummaries_OrderingTieBreaks(t *testing.T) {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	summaries := []MatchSummary{
		{LeagueID: leagueA, Date: day, KickOff: day.Add(20 * time.Hour), Goals: 3},
		{LeagueID: leagueA, Date: day, KickOff: day.Add(10 * time.Hour), CreatedAt: day.Add(2 * time.Hour), Goals: 2},
		{LeagueID: leagueA, Date: day, KickOff: day.Add(10 * time.Hour), CreatedAt: day.Add(1 * time.Hour), Goals: 1},
		{LeagueID: leagueA, Date: day.AddDate(0, 0, -1), Goals: 0},
	}
	SortSummaries(summaries)

	got := make([]int, len(summaries))
	for i, s := range summaries {
		got[i] = s.Goals
	}
	assert.Equal(t, []int{0, 1, 2, 3}, got, "date, then kickoff, then creation order")
}

func TestComputeBadges_PerLeagueVsCrossLeague(t *testing.T) {
	// Two leagues with 2-win runs each; the win streak is per-league so
	// the best is 2, not 4. MOTM runs cross-league and chains to 4.
	a := summarySeq(leagueA, []string{"W", "W"}, nil)
	b := summarySeq(leagueB, []string{"W", "W"}, nil)
	for i := range b {
		b[i].Date = b[i].Date.AddDate(0, 1, 0) // after league A's run
		b[i].KickOff = b[i].Date
		b[i].CreatedAt = b[i].Date
	}
	all := append(append([]MatchSummary{}, a...), b...)
	for i := range all {
		all[i].MOTMVotes = 1
	}

	report := ComputeBadges(all)

	var winBadge, motmBadge BadgeStatus
	for _, bs := range report.Badges {
		switch bs.ID {
		case "on-a-roll":
			winBadge = bs
		case "crowd-favourite":
			motmBadge = bs
		}
	}
	assert.Equal(t, 2, winBadge.BestStreak, "win streaks never span leagues")
	assert.False(t, winBadge.Unlocked)
	assert.Equal(t, 4, motmBadge.BestStreak, "MOTM streaks run over the merged timeline")
	assert.True(t, motmBadge.Unlocked)
	assert.Equal(t, 1, motmBadge.Count)
}

func TestComputeBadges_UnlockCountAndProgress(t *testing.T) {
	// Seven straight wins without conceding.
	summaries := summarySeq(leagueA, []string{"W", "W", "W", "W", "W", "W", "W"}, nil)
	for i := range summaries {
		summaries[i].Conceded = 0
	}

	report := ComputeBadges(summaries)
	byID := make(map[string]BadgeStatus)
	for _, bs := range report.Badges {
		byID[bs.ID] = bs
	}

	onARoll := byID["on-a-roll"] // target 3
	require.True(t, onARoll.Unlocked)
	assert.Equal(t, 2, onARoll.Count, "7-match streak fills the 3-target twice")
	assert.Equal(t, "Best streak: 7", onARoll.Progress)

	unstoppable := byID["unstoppable"] // target 7
	assert.True(t, unstoppable.Unlocked)
	assert.Equal(t, 1, unstoppable.Count)

	ironWall := byID["iron-wall"] // clean-sheet wins, target 3
	assert.True(t, ironWall.Unlocked)

	goalMachine := byID["goal-machine"] // no goals scored
	assert.False(t, goalMachine.Unlocked)
	assert.Equal(t, 0, goalMachine.Count)
	assert.Equal(t, "3 more to unlock", goalMachine.Progress)
}

func TestComputeBadges_TotalXPIncludesUnlocked(t *testing.T) {
	summaries := summarySeq(leagueA, []string{"W", "W", "W"}, nil)
	for i := range summaries {
		summaries[i].XP = 30
		summaries[i].Conceded = 2
	}

	report := ComputeBadges(summaries)

	expected := 3 * 30
	for _, b := range models.BadgeCatalog {
		if b.StreakKind == models.StreakWin && b.Target <= 3 {
			expected += b.XP
		}
	}
	assert.Equal(t, expected, report.TotalXP, "match XP plus unlocked badge XP only")
}

func TestComputeHistoryRecords_MaxAcrossLeaguesNotSum(t *testing.T) {
	a := summarySeq(leagueA, []string{"W", "W", "L"}, []int{2, 1, 0})
	a[0].WinMargin = 3
	a[0].Scoreline = "4-1"
	a[0].XP = 40
	a[1].XP = 35
	a[2].XP = 10

	b := summarySeq(leagueB, []string{"W", "L"}, []int{4, 0})
	b[0].WinMargin = 2
	b[0].Scoreline = "2-0"
	b[0].XP = 50
	b[0].MOTMVotes = 3
	b[1].XP = 10

	all := append(append([]MatchSummary{}, a...), b...)
	rec := ComputeHistoryRecords(all)

	assert.Equal(t, 2, rec.LongestWinStreak, "league A's 2-win run")
	assert.Equal(t, 4, rec.MostGoalsInLeague, "league B total (4), not 3+4")
	assert.Equal(t, 3, rec.MostMotmInLeague)
	assert.Equal(t, 85, rec.HighestXPInLeague, "league A total 85 beats league B's 60")
	assert.Equal(t, 3, rec.LongestWinMargin)
	assert.Equal(t, "4-1", rec.WinMarginScoreline)
}

func TestComputeHistoryRecords_Empty(t *testing.T) {
	rec := ComputeHistoryRecords(nil)
	assert.Zero(t, rec.LongestWinStreak)
	assert.Empty(t, rec.WinMarginScoreline)
}
