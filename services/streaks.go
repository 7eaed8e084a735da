package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"league-stats-engine/models"
)

// MatchSummary is one match seen from a single player's perspective,
// with everything the streak and record reductions need. Summaries must
// be sorted ascending by date, then kickoff, then creation time; every
// streak result depends on that ordering.
type MatchSummary struct {
	LeagueID  string
	Date      time.Time
	KickOff   time.Time
	CreatedAt time.Time

	Goals     int
	Assists   int
	Result    string // W, D or L
	MOTMVotes int
	Conceded  int

	XP        int
	WinMargin int
	Scoreline string
}

// SortSummaries orders summaries chronologically with the documented
// tie-breaks.
func SortSummaries(summaries []MatchSummary) {
	slices.SortFunc(summaries, func(a, b MatchSummary) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.KickOff.Compare(b.KickOff); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// LongestStreak scans once, tracking the current and best run of
// consecutive summaries satisfying pred.
func LongestStreak(summaries []MatchSummary, pred func(MatchSummary) bool) int {
	current, best := 0, 0
	for _, s := range summaries {
		if pred(s) {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return best
}

// BadgeStatus is one badge's unlock state for a player.
type BadgeStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Unlocked    bool   `json:"unlocked"`
	Count       int    `json:"count"`
	BestStreak  int    `json:"best_streak"`
	Progress    string `json:"progress"`
}

// AchievementReport is the full badge sheet plus the player's total XP.
type AchievementReport struct {
	TotalXP int           `json:"total_xp"`
	Badges  []BadgeStatus `json:"badges"`
}

// HistoryRecords are a player's best-ever single-league maxima. Each
// field is the maximum of a per-league total, never a sum across
// leagues.
type HistoryRecords struct {
	LongestWinStreak   int    `json:"longest_win_streak"`
	MostGoalsInLeague  int    `json:"most_goals_in_league"`
	MostMotmInLeague   int    `json:"most_motm_in_league"`
	LongestWinMargin   int    `json:"longest_win_margin"`
	WinMarginScoreline string `json:"win_margin_scoreline"`
	HighestXPInLeague  int    `json:"highest_xp_in_league"`
}

// bestStreaks computes the best run per streak kind. Scoring, assist and
// win streaks live inside a single league (the best league counts);
// MOTM and clean-sheet-win streaks run over the merged timeline.
func bestStreaks(summaries []MatchSummary) map[string]int {
	scored := func(s MatchSummary) bool { return s.Goals > 0 }
	assisted := func(s MatchSummary) bool { return s.Assists > 0 }
	won := func(s MatchSummary) bool { return s.Result == ResultWin }
	motm := func(s MatchSummary) bool { return s.MOTMVotes > 0 }
	shutoutWin := func(s MatchSummary) bool { return s.Result == ResultWin && s.Conceded == 0 }

	best := map[string]int{
		models.StreakMOTM:          LongestStreak(summaries, motm),
		models.StreakCleanSheetWin: LongestStreak(summaries, shutoutWin),
	}
	for _, league := range byLeague(summaries) {
		for kind, pred := range map[string]func(MatchSummary) bool{
			models.StreakScoring: scored,
			models.StreakAssist:  assisted,
			models.StreakWin:     won,
		} {
			if v := LongestStreak(league, pred); v > best[kind] {
				best[kind] = v
			}
		}
	}
	return best
}

// ComputeBadges derives the unlock state of every catalog badge from a
// player's chronological match summaries. TotalXP is per-match XP plus
// the XP of each unlocked badge.
func ComputeBadges(summaries []MatchSummary) AchievementReport {
	SortSummaries(summaries)
	best := bestStreaks(summaries)

	report := AchievementReport{Badges: make([]BadgeStatus, 0, len(models.BadgeCatalog))}
	for _, s := range summaries {
		report.TotalXP += s.XP
	}

	for _, b := range models.BadgeCatalog {
		streak := best[b.StreakKind]
		status := BadgeStatus{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Rarity:      b.Rarity,
			Unlocked:    streak >= b.Target,
			Count:       streak / b.Target,
			BestStreak:  streak,
		}
		if status.Unlocked {
			status.Progress = fmt.Sprintf("Best streak: %d", streak)
			report.TotalXP += b.XP
		} else {
			status.Progress = fmt.Sprintf("%d more to unlock", b.Target-streak)
		}
		report.Badges = append(report.Badges, status)
	}
	return report
}

// ComputeHistoryRecords extracts best-ever single-league records from a
// player's summaries.
func ComputeHistoryRecords(summaries []MatchSummary) HistoryRecords {
	SortSummaries(summaries)

	var rec HistoryRecords
	for _, league := range byLeague(summaries) {
		goals, motmVotes, xp := 0, 0, 0
		margin, scoreline := 0, ""
		for _, s := range league {
			goals += s.Goals
			motmVotes += s.MOTMVotes
			xp += s.XP
			if s.Result == ResultWin && s.WinMargin > margin {
				margin, scoreline = s.WinMargin, s.Scoreline
			}
		}
		winStreak := LongestStreak(league, func(s MatchSummary) bool { return s.Result == ResultWin })

		rec.LongestWinStreak = max(rec.LongestWinStreak, winStreak)
		rec.MostGoalsInLeague = max(rec.MostGoalsInLeague, goals)
		rec.MostMotmInLeague = max(rec.MostMotmInLeague, motmVotes)
		rec.HighestXPInLeague = max(rec.HighestXPInLeague, xp)
		if margin > rec.LongestWinMargin {
			rec.LongestWinMargin = margin
			rec.WinMarginScoreline = scoreline
		}
	}
	return rec
}

// byLeague splits summaries into per-league timelines, preserving order
// within each league. Leagues come out in sorted-id order.
func byLeague(summaries []MatchSummary) [][]MatchSummary {
	grouped := make(map[string][]MatchSummary)
	for _, s := range summaries {
		grouped[s.LeagueID] = append(grouped[s.LeagueID], s)
	}
	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return cmp.Compare(a, b) })

	out := make([][]MatchSummary, 0, len(grouped))
	for _, id := range ids {
		out = append(out, grouped[id])
	}
	return out
}
