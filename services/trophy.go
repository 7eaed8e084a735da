package services

import (
	"cmp"
	"slices"

	"league-stats-engine/models"

	"github.com/gosimple/slug"
)

// Award titles. Identifiers are derived from the titles so the wire ids
// survive copy tweaks only when the title itself is stable.
const (
	TitleChampion        = "Champion"
	TitleRunnerUp        = "Runner-up"
	TitleGoldenBoot      = "Golden Boot"
	TitleKingPlaymaker   = "King Playmaker"
	TitleBallonDOr       = "Ballon d'Or"
	TitleGOAT            = "GOAT"
	TitleLegendaryShield = "Legendary Shield"
	TitleStarKeeper      = "Star Keeper"
	TitleDarkHorse       = "The Dark Horse"
)

// AwardTitles lists every award in trophy-room display order.
var AwardTitles = []string{
	TitleChampion, TitleRunnerUp, TitleGoldenBoot, TitleKingPlaymaker,
	TitleBallonDOr, TitleGOAT, TitleLegendaryShield, TitleStarKeeper,
	TitleDarkHorse,
}

// Award is one trophy-room slot. WinnerID is nil when nobody qualified.
type Award struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	WinnerID *string `json:"winner_id"`
}

// TableRow is one line of the computed league table.
type TableRow struct {
	PlayerID string `json:"player_id"`
	Played   int    `json:"played"`
	Wins     int    `json:"wins"`
	Draws    int    `json:"draws"`
	Losses   int    `json:"losses"`
	Points   int    `json:"points"`
}

// playerCounters accumulates everything the award rules look at.
type playerCounters struct {
	played, wins, draws, losses int
	goals, assists              int
	motmVotes                   int
	conceded                    int // opponent goals summed over appearances
	cleanSheetApps              int // appearances where the team conceded 0
}

// ComputeLeagueAwards derives the full trophy room for one league from
// its published match history. The reduction is pure: identical inputs
// always produce identical winners, every ambiguity resolved by lowest
// player id.
func ComputeLeagueAwards(members []models.Player, matches []models.Match, stats []models.PlayerMatchStat, votes []models.Vote) []Award {
	counters, ids := countPlayers(matches, stats, votes)
	table := leagueTable(counters, ids)

	positions := make(map[string]string, len(members))
	for _, p := range members {
		positions[p.ID] = p.PositionType
	}
	defensive := func(id string) bool {
		pos := positions[id]
		return pos == models.PositionDefender || pos == models.PositionGoalkeeper
	}
	keeper := func(id string) bool {
		return positions[id] == models.PositionGoalkeeper
	}

	awards := make([]Award, 0, len(AwardTitles))
	push := func(title string, winner *string) {
		awards = append(awards, Award{ID: slug.Make(title), Title: title, WinnerID: winner})
	}

	push(TitleChampion, tableRank(table, 0))
	push(TitleRunnerUp, tableRank(table, 1))
	push(TitleGoldenBoot, maxCounter(counters, ids, nil, func(c *playerCounters) int { return c.goals }))
	push(TitleKingPlaymaker, maxCounter(counters, ids, nil, func(c *playerCounters) int { return c.assists }))
	push(TitleBallonDOr, maxCounter(counters, ids, nil, func(c *playerCounters) int { return c.motmVotes }))
	push(TitleGOAT, goatWinner(counters, ids))
	push(TitleLegendaryShield, minRatio(counters, ids, defensive))
	push(TitleStarKeeper, starKeeper(counters, ids, keeper))
	push(TitleDarkHorse, darkHorse(counters, table))

	return awards
}

// LeagueTable exposes the standings the awards were ranked from.
func LeagueTable(matches []models.Match, stats []models.PlayerMatchStat, votes []models.Vote) []TableRow {
	counters, ids := countPlayers(matches, stats, votes)
	table := leagueTable(counters, ids)
	rows := make([]TableRow, 0, len(table))
	for _, id := range table {
		c := counters[id]
		rows = append(rows, TableRow{
			PlayerID: id,
			Played:   c.played,
			Wins:     c.wins,
			Draws:    c.draws,
			Losses:   c.losses,
			Points:   c.wins*3 + c.draws,
		})
	}
	return rows
}

// countPlayers folds published matches into per-player counters and
// returns the players in sorted-id order for deterministic iteration.
func countPlayers(matches []models.Match, stats []models.PlayerMatchStat, votes []models.Vote) (map[string]*playerCounters, []string) {
	counters := make(map[string]*playerCounters)
	at := func(id string) *playerCounters {
		c, ok := counters[id]
		if !ok {
			c = &playerCounters{}
			counters[id] = c
		}
		return c
	}

	publishedIDs := make(map[string]bool, len(matches))
	for i := range matches {
		m := &matches[i]
		if !m.Published() {
			continue
		}
		publishedIDs[m.ID] = true

		side := func(roster models.RosterIDs, goalsFor, goalsAgainst int) {
			for _, id := range roster {
				c := at(id)
				c.played++
				c.conceded += goalsAgainst
				if goalsAgainst == 0 {
					c.cleanSheetApps++
				}
				switch {
				case goalsFor > goalsAgainst:
					c.wins++
				case goalsFor == goalsAgainst:
					c.draws++
				default:
					c.losses++
				}
			}
		}
		side(m.HomeRoster, m.HomeGoals, m.AwayGoals)
		side(m.AwayRoster, m.AwayGoals, m.HomeGoals)
	}

	for _, st := range stats {
		if publishedIDs[st.MatchID] {
			c := at(st.PlayerID)
			c.goals += st.Goals
			c.assists += st.Assists
		}
	}
	for _, v := range votes {
		if publishedIDs[v.MatchID] {
			at(v.VotedForID).motmVotes++
		}
	}

	ids := make([]string, 0, len(counters))
	for id := range counters {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return counters, ids
}

// leagueTable ranks players with at least one appearance by classic
// 3/1/0 points, ties by lowest id.
func leagueTable(counters map[string]*playerCounters, ids []string) []string {
	var table []string
	for _, id := range ids {
		if counters[id].played > 0 {
			table = append(table, id)
		}
	}
	slices.SortFunc(table, func(a, b string) int {
		pa := counters[a].wins*3 + counters[a].draws
		pb := counters[b].wins*3 + counters[b].draws
		if c := cmp.Compare(pb, pa); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return table
}

func tableRank(table []string, rank int) *string {
	if rank >= len(table) {
		return nil
	}
	id := table[rank]
	return &id
}

// maxCounter picks the eligible player with the highest metric; the
// metric must exceed zero or nobody wins.
func maxCounter(counters map[string]*playerCounters, ids []string, eligible func(string) bool, metric func(*playerCounters) int) *string {
	var winner *string
	best := 0
	for _, id := range ids {
		if eligible != nil && !eligible(id) {
			continue
		}
		if v := metric(counters[id]); v > best {
			best = v
			id := id
			winner = &id
		}
	}
	return winner
}

// goatWinner ranks by win ratio (must be positive), ties by MOTM votes,
// then lowest id via the sorted iteration order.
func goatWinner(counters map[string]*playerCounters, ids []string) *string {
	var winner *string
	bestRatio := 0.0
	bestVotes := 0
	for _, id := range ids {
		c := counters[id]
		if c.played == 0 {
			continue
		}
		ratio := float64(c.wins) / float64(c.played)
		if ratio <= 0 {
			continue
		}
		if ratio > bestRatio || (ratio == bestRatio && c.motmVotes > bestVotes) {
			bestRatio, bestVotes = ratio, c.motmVotes
			id := id
			winner = &id
		}
	}
	return winner
}

// minRatio picks the eligible player with the lowest conceded-per-match
// average. Zero conceded is the best possible value, so there is no
// positivity requirement here, only eligibility.
func minRatio(counters map[string]*playerCounters, ids []string, eligible func(string) bool) *string {
	var winner *string
	best := 0.0
	for _, id := range ids {
		c := counters[id]
		if c.played == 0 || !eligible(id) {
			continue
		}
		avg := float64(c.conceded) / float64(c.played)
		if winner == nil || avg < best {
			best = avg
			id := id
			winner = &id
		}
	}
	return winner
}

// starKeeper rewards the goalkeeper with the most clean-sheet
// appearances, ties by lowest average conceded, then lowest id.
func starKeeper(counters map[string]*playerCounters, ids []string, keeper func(string) bool) *string {
	var winner *string
	best := 0
	bestAvg := 0.0
	for _, id := range ids {
		c := counters[id]
		if c.played == 0 || !keeper(id) {
			continue
		}
		avg := float64(c.conceded) / float64(c.played)
		if c.cleanSheetApps > best || (c.cleanSheetApps == best && winner != nil && avg < bestAvg) {
			if c.cleanSheetApps == 0 {
				continue
			}
			best, bestAvg = c.cleanSheetApps, avg
			id := id
			winner = &id
		}
	}
	return winner
}

// darkHorse finds the most-voted player sitting below the table's top
// three.
func darkHorse(counters map[string]*playerCounters, table []string) *string {
	if len(table) <= 3 {
		return nil
	}
	var winner *string
	best := 0
	for _, id := range table[3:] {
		if v := counters[id].motmVotes; v > best {
			best = v
			id := id
			winner = &id
		}
	}
	return winner
}
