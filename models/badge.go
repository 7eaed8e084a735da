package models

import (
	"github.com/gosimple/slug"
)

// Streak kinds a badge can track. Scoring/assist/win streaks are scored
// within a single league (best league wins); MOTM and clean-sheet-win
// streaks run over the player's merged cross-league timeline.
const (
	StreakScoring       = "scoring"
	StreakAssist        = "assist"
	StreakWin           = "win"
	StreakMOTM          = "motm"
	StreakCleanSheetWin = "clean_sheet_win"
)

// BadgeType: static achievement config. ID is the slug of the name so it
// stays stable across renames of display copy.
type BadgeType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"` // common, rare, epic, legendary
	StreakKind  string `json:"streak_kind"`
	Target      int    `json:"target"` // consecutive qualifying matches needed
	XP          int    `json:"xp"`     // awarded once per unlock
}

func badge(name, description, rarity, kind string, target, xp int) BadgeType {
	return BadgeType{
		ID:          slug.Make(name),
		Name:        name,
		Description: description,
		Rarity:      rarity,
		StreakKind:  kind,
		Target:      target,
		XP:          xp,
	}
}

// BadgeCatalog is the full achievement set, in display order.
var BadgeCatalog = []BadgeType{
	badge("Goal Machine", "Scored in 3 matches in a row", "common", StreakScoring, 3, 50),
	badge("Hot Streak", "Scored in 5 matches in a row", "rare", StreakScoring, 5, 120),
	badge("Playmaker", "Assisted in 3 matches in a row", "common", StreakAssist, 3, 50),
	badge("Puppet Master", "Assisted in 5 matches in a row", "rare", StreakAssist, 5, 120),
	badge("On a Roll", "Won 3 matches in a row", "common", StreakWin, 3, 60),
	badge("Unstoppable", "Won 7 matches in a row", "epic", StreakWin, 7, 200),
	badge("Crowd Favourite", "Voted MOTM in 3 consecutive matches", "epic", StreakMOTM, 3, 150),
	badge("Iron Wall", "Won 3 in a row without conceding", "legendary", StreakCleanSheetWin, 3, 250),
}

// BadgeXP returns the XP value of a badge id, zero for unknown ids.
func BadgeXP(badgeID string) int {
	for _, b := range BadgeCatalog {
		if b.ID == badgeID {
			return b.XP
		}
	}
	return 0
}
