package models

// PlayerMatchStat holds one player's counting stats for one match.
// XPAwarded is derived by the XP calculator and overwritten on every
// recompute — never incremented.
type PlayerMatchStat struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MatchID  string `gorm:"uniqueIndex:idx_match_player;not null" json:"match_id"`
	PlayerID string `gorm:"uniqueIndex:idx_match_player;index;not null" json:"player_id"`

	Goals       int `json:"goals" gorm:"default:0"`
	Assists     int `json:"assists" gorm:"default:0"`
	CleanSheets int `json:"clean_sheets" gorm:"default:0"`
	Defences    int `json:"defences" gorm:"default:0"`

	XPAwarded int `json:"xp_awarded" gorm:"default:0"`

	Timestamps
}
