package models

import (
	"fmt"
	"time"
)

// Match status lifecycle. Transitions are owned by match-management code;
// once a result is published the engine treats the row as immutable input.
const (
	MatchScheduled       = "SCHEDULED"
	MatchOngoing         = "ONGOING"
	MatchResultUploaded  = "RESULT_UPLOADED"
	MatchResultPublished = "RESULT_PUBLISHED"
)

// Match records a single league fixture and, once published, its result.
type Match struct {
	ID       string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	LeagueID string  `gorm:"index;not null" json:"league_id"`
	SeasonID *string `gorm:"index" json:"season_id,omitempty"` // nil = no season assigned

	Date        time.Time `gorm:"index;not null" json:"date"`
	KickOff     time.Time `json:"kick_off"`
	DurationMin int       `json:"duration_min" gorm:"default:60"`

	Status string `json:"status" gorm:"type:varchar(24);default:'SCHEDULED';check:status IN ('SCHEDULED','ONGOING','RESULT_UPLOADED','RESULT_PUBLISHED')"`

	HomeGoals int `json:"home_goals" gorm:"default:0"`
	AwayGoals int `json:"away_goals" gorm:"default:0"`

	HomeRoster RosterIDs `gorm:"type:jsonb;serializer:json" json:"home_roster"`
	AwayRoster RosterIDs `gorm:"type:jsonb;serializer:json" json:"away_roster"`

	// Captain picks, one pair per side. Nil until the captain submits them.
	HomeDefensiveImpactID *string `json:"home_defensive_impact_id,omitempty"`
	HomeMentalityID       *string `json:"home_mentality_id,omitempty"`
	AwayDefensiveImpactID *string `json:"away_defensive_impact_id,omitempty"`
	AwayMentalityID       *string `json:"away_mentality_id,omitempty"`

	Archived bool `json:"archived" gorm:"default:false"`

	Timestamps
}

// RosterIDs is a jsonb-backed set of player ids.
type RosterIDs []string

// Contains reports whether playerID appears in the roster.
func (r RosterIDs) Contains(playerID string) bool {
	for _, id := range r {
		if id == playerID {
			return true
		}
	}
	return false
}

// Published reports whether the match result is final and aggregatable.
func (m *Match) Published() bool {
	return m.Status == MatchResultPublished
}

// EndTime is kickoff plus the scheduled duration.
func (m *Match) EndTime() time.Time {
	return m.KickOff.Add(time.Duration(m.DurationMin) * time.Minute)
}

// OnHomeSide reports which roster (if any) the player appeared on.
// A player listed on both sides is a data inconsistency; callers decide
// how to handle that case.
func (m *Match) OnHomeSide(playerID string) (home bool, found bool) {
	if m.HomeRoster.Contains(playerID) {
		return true, true
	}
	if m.AwayRoster.Contains(playerID) {
		return false, true
	}
	return false, false
}

// WinMargin returns the absolute goal difference.
func (m *Match) WinMargin() int {
	d := m.HomeGoals - m.AwayGoals
	if d < 0 {
		return -d
	}
	return d
}

// Scoreline renders the literal result with the winner's goals first
// (e.g. "4-1"); a draw renders symmetrically.
func (m *Match) Scoreline() string {
	hi, lo := m.HomeGoals, m.AwayGoals
	if lo > hi {
		hi, lo = lo, hi
	}
	return fmt.Sprintf("%d-%d", hi, lo)
}
