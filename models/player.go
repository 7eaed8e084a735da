package models

import (
	"time"

	"gorm.io/gorm"
)

// Position types. The set is open-ended in the DB; these cover the
// positions the award logic cares about.
const (
	PositionGoalkeeper = "Goalkeeper"
	PositionDefender   = "Defender"
	PositionMidfielder = "Midfielder"
	PositionForward    = "Forward"
)

// Player mirrors the profile the engine aggregates for. XP is a
// materialized total — always reconstructable from per-match rows plus
// unlocked badge XP, never the source of truth.
type Player struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	PositionType string `gorm:"type:varchar(24);index" json:"position_type"`

	XP           int      `json:"xp" gorm:"default:0"`
	Achievements BadgeIDs `gorm:"type:jsonb;serializer:json" json:"achievements"`

	Timestamps
}

// BadgeIDs is a jsonb-backed set of unlocked badge ids.
type BadgeIDs []string

// Has reports whether the badge id is in the set.
func (b BadgeIDs) Has(badgeID string) bool {
	for _, id := range b {
		if id == badgeID {
			return true
		}
	}
	return false
}

// DefensivePosition reports whether the player counts for defensive awards.
func (p *Player) DefensivePosition() bool {
	return p.PositionType == PositionDefender || p.PositionType == PositionGoalkeeper
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
