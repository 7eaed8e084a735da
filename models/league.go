package models

// League groups players and their fixtures. Matches belong to exactly one
// league and optionally one of its seasons.
type League struct {
	ID   string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"not null" json:"name"`

	MemberIDs RosterIDs `gorm:"type:jsonb;serializer:json" json:"member_ids"`
	AdminIDs  RosterIDs `gorm:"type:jsonb;serializer:json" json:"admin_ids"`

	Timestamps
}

// Season is a named slice of a league's calendar. Season ids are only
// comparable within their league.
type Season struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	LeagueID string `gorm:"index;not null" json:"league_id"`
	Name     string `gorm:"not null" json:"name"`

	Timestamps
}
