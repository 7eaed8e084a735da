package models

// Vote is one voter's man-of-the-match pick for a match. A new vote for
// the same match replaces the voter's previous one (enforced by the
// unique index).
type Vote struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MatchID    string `gorm:"uniqueIndex:idx_match_voter;not null" json:"match_id"`
	VoterID    string `gorm:"uniqueIndex:idx_match_voter;not null" json:"voter_id"`
	VotedForID string `gorm:"index;not null" json:"voted_for_id"`

	Timestamps
}
