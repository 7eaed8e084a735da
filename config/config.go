package config

import (
	"os"
	"strconv"
	"time"

	"league-stats-engine/apperrors"
)

// ByResult holds one point value per match outcome.
type ByResult struct {
	Win  int
	Draw int
	Loss int
}

// For selects the value for a result string ("W", "D", "L").
func (b ByResult) For(result string) int {
	switch result {
	case "W":
		return b.Win
	case "D":
		return b.Draw
	default:
		return b.Loss
	}
}

// PointTable is the XP scoring configuration. Every scenario has a named
// field; tuned via env, validated at load.
type PointTable struct {
	Base             ByResult // participation points per outcome
	PerGoal          ByResult
	PerAssist        ByResult
	CleanSheetBonus  int // flat, result-independent
	MOTMWinner       ByResult
	PerVoteReceived  ByResult
	CaptainDefensive ByResult // captain's defensive-impact pick
	CaptainMentality ByResult // captain's mentality pick
}

// TTLBands groups cache lifetimes by how fresh each aggregate class must be.
type TTLBands struct {
	Identity     time.Duration // per-identity aggregates, near-real-time
	Leaderboard  time.Duration
	Trophy       time.Duration
	Achievements time.Duration
}

// Config is the engine configuration, built once at startup.
type Config struct {
	Points PointTable
	TTL    TTLBands

	LeaderboardTopN int // default list size
	TrophyTopN      int // trophy-room leaderboards
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Points: PointTable{
			Base:             ByResult{Win: 30, Draw: 15, Loss: 10},
			PerGoal:          ByResult{Win: 3, Draw: 2, Loss: 1},
			PerAssist:        ByResult{Win: 2, Draw: 2, Loss: 1},
			CleanSheetBonus:  4,
			MOTMWinner:       ByResult{Win: 10, Draw: 7, Loss: 5},
			PerVoteReceived:  ByResult{Win: 2, Draw: 1, Loss: 1},
			CaptainDefensive: ByResult{Win: 5, Draw: 3, Loss: 2},
			CaptainMentality: ByResult{Win: 5, Draw: 3, Loss: 2},
		},
		TTL: TTLBands{
			Identity:     3 * time.Second,
			Leaderboard:  10 * time.Minute,
			Trophy:       10 * time.Minute,
			Achievements: 5 * time.Minute,
		},
		LeaderboardTopN: 10,
		TrophyTopN:      5,
	}
}

// Load builds the configuration from defaults plus env overrides, then
// validates it.
func Load() (*Config, error) {
	cfg := Default()

	if v := envInt("XP_BASE_WIN"); v != nil {
		cfg.Points.Base.Win = *v
	}
	if v := envInt("XP_BASE_DRAW"); v != nil {
		cfg.Points.Base.Draw = *v
	}
	if v := envInt("XP_BASE_LOSS"); v != nil {
		cfg.Points.Base.Loss = *v
	}
	if v := envInt("XP_CLEAN_SHEET_BONUS"); v != nil {
		cfg.Points.CleanSheetBonus = *v
	}
	if v := envDuration("CACHE_TTL_LEADERBOARD"); v != nil {
		cfg.TTL.Leaderboard = *v
	}
	if v := envDuration("CACHE_TTL_TROPHY"); v != nil {
		cfg.TTL.Trophy = *v
	}
	if v := envDuration("CACHE_TTL_ACHIEVEMENTS"); v != nil {
		cfg.TTL.Achievements = *v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the scoring rules cannot work with.
func (c *Config) Validate() error {
	for _, p := range []struct {
		name string
		b    ByResult
	}{
		{"base", c.Points.Base},
		{"per_goal", c.Points.PerGoal},
		{"per_assist", c.Points.PerAssist},
		{"motm_winner", c.Points.MOTMWinner},
		{"per_vote", c.Points.PerVoteReceived},
		{"captain_defensive", c.Points.CaptainDefensive},
		{"captain_mentality", c.Points.CaptainMentality},
	} {
		if p.b.Win < 0 || p.b.Draw < 0 || p.b.Loss < 0 {
			return apperrors.ErrConfigInvalid("negative point value for " + p.name)
		}
	}
	if c.Points.CleanSheetBonus < 0 {
		return apperrors.ErrConfigInvalid("negative clean sheet bonus")
	}
	for _, t := range []struct {
		name string
		d    time.Duration
	}{
		{"identity", c.TTL.Identity},
		{"leaderboard", c.TTL.Leaderboard},
		{"trophy", c.TTL.Trophy},
		{"achievements", c.TTL.Achievements},
	} {
		if t.d <= 0 {
			return apperrors.ErrConfigInvalid("non-positive TTL for " + t.name)
		}
	}
	if c.LeaderboardTopN <= 0 || c.TrophyTopN <= 0 {
		return apperrors.ErrConfigInvalid("top-N limits must be positive")
	}
	return nil
}

func envInt(key string) *int {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func envDuration(key string) *time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil
	}
	return &d
}
