package models

// Streak is the derived day-streak record of one user.
type Streak struct {
	UserID        int64   `json:"-"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	LastStudyDate *string `json:"last_study_date"`
}

// StreakStrategy selects how longest_streak is derived.
type StreakStrategy string

const (
	// StreakRatchet keeps longest as max(current, stored longest).
	StreakRatchet StreakStrategy = "ratchet"
	// StreakFullRecompute scans every date for the longest run.
	StreakFullRecompute StreakStrategy = "full"
)
