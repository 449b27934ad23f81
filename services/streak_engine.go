package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/akinalp/studytrack/models"
)

// StreakEngine derives a streak record from a user's activity dates. It is
// pure: no clock, no storage.
//
// The current run is anchored at the most recent activity date, not at
// today, so a user who stopped studying keeps showing their last run until
// new activity arrives.
type StreakEngine struct {
	strategy models.StreakStrategy
}

func NewStreakEngine(strategy models.StreakStrategy) StreakEngine {
	if strategy != models.StreakFullRecompute {
		strategy = models.StreakRatchet
	}
	return StreakEngine{strategy: strategy}
}

func (e StreakEngine) Strategy() models.StreakStrategy { return e.strategy }

// Compute takes dates in DateLayout, in any order and possibly repeated,
// plus the previously stored record.
//
// With the ratchet strategy longest never decreases, even when logs are
// deleted. With full recompute, longest is the true longest run of the
// remaining dates (never below current).
func (e StreakEngine) Compute(dates []string, prev models.Streak) (models.Streak, error) {
	days, err := parseDays(dates)
	if err != nil {
		return models.Streak{}, err
	}

	out := models.Streak{UserID: prev.UserID}
	if len(days) == 0 {
		out.LongestStreak = prev.LongestStreak
		if e.strategy == models.StreakFullRecompute {
			out.LongestStreak = 0
		}
		return out, nil
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	out.CurrentStreak = currentRun(days)
	last := days[0].Format(models.DateLayout)
	out.LastStudyDate = &last

	switch e.strategy {
	case models.StreakFullRecompute:
		out.LongestStreak = max(longestRun(days), out.CurrentStreak)
	default:
		out.LongestStreak = max(out.CurrentStreak, prev.LongestStreak)
	}
	return out, nil
}

// currentRun walks days (sorted newest first) and counts consecutive days
// from the head. Equal days are skipped; the first gap ends the run.
func currentRun(days []time.Time) int {
	current := 1
	for i := 1; i < len(days); i++ {
		switch gap := daysBetween(days[i-1], days[i]); {
		case gap == 0:
			continue
		case gap == 1:
			current++
		default:
			return current
		}
	}
	return current
}

// longestRun scans all days (sorted newest first) for the longest chain of
// consecutive days.
func longestRun(days []time.Time) int {
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		switch gap := daysBetween(days[i-1], days[i]); {
		case gap == 0:
			continue
		case gap == 1:
			run++
		default:
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// daysBetween returns whole civil days from b to a (a after b).
func daysBetween(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}

func parseDays(dates []string) ([]time.Time, error) {
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(models.DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid activity date %q: %w", d, err)
		}
		days = append(days, t)
	}
	return days, nil
}
