package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the civil-date format used for study log dates.
const DateLayout = "2006-01-02"

// StudyLog is one day's study entry. (user, date) is unique.
type StudyLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Date      string    `json:"date"`
	Hours     float64   `json:"hours"`
	Subject   *string   `json:"subject"`
	Notes     *string   `json:"notes"`
	Mood      *int      `json:"mood"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertLogRequest creates or replaces the log for a date.
type UpsertLogRequest struct {
	Date    string   `json:"date"`
	Hours   *float64 `json:"hours"`
	Subject *string  `json:"subject"`
	Notes   *string  `json:"notes"`
	Mood    *int     `json:"mood"`
	Tags    []string `json:"tags"`
}

const (
	maxSubjectLength = 120
	maxNotesLength   = 4000
	maxTags          = 20
)

func (r *UpsertLogRequest) Validate() error {
	r.Date = strings.TrimSpace(r.Date)
	if !IsValidDate(r.Date) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if r.Hours == nil {
		return fmt.Errorf("hours is required")
	}
	if *r.Hours < 0 || *r.Hours > 24 {
		return fmt.Errorf("hours must be between 0 and 24")
	}
	if r.Mood != nil && (*r.Mood < 1 || *r.Mood > 5) {
		return fmt.Errorf("mood must be between 1 and 5")
	}
	if r.Subject != nil && utf8.RuneCountInString(*r.Subject) > maxSubjectLength {
		return fmt.Errorf("subject must be at most %d characters", maxSubjectLength)
	}
	if r.Notes != nil && utf8.RuneCountInString(*r.Notes) > maxNotesLength {
		return fmt.Errorf("notes must be at most %d characters", maxNotesLength)
	}

	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if strings.Contains(tag, ",") {
			return fmt.Errorf("tags cannot contain commas")
		}
		tags = append(tags, tag)
	}
	if len(tags) > maxTags {
		return fmt.Errorf("at most %d tags", maxTags)
	}
	r.Tags = tags
	return nil
}

// LogFilter narrows a log listing. Empty bounds are open. Subject matches
// as a case-insensitive substring; MinHours is inclusive.
type LogFilter struct {
	Start    string
	End      string
	Subject  string
	MinHours *float64
	Limit    int
}

const (
	DefaultLogLimit = 90
	MaxLogLimit     = 365
)

func (f *LogFilter) Validate() error {
	if f.Start != "" && !IsValidDate(f.Start) {
		return fmt.Errorf("start must be YYYY-MM-DD")
	}
	if f.End != "" && !IsValidDate(f.End) {
		return fmt.Errorf("end must be YYYY-MM-DD")
	}
	f.Subject = strings.TrimSpace(f.Subject)
	if utf8.RuneCountInString(f.Subject) > maxSubjectLength {
		return fmt.Errorf("subject must be at most %d characters", maxSubjectLength)
	}
	if f.MinHours != nil && !(*f.MinHours >= 0 && *f.MinHours <= 24) {
		return fmt.Errorf("min_hours must be between 0 and 24")
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLogLimit
	}
	if f.Limit > MaxLogLimit {
		f.Limit = MaxLogLimit
	}
	return nil
}

// LogWriteResult is returned after a log mutation, with the streak as
// recomputed in the same transaction.
type LogWriteResult struct {
	Log     *StudyLog `json:"log,omitempty"`
	Streak  *Streak   `json:"streak"`
	Created bool      `json:"created"`
}

// IsValidDate reports whether s is a real calendar date in DateLayout.
func IsValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}
