package repository

import (
	"context"

	"github.com/akinalp/studytrack/models"
)

// StreakRepository persists the derived streak record. Only the streak
// service writes to it.
type StreakRepository interface {
	// Init creates the zero record for a new user.
	Init(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*models.Streak, error)
	Save(ctx context.Context, streak *models.Streak) error
}
