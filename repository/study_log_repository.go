package repository

import (
	"context"

	"github.com/akinalp/studytrack/models"
)

// StudyLogRepository stores per-day study entries. Its dates with positive
// hours are the input of the streak engine.
type StudyLogRepository interface {
	Create(ctx context.Context, log *models.StudyLog) error
	Update(ctx context.Context, log *models.StudyLog) error
	GetByDate(ctx context.Context, userID int64, date string) (*models.StudyLog, error)
	List(ctx context.Context, userID int64, filter models.LogFilter) ([]models.StudyLog, error)
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)
	DeleteByDate(ctx context.Context, userID int64, date string) (bool, error)
	// ActiveDates returns the distinct dates with hours > 0, newest first.
	ActiveDates(ctx context.Context, userID int64) ([]string, error)
}
