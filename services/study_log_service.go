package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/repository"
)

// StudyLogService writes study logs. Every write recomputes the streak in
// the same transaction, so the response always carries the new streak.
type StudyLogService interface {
	List(ctx context.Context, userID int64, filter models.LogFilter) ([]models.StudyLog, error)
	Get(ctx context.Context, userID int64, date string) (*models.StudyLog, error)
	Upsert(ctx context.Context, userID int64, req *models.UpsertLogRequest) (*models.LogWriteResult, error)
	// Delete accepts a numeric log id or a YYYY-MM-DD date.
	Delete(ctx context.Context, userID int64, ref string) (*models.LogWriteResult, error)
}

type studyLogService struct {
	db      *sql.DB
	logs    repository.StudyLogRepository
	streaks StreakService
}

func NewStudyLogService(db *sql.DB, logs repository.StudyLogRepository, streaks StreakService) StudyLogService {
	return &studyLogService{db: db, logs: logs, streaks: streaks}
}

func (s *studyLogService) List(ctx context.Context, userID int64, filter models.LogFilter) ([]models.StudyLog, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	return s.logs.List(ctx, userID, filter)
}

func (s *studyLogService) Get(ctx context.Context, userID int64, date string) (*models.StudyLog, error) {
	if !models.IsValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", pkg.ErrBadRequest)
	}
	return s.logs.GetByDate(ctx, userID, date)
}

func (s *studyLogService) Upsert(ctx context.Context, userID int64, req *models.UpsertLogRequest) (*models.LogWriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	log := &models.StudyLog{
		UserID:  userID,
		Date:    req.Date,
		Hours:   *req.Hours,
		Subject: trimmed(req.Subject),
		Notes:   trimmed(req.Notes),
		Mood:    req.Mood,
		Tags:    req.Tags,
	}

	result := &models.LogWriteResult{Log: log}
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		logs := repository.NewSQLiteStudyLogRepo(tx)

		existing, err := logs.GetByDate(ctx, userID, req.Date)
		switch {
		case errors.Is(err, pkg.ErrNotFound):
			if err := logs.Create(ctx, log); err != nil {
				return err
			}
			result.Created = true
		case err != nil:
			return err
		default:
			log.ID = existing.ID
			log.CreatedAt = existing.CreatedAt
			if err := logs.Update(ctx, log); err != nil {
				return err
			}
		}

		result.Streak, err = s.streaks.RecomputeWith(ctx, tx, userID, models.StreakRatchet)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.streaks.Publish(userID, result.Streak)
	return result, nil
}

func (s *studyLogService) Delete(ctx context.Context, userID int64, ref string) (*models.LogWriteResult, error) {
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.ParseInt(ref, 10, 64)
	if idErr != nil && !models.IsValidDate(ref) {
		return nil, fmt.Errorf("%w: expected a log id or YYYY-MM-DD date", pkg.ErrBadRequest)
	}

	result := &models.LogWriteResult{}
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		logs := repository.NewSQLiteStudyLogRepo(tx)

		var (
			removed bool
			err     error
		)
		if idErr == nil {
			removed, err = logs.DeleteByID(ctx, userID, id)
		} else {
			removed, err = logs.DeleteByDate(ctx, userID, ref)
		}
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%w: study log", pkg.ErrNotFound)
		}

		result.Streak, err = s.streaks.RecomputeWith(ctx, tx, userID, models.StreakRatchet)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.streaks.Publish(userID, result.Streak)
	return result, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
