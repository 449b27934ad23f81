package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/repository"
	"github.com/akinalp/studytrack/ws"
)

// StreakService persists what StreakEngine computes and notifies the
// user's open sockets.
type StreakService interface {
	Get(ctx context.Context, userID int64) (*models.Streak, error)
	// Recompute runs strategy in its own transaction and publishes the result.
	Recompute(ctx context.Context, userID int64, strategy models.StreakStrategy) (*models.Streak, error)
	// RecomputeWith joins the caller's transaction and does not publish;
	// the caller publishes after commit.
	RecomputeWith(ctx context.Context, q database.TxQuerier, userID int64, strategy models.StreakStrategy) (*models.Streak, error)
	Publish(userID int64, streak *models.Streak)
}

type streakService struct {
	db      *sql.DB
	streaks repository.StreakRepository
	hub     ws.EventPublisher
	log     zerolog.Logger
}

func NewStreakService(db *sql.DB, streaks repository.StreakRepository, hub ws.EventPublisher, logger zerolog.Logger) StreakService {
	return &streakService{
		db:      db,
		streaks: streaks,
		hub:     hub,
		log:     logger.With().Str("component", "streak").Logger(),
	}
}

func (s *streakService) Get(ctx context.Context, userID int64) (*models.Streak, error) {
	streak, err := s.streaks.Get(ctx, userID)
	if errors.Is(err, pkg.ErrNotFound) {
		return &models.Streak{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return streak, nil
}

func (s *streakService) Recompute(ctx context.Context, userID int64, strategy models.StreakStrategy) (*models.Streak, error) {
	var streak *models.Streak
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		streak, err = s.RecomputeWith(ctx, tx, userID, strategy)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Publish(userID, streak)
	return streak, nil
}

func (s *streakService) RecomputeWith(ctx context.Context, q database.TxQuerier, userID int64, strategy models.StreakStrategy) (*models.Streak, error) {
	streaks := repository.NewSQLiteStreakRepo(q)
	logs := repository.NewSQLiteStudyLogRepo(q)

	prev, err := streaks.Get(ctx, userID)
	if errors.Is(err, pkg.ErrNotFound) {
		prev = &models.Streak{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	dates, err := logs.ActiveDates(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, err := NewStreakEngine(strategy).Compute(dates, *prev)
	if err != nil {
		return nil, fmt.Errorf("failed to compute streak: %w", err)
	}
	next.UserID = userID

	if err := streaks.Save(ctx, &next); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int64("user_id", userID).
		Str("strategy", string(strategy)).
		Int("current", next.CurrentStreak).
		Int("longest", next.LongestStreak).
		Msg("streak recomputed")
	return &next, nil
}

func (s *streakService) Publish(userID int64, streak *models.Streak) {
	if s.hub == nil || streak == nil {
		return
	}
	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpStreakUpdate, Data: streak})
}
