package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

type sqliteStreakRepo struct {
	db database.TxQuerier
}

func NewSQLiteStreakRepo(db database.TxQuerier) StreakRepository {
	return &sqliteStreakRepo{db: db}
}

func (r *sqliteStreakRepo) Init(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO streaks (user_id, current_streak, longest_streak) VALUES (?, 0, 0)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID,
	)
	if ownerErr := missingOwner(err); ownerErr != nil {
		return ownerErr
	}
	if err != nil {
		return fmt.Errorf("failed to init streak: %w", err)
	}
	return nil
}

func (r *sqliteStreakRepo) Get(ctx context.Context, userID int64) (*models.Streak, error) {
	s := &models.Streak{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT current_streak, longest_streak, last_study_date FROM streaks WHERE user_id = ?`,
		userID,
	).Scan(&s.CurrentStreak, &s.LongestStreak, &s.LastStudyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return s, nil
}

// Save upserts so that users created before their streak row existed are
// handled the same way as everyone else.
func (r *sqliteStreakRepo) Save(ctx context.Context, streak *models.Streak) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_study_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_study_date = excluded.last_study_date`,
		streak.UserID, streak.CurrentStreak, streak.LongestStreak, streak.LastStudyDate,
	)
	if ownerErr := missingOwner(err); ownerErr != nil {
		return ownerErr
	}
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}
