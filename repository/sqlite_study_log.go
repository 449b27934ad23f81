package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

type sqliteStudyLogRepo struct {
	db database.TxQuerier
}

func NewSQLiteStudyLogRepo(db database.TxQuerier) StudyLogRepository {
	return &sqliteStudyLogRepo{db: db}
}

const studyLogColumns = `id, user_id, date, hours, subject, notes, mood, tags, created_at, updated_at`

func (r *sqliteStudyLogRepo) Create(ctx context.Context, log *models.StudyLog) error {
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	query := `
		INSERT INTO study_logs (user_id, date, hours, subject, notes, mood, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		log.UserID, log.Date, log.Hours, log.Subject, log.Notes, log.Mood,
		joinTags(log.Tags), log.CreatedAt, log.UpdatedAt,
	).Scan(&log.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: log for %s", pkg.ErrAlreadyExists, log.Date)
		}
		if ownerErr := missingOwner(err); ownerErr != nil {
			return ownerErr
		}
		return fmt.Errorf("failed to create study log: %w", err)
	}
	return nil
}

func (r *sqliteStudyLogRepo) Update(ctx context.Context, log *models.StudyLog) error {
	log.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE study_logs
		SET hours = ?, subject = ?, notes = ?, mood = ?, tags = ?, updated_at = ?
		WHERE user_id = ? AND date = ?`,
		log.Hours, log.Subject, log.Notes, log.Mood, joinTags(log.Tags), log.UpdatedAt,
		log.UserID, log.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to update study log: %w", err)
	}
	return requireAffected(result, "study log")
}

func (r *sqliteStudyLogRepo) GetByDate(ctx context.Context, userID int64, date string) (*models.StudyLog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studyLogColumns+` FROM study_logs WHERE user_id = ? AND date = ?`,
		userID, date,
	)

	log, err := scanStudyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no log for %s", pkg.ErrNotFound, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get study log: %w", err)
	}
	return log, nil
}

func (r *sqliteStudyLogRepo) List(ctx context.Context, userID int64, filter models.LogFilter) ([]models.StudyLog, error) {
	query := `SELECT ` + studyLogColumns + ` FROM study_logs WHERE user_id = ?`
	args := []any{userID}

	if filter.Start != "" {
		query += ` AND date >= ?`
		args = append(args, filter.Start)
	}
	if filter.End != "" {
		query += ` AND date <= ?`
		args = append(args, filter.End)
	}
	if filter.Subject != "" {
		query += ` AND subject LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(filter.Subject)+"%")
	}
	if filter.MinHours != nil {
		query += ` AND hours >= ?`
		args = append(args, *filter.MinHours)
	}
	query += ` ORDER BY date DESC LIMIT ?`
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list study logs: %w", err)
	}
	defer rows.Close()

	logs := []models.StudyLog{}
	for rows.Next() {
		log, err := scanStudyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study log row: %w", err)
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating study log rows: %w", err)
	}
	return logs, nil
}

func (r *sqliteStudyLogRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	return r.delete(ctx, `DELETE FROM study_logs WHERE user_id = ? AND id = ?`, userID, id)
}

func (r *sqliteStudyLogRepo) DeleteByDate(ctx context.Context, userID int64, date string) (bool, error) {
	return r.delete(ctx, `DELETE FROM study_logs WHERE user_id = ? AND date = ?`, userID, date)
}

func (r *sqliteStudyLogRepo) delete(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete study log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *sqliteStudyLogRepo) ActiveDates(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT date FROM study_logs WHERE user_id = ? AND hours > 0 ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query active dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan active date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active dates: %w", err)
	}
	return dates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudyLog(row rowScanner) (*models.StudyLog, error) {
	var (
		log  models.StudyLog
		tags sql.NullString
	)
	err := row.Scan(
		&log.ID, &log.UserID, &log.Date, &log.Hours, &log.Subject, &log.Notes,
		&log.Mood, &tags, &log.CreatedAt, &log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	log.Tags = splitTags(tags.String)
	return &log, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func joinTags(tags []string) *string {
	return optionalString(strings.Join(tags, ","))
}

func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
