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

type sqliteSessionRepo struct {
	db database.TxQuerier
}

func NewSQLiteSessionRepo(db database.TxQuerier) SessionRepository {
	return &sqliteSessionRepo{db: db}
}

func (r *sqliteSessionRepo) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, token_jti, user_agent, ip, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		session.UserID,
		session.TokenID,
		session.UserAgent,
		session.IP,
		session.CreatedAt,
		session.ExpiresAt,
	).Scan(&session.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: session token id", pkg.ErrAlreadyExists)
		}
		if ownerErr := missingOwner(err); ownerErr != nil {
			return ownerErr
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *sqliteSessionRepo) GetByTokenID(ctx context.Context, tokenID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token_jti, user_agent, ip, created_at, expires_at
		FROM sessions WHERE token_jti = ?`

	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, tokenID).Scan(
		&s.ID, &s.UserID, &s.TokenID, &s.UserAgent, &s.IP, &s.CreatedAt, &s.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token id: %w", err)
	}

	return s, nil
}

func (r *sqliteSessionRepo) ListByUserID(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT id, user_id, token_jti, user_agent, ip, created_at, expires_at
		FROM sessions WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.TokenID, &s.UserAgent, &s.IP, &s.CreatedAt, &s.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	return sessions, nil
}

func (r *sqliteSessionRepo) DeleteByTokenID(ctx context.Context, tokenID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_jti = ?`, tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *sqliteSessionRepo) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return affected, nil
}
