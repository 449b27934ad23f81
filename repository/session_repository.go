package repository

import (
	"context"

	"github.com/akinalp/studytrack/models"
)

// SessionRepository is the session ledger: one row per outstanding refresh
// credential, keyed by its token id (jti).
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByTokenID(ctx context.Context, tokenID string) (*models.Session, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.Session, error)
	// DeleteByTokenID reports whether a row was removed. It never fails on a
	// missing row.
	DeleteByTokenID(ctx context.Context, tokenID string) (bool, error)
	// DeleteByUserID returns the number of rows removed.
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
