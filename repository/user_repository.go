// Package repository is the data access layer. Each concern has an
// interface file and a SQLite implementation (sqlite_*.go) built on
// database.TxQuerier, so every repository can run inside database.WithTx.
package repository

import (
	"context"

	"github.com/akinalp/studytrack/models"
)

// UserRepository stores identities and their password hashes.
type UserRepository interface {
	// Create fills user.ID. A duplicate email yields pkg.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// Delete removes the user; sessions, logs and streak cascade.
	Delete(ctx context.Context, id int64) error
}
