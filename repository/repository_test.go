package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/rs/zerolog"
)

func openTempDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "repo.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		WeeklyGoal:   models.DefaultWeeklyGoal,
		Timezone:     "Europe/Istanbul",
	}
	if err := NewSQLiteUserRepo(db.Conn).Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
