// Package main wires the server together. Each init_*.go file builds one
// layer; main.go runs them in order.
package main

import (
	"database/sql"

	"github.com/akinalp/studytrack/repository"
)

// Repositories groups every repository so the constructors below take one
// argument instead of many.
type Repositories struct {
	User     repository.UserRepository
	Session  repository.SessionRepository
	Streak   repository.StreakRepository
	StudyLog repository.StudyLogRepository
}

// initRepositories shares one *sql.DB pool across all repositories.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:     repository.NewSQLiteUserRepo(conn),
		Session:  repository.NewSQLiteSessionRepo(conn),
		Streak:   repository.NewSQLiteStreakRepo(conn),
		StudyLog: repository.NewSQLiteStudyLogRepo(conn),
	}
}
