package main

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/config"
	"github.com/akinalp/studytrack/pkg/email"
	"github.com/akinalp/studytrack/pkg/token"
	"github.com/akinalp/studytrack/services"
	"github.com/akinalp/studytrack/ws"
)

type Services struct {
	Token    services.TokenService
	Auth     services.AuthService
	User     services.UserService
	Streak   services.StreakService
	StudyLog services.StudyLogService
}

// initServices builds the service layer. The token service comes first;
// auth depends on it, and the streak service is shared by users and logs.
func initServices(db *sql.DB, repos *Repositories, hub ws.EventPublisher, signer *token.Signer, cfg *config.Config, logger zerolog.Logger) (*Services, error) {
	passwords, err := services.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to init password hasher: %w", err)
	}

	notifier := initNotifier(cfg, logger)

	tokenService := services.NewTokenService(db, repos.Session, signer, hub, logger)
	streakService := services.NewStreakService(db, repos.Streak, hub, logger)

	return &Services{
		Token: tokenService,
		Auth: services.NewAuthService(
			db,
			repos.User,
			tokenService,
			passwords,
			notifier,
			cfg.Auth.DefaultTimezone,
			logger,
		),
		User:     services.NewUserService(repos.User, streakService, passwords, notifier, logger),
		Streak:   streakService,
		StudyLog: services.NewStudyLogService(db, repos.StudyLog, streakService),
	}, nil
}

// initNotifier sends through Resend when a key is configured and only logs
// otherwise.
func initNotifier(cfg *config.Config, logger zerolog.Logger) email.Notifier {
	if cfg.Email.ResendAPIKey == "" {
		logger.Warn().Msg("RESEND_API_KEY not set, security emails will only be logged")
		return email.NewLogSender(logger)
	}
	return email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.App.URL)
}
