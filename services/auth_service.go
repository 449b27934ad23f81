// Package services holds the business rules. Services never see HTTP types
// and never run SQL directly; they work through repository interfaces and
// database.WithTx.
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
	"github.com/akinalp/studytrack/pkg/email"
	"github.com/akinalp/studytrack/repository"
)

// AuthService covers registration, login and the credential lifecycle seen
// by clients.
type AuthService interface {
	Register(ctx context.Context, req *models.CreateUserRequest, client models.ClientInfo) (*models.AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest, client models.ClientInfo) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.TokenPair, error)
	Logout(ctx context.Context, tokenID string) error
	LogoutAll(ctx context.Context, userID int64) error
}

type authService struct {
	db              *sql.DB
	users           repository.UserRepository
	tokens          TokenService
	passwords       *PasswordHasher
	notifier        email.Notifier
	defaultTimezone string
	log             zerolog.Logger
}

func NewAuthService(
	db *sql.DB,
	users repository.UserRepository,
	tokens TokenService,
	passwords *PasswordHasher,
	notifier email.Notifier,
	defaultTimezone string,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		db:              db,
		users:           users,
		tokens:          tokens,
		passwords:       passwords,
		notifier:        notifier,
		defaultTimezone: defaultTimezone,
		log:             logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates the user, its empty streak record and the first session
// in one transaction. A duplicate email leaves nothing behind.
func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest, client models.ClientInfo) (*models.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", pkg.ErrAlreadyExists)
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		WeeklyGoal:   models.DefaultWeeklyGoal,
		Timezone:     timezone,
	}

	var pair *models.TokenPair
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := repository.NewSQLiteUserRepo(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := repository.NewSQLiteStreakRepo(tx).Init(ctx, user.ID); err != nil {
			return err
		}

		var err error
		pair, err = s.tokens.IssueWith(ctx, tx, user, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return &models.AuthResult{User: user, TokenPair: pair}, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest, client models.ClientInfo) (*models.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, pkg.ErrNotFound) {
		s.passwords.CompareDummy(req.Password)
		return nil, pkg.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.passwords.Compare(user.PasswordHash, req.Password) {
		return nil, pkg.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, user, client)
	if err != nil {
		return nil, err
	}

	return &models.AuthResult{User: user, TokenPair: pair}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token required", pkg.ErrBadRequest)
	}
	return s.tokens.Rotate(ctx, refreshToken, client)
}

// Logout revokes one session by token id. Unknown ids are not an error.
func (s *authService) Logout(ctx context.Context, tokenID string) error {
	return s.tokens.Revoke(ctx, tokenID)
}

// LogoutAll revokes every session of the user and mails a notice in the
// background.
func (s *authService) LogoutAll(ctx context.Context, userID int64) error {
	if _, err := s.tokens.RevokeAll(ctx, userID); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("skipping sign-out notice")
		return nil
	}
	sendNotice(ctx, s.log, userID, "signed_out", func(ctx context.Context) error {
		return s.notifier.SendSignedOutEverywhere(ctx, user.Email, user.Name)
	})
	return nil
}
