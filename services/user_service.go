package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/pkg/email"
	"github.com/akinalp/studytrack/repository"
)

// UserService manages the signed-in user's own account.
type UserService interface {
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID int64, password string) error
}

type userService struct {
	users     repository.UserRepository
	streaks   StreakService
	passwords *PasswordHasher
	notifier  email.Notifier
	log       zerolog.Logger
}

func NewUserService(
	users repository.UserRepository,
	streaks StreakService,
	passwords *PasswordHasher,
	notifier email.Notifier,
	logger zerolog.Logger,
) UserService {
	return &userService{
		users:     users,
		streaks:   streaks,
		passwords: passwords,
		notifier:  notifier,
		log:       logger.With().Str("component", "users").Logger(),
	}
}

func (s *userService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Profile{User: user, Streak: streak}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if err := s.users.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// ChangePassword keeps existing sessions; the user can end them with
// logout-all.
func (s *userService) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwords.Compare(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrUnauthorized)
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	sendNotice(ctx, s.log, userID, "password_changed", func(ctx context.Context) error {
		return s.notifier.SendPasswordChanged(ctx, user.Email, user.Name)
	})
	return nil
}

// DeleteAccount removes the user; sessions, logs and the streak record go
// with it through ON DELETE CASCADE.
func (s *userService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", pkg.ErrBadRequest)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwords.Compare(user.PasswordHash, password) {
		return fmt.Errorf("%w: password is incorrect", pkg.ErrUnauthorized)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Msg("account deleted")
	return nil
}
