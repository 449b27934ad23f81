// Package models defines the domain types shared by repositories, services
// and handlers, together with the request payloads and their validation.
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"
)

// User is a registered identity. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	WeeklyGoal   float64   `json:"weekly_goal_hours"`
	Timezone     string    `json:"timezone"`
	Avatar       *string   `json:"avatar"`
	Bio          *string   `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	MinPasswordLength = 8
	maxNameLength     = 64
	maxBioLength      = 500
	maxAvatarLength   = 2048
	DefaultWeeklyGoal = 20
)

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

// Validate trims and normalizes the request in place.
//   - name, email and password are required
//   - email must parse as a bare address
//   - password must be at least 8 characters
//   - timezone, when given, must be a known IANA zone
func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Timezone = strings.TrimSpace(r.Timezone)

	if r.Name == "" || r.Email == "" || r.Password == "" {
		return fmt.Errorf("name, email and password are required")
	}
	if utf8.RuneCountInString(r.Name) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	if !IsValidEmail(r.Email) {
		return fmt.Errorf("invalid email")
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if r.Timezone != "" && !IsValidTimezone(r.Timezone) {
		return fmt.Errorf("unknown timezone")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string  `json:"name"`
	WeeklyGoal *float64 `json:"weekly_goal_hours"`
	Timezone   *string  `json:"timezone"`
	Avatar     *string  `json:"avatar"`
	Bio        *string  `json:"bio"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name == nil && r.WeeklyGoal == nil && r.Timezone == nil && r.Avatar == nil && r.Bio == nil {
		return fmt.Errorf("nothing to update")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" || utf8.RuneCountInString(name) > maxNameLength {
			return fmt.Errorf("name must be between 1 and %d characters", maxNameLength)
		}
		r.Name = &name
	}
	if r.WeeklyGoal != nil && (*r.WeeklyGoal < 0 || *r.WeeklyGoal > 168) {
		return fmt.Errorf("weekly goal must be between 0 and 168 hours")
	}
	if r.Timezone != nil && !IsValidTimezone(*r.Timezone) {
		return fmt.Errorf("unknown timezone")
	}
	if r.Avatar != nil && utf8.RuneCountInString(*r.Avatar) > maxAvatarLength {
		return fmt.Errorf("avatar must be at most %d characters", maxAvatarLength)
	}
	if r.Bio != nil && utf8.RuneCountInString(*r.Bio) > maxBioLength {
		return fmt.Errorf("bio must be at most %d characters", maxBioLength)
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" || r.NewPassword == "" {
		return fmt.Errorf("current and new password are required")
	}
	if utf8.RuneCountInString(r.NewPassword) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if r.CurrentPassword == r.NewPassword {
		return fmt.Errorf("new password must be different from current password")
	}
	return nil
}

// DeleteAccountRequest confirms account deletion with the password.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// Profile is what GET /api/me returns.
type Profile struct {
	User   *User   `json:"user"`
	Streak *Streak `json:"streak"`
}

// NormalizeEmail trims and lower-cases an address so that uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidTimezone accepts IANA zone names. "Local" is rejected since it
// names the server's zone, not the user's.
func IsValidTimezone(name string) bool {
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// IsValidEmail accepts a bare address with a dotted domain, e.g. a@b.co.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
