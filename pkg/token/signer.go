// Package token signs and parses the HS256 credentials handed to clients.
//
// A Signer is built once at startup with the secret and injected wherever
// credentials are produced or checked; nothing else reads the key.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

type Signer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customizes a Signer.
type Option func(*Signer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

func NewSigner(secret, issuer string, accessTTL, refreshTTL time.Duration, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token: lifetimes must be positive")
	}

	s := &Signer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Now is the signer's clock, shared with callers that stamp session rows.
func (s *Signer) Now() time.Time { return s.now() }

// SignAccess returns the access credential for user bound to tokenID.
func (s *Signer) SignAccess(user *models.User, tokenID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)

	claims := models.AccessClaims{
		Name:             user.Name,
		Email:            user.Email,
		Kind:             models.TokenKindAccess,
		RegisteredClaims: s.registered(user.ID, tokenID, now, exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, exp, nil
}

// SignRefresh returns the refresh credential for userID bound to tokenID.
func (s *Signer) SignRefresh(userID int64, tokenID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.refreshTTL)

	claims := models.RefreshClaims{
		Kind:             models.TokenKindRefresh,
		RegisteredClaims: s.registered(userID, tokenID, now, exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, exp, nil
}

// VerifyAccess checks signature, algorithm, issuer, expiry and kind. It is
// purely computational and never consults the session ledger.
func (s *Signer) VerifyAccess(tokenString string) (*models.AccessClaims, error) {
	claims := &models.AccessClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Kind != models.TokenKindAccess {
		return nil, fmt.Errorf("%w: wrong token kind", pkg.ErrInvalidToken)
	}

	id, err := s.subjectAndID(claims.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	claims.UserID = id
	return claims, nil
}

// ParseRefresh checks the refresh credential itself. Whether its session is
// still live is the caller's concern.
func (s *Signer) ParseRefresh(tokenString string) (*models.RefreshClaims, error) {
	claims := &models.RefreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Kind != models.TokenKindRefresh {
		return nil, fmt.Errorf("%w: wrong token kind", pkg.ErrInvalidToken)
	}

	id, err := s.subjectAndID(claims.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	claims.UserID = id
	return claims, nil
}

func (s *Signer) registered(userID int64, tokenID string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        tokenID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

func (s *Signer) parse(tokenString string, claims jwt.Claims) error {
	if tokenString == "" {
		return fmt.Errorf("%w: empty token", pkg.ErrInvalidToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: expired", pkg.ErrInvalidToken)
		}
		return fmt.Errorf("%w: %v", pkg.ErrInvalidToken, err)
	}
	return nil
}

func (s *Signer) subjectAndID(rc jwt.RegisteredClaims) (int64, error) {
	if rc.ID == "" {
		return 0, fmt.Errorf("%w: missing token id", pkg.ErrInvalidToken)
	}
	id, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject", pkg.ErrInvalidToken)
	}
	return id, nil
}
