package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

var testUser = &models.User{ID: 42, Name: "Ada", Email: "ada@example.com"}

func newTestSigner(t *testing.T, now func() time.Time) *Signer {
	t.Helper()
	s, err := NewSigner("test-secret", "studytrack", 15*time.Minute, 7*24*time.Hour, WithClock(now))
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	return s
}

func TestNewSignerRejectsEmptySecret(t *testing.T) {
	if _, err := NewSigner("", "x", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestAccessRoundTrip(t *testing.T) {
	s := newTestSigner(t, time.Now)

	signed, exp, err := s.SignAccess(testUser, "jti-1")
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}
	if d := time.Until(exp); d < 14*time.Minute || d > 15*time.Minute {
		t.Fatalf("access expiry in %v, want ~15m", d)
	}

	claims, err := s.VerifyAccess(signed)
	if err != nil {
		t.Fatalf("VerifyAccess() error = %v", err)
	}
	if claims.UserID != 42 || claims.ID != "jti-1" || claims.Name != "Ada" || claims.Email != "ada@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	s := newTestSigner(t, time.Now)

	signed, _, err := s.SignRefresh(42, "jti-1")
	if err != nil {
		t.Fatalf("SignRefresh() error = %v", err)
	}
	claims, err := s.ParseRefresh(signed)
	if err != nil {
		t.Fatalf("ParseRefresh() error = %v", err)
	}
	if claims.UserID != 42 || claims.ID != "jti-1" || claims.Kind != models.TokenKindRefresh {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestKindsAreNotInterchangeable(t *testing.T) {
	s := newTestSigner(t, time.Now)

	access, _, _ := s.SignAccess(testUser, "jti-1")
	refresh, _, _ := s.SignRefresh(42, "jti-1")

	if _, err := s.VerifyAccess(refresh); !errors.Is(err, pkg.ErrInvalidToken) {
		t.Fatalf("VerifyAccess(refresh) error = %v, want ErrInvalidToken", err)
	}
	if _, err := s.ParseRefresh(access); !errors.Is(err, pkg.ErrInvalidToken) {
		t.Fatalf("ParseRefresh(access) error = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	past := newTestSigner(t, func() time.Time { return issuedAt })
	signed, _, err := past.SignAccess(testUser, "jti-1")
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}

	current := newTestSigner(t, time.Now)
	_, err = current.VerifyAccess(signed)
	if !errors.Is(err, pkg.ErrInvalidToken) || !errors.Is(err, pkg.ErrUnauthorized) {
		t.Fatalf("VerifyAccess(expired) error = %v", err)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("error %q does not mention expiry", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	s := newTestSigner(t, time.Now)
	other, _ := NewSigner("other-secret", "studytrack", time.Minute, time.Hour)

	signed, _, _ := other.SignAccess(testUser, "jti-1")
	if _, err := s.VerifyAccess(signed); !errors.Is(err, pkg.ErrInvalidToken) {
		t.Fatalf("VerifyAccess(foreign) error = %v", err)
	}
}

func TestWrongIssuerRejected(t *testing.T) {
	s := newTestSigner(t, time.Now)
	other, _ := NewSigner("test-secret", "someone-else", time.Minute, time.Hour)

	signed, _, _ := other.SignAccess(testUser, "jti-1")
	if _, err := s.VerifyAccess(signed); !errors.Is(err, pkg.ErrInvalidToken) {
		t.Fatalf("VerifyAccess(wrong issuer) error = %v", err)
	}
}

func TestNoneAlgorithmRejected(t *testing.T) {
	s := newTestSigner(t, time.Now)

	claims := models.AccessClaims{
		Kind: models.TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ID:        "jti-1",
			Issuer:    "studytrack",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := s.VerifyAccess(unsigned); !errors.Is(err, pkg.ErrInvalidToken) {
		t.Fatalf("VerifyAccess(none) error = %v", err)
	}
}

func TestGarbageRejected(t *testing.T) {
	s := newTestSigner(t, time.Now)
	for _, in := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := s.VerifyAccess(in); !errors.Is(err, pkg.ErrInvalidToken) {
			t.Fatalf("VerifyAccess(%q) error = %v", in, err)
		}
	}
}
