package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/handlers"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccess(tokenString string) (*models.AccessClaims, error) {
	if tokenString != "good" {
		return nil, pkg.ErrInvalidToken
	}
	return &models.AccessClaims{
		Name:             "Ada",
		Email:            "ada@example.com",
		Kind:             models.TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
		UserID:           7,
	}, nil
}

func identityEcho(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.IdentityFromContext(r.Context())
	if !ok {
		pkg.JSON(w, http.StatusOK, map[string]any{"anonymous": true})
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]any{"user_id": identity.UserID, "jti": identity.TokenID})
}

func TestRequireCollapsesFailures(t *testing.T) {
	h := NewAuthMiddleware(stubVerifier{}).Require(http.HandlerFunc(identityEcho))

	headers := []string{"", "good", "Basic good", "Bearer", "Bearer ", "Bearer bad"}
	for _, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: status = %d, want 401", header, rec.Code)
		}
		var body pkg.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error != "authentication required" {
			t.Fatalf("%q: error = %q", header, body.Error)
		}
	}
}

func TestRequireAttachesIdentity(t *testing.T) {
	h := NewAuthMiddleware(stubVerifier{}).Require(http.HandlerFunc(identityEcho))

	for _, header := range []string{"Bearer good", "bearer good", "BEARER  good "} {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status = %d, want 200", header, rec.Code)
		}
		var body struct {
			UserID int64  `json:"user_id"`
			JTI    string `json:"jti"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.UserID != 7 || body.JTI != "jti-1" {
			t.Fatalf("%q: body = %+v", header, body)
		}
	}
}

func TestOptionalFallsBackToAnonymous(t *testing.T) {
	h := NewAuthMiddleware(stubVerifier{}).Optional(http.HandlerFunc(identityEcho))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "anonymous") {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"user_id":7`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		pkg.Error(w, errors.New("boom"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/logs", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d: %s", len(lines), buf.String())
	}

	var entry struct {
		Level  string `json:"level"`
		Method string `json:"method"`
		Path   string `json:"path"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if entry.Level != "error" || entry.Method != "POST" || entry.Path != "/api/logs" || entry.Status != 500 {
		t.Fatalf("entry = %+v", entry)
	}
}
