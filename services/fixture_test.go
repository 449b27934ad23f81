package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg/token"
	"github.com/akinalp/studytrack/repository"
	"github.com/akinalp/studytrack/ws"
)

type recordingHub struct {
	mu     sync.Mutex
	events map[int64][]ws.Event
}

func (h *recordingHub) BroadcastToUser(userID int64, event ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.events == nil {
		h.events = make(map[int64][]ws.Event)
	}
	h.events[userID] = append(h.events[userID], event)
}

func (h *recordingHub) ops(userID int64) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ops []string
	for _, e := range h.events[userID] {
		ops = append(ops, e.Op)
	}
	return ops
}

// recordingNotifier reports each notice on sent. Notices are delivered
// from a background goroutine, so tests read them with next.
type recordingNotifier struct {
	sent chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan string, 16)}
}

func (n *recordingNotifier) SendPasswordChanged(_ context.Context, to, _ string) error {
	n.sent <- "password_changed:" + to
	return nil
}

func (n *recordingNotifier) SendSignedOutEverywhere(_ context.Context, to, _ string) error {
	n.sent <- "signed_out:" + to
	return nil
}

func (n *recordingNotifier) next(t *testing.T) string {
	t.Helper()
	select {
	case notice := <-n.sent:
		return notice
	case <-time.After(2 * time.Second):
		t.Fatal("no notice sent")
		return ""
	}
}

// blockingNotifier holds every send until release is closed.
type blockingNotifier struct {
	started chan context.Context
	release chan struct{}
}

func (n *blockingNotifier) SendPasswordChanged(ctx context.Context, _, _ string) error {
	return n.block(ctx)
}

func (n *blockingNotifier) SendSignedOutEverywhere(ctx context.Context, _, _ string) error {
	return n.block(ctx)
}

func (n *blockingNotifier) block(ctx context.Context) error {
	n.started <- ctx
	<-n.release
	return nil
}

type fixture struct {
	db       *database.DB
	signer   *token.Signer
	hub      *recordingHub
	notifier *recordingNotifier

	sessions repository.SessionRepository
	tokens   TokenService
	streaks  StreakService
	logs     StudyLogService
	auth     AuthService
	users    UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithClock(t, time.Now)
}

func newFixtureWithClock(t *testing.T, now func() time.Time) *fixture {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "svc.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	signer, err := token.NewSigner("test-secret", "studytrack", 15*time.Minute, 7*24*time.Hour, token.WithClock(now))
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	passwords, err := NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}

	log := zerolog.Nop()
	hub := &recordingHub{}
	notifier := newRecordingNotifier()

	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	sessionRepo := repository.NewSQLiteSessionRepo(db.Conn)
	streakRepo := repository.NewSQLiteStreakRepo(db.Conn)
	logRepo := repository.NewSQLiteStudyLogRepo(db.Conn)

	tokens := NewTokenService(db.Conn, sessionRepo, signer, hub, log)
	streaks := NewStreakService(db.Conn, streakRepo, hub, log)

	return &fixture{
		db:       db,
		signer:   signer,
		hub:      hub,
		notifier: notifier,
		sessions: sessionRepo,
		tokens:   tokens,
		streaks:  streaks,
		logs:     NewStudyLogService(db.Conn, logRepo, streaks),
		auth:     NewAuthService(db.Conn, userRepo, tokens, passwords, notifier, "Europe/Istanbul", log),
		users:    NewUserService(userRepo, streaks, passwords, notifier, log),
	}
}

var testClient = models.ClientInfo{UserAgent: "go-test", IP: "127.0.0.1"}

func (f *fixture) register(t *testing.T, email string) *models.AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), &models.CreateUserRequest{
		Name:     "Test User",
		Email:    email,
		Password: "correct-horse",
	}, testClient)
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return res
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := f.db.Conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
